// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the tatvax command tree.
//
// Running tatvax with no subcommand starts the full-screen interface
// supplied through RootOptions.RunTUI. The subcommands cover scripted and
// line-based use of the same session controller:
//
//	tatvax chat                        Line-based chat with slash commands
//	tatvax ask [--subject k] <q>       One question, one answer
//	tatvax translate --to hi <text>    Translate text
//	tatvax feedback -r 5 <message>     Send feedback
//	tatvax clear                       Ask the server to forget the chat
//	tatvax subjects | languages        Catalogs
//	tatvax status                      Backend status
//	tatvax config show|path|init|get|set
//
// # Usage
//
//	root := cli.NewRootCommand(cli.RootOptions{RunTUI: runTUI})
//	os.Exit(cli.Execute(ctx, root, os.Stderr))
//
// # JSON Output
//
// Commands that take --json write a JSONResponse envelope to stdout:
//
//	{"success": true, "data": {...}, "error": null, "timestamp": "...", "command": "ask"}
//
// # Exit Codes
//
// ExitCode maps errors to process exit codes: 2 for usage and validation
// errors, 3 for configuration errors, 5 when the server cannot be reached
// and 6 when it answers with a failure.
package cli
