// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the zap logger for tatvax.
//
// Logs are JSON lines appended to a file so that the terminal UI is never
// written to. Components receive a *zap.Logger through their constructors;
// L returns the process-wide logger for code that has none.
//
// # Usage
//
//	if err := logging.Init(cfg.Log); err != nil {
//	    fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
//	}
//	defer logging.Close()
//	logging.L().Info("starting", zap.String("server", cfg.Server.URL))
package logging
