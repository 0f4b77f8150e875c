// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the TatvaX backend.
//
// Every endpoint the terminal client uses has one method on Client. Responses
// carry a "status" discriminator; anything other than "success", a missing
// required field, an undecodable body or a non-2xx code is reported as a
// *ServerError. Failures below HTTP (refused connections, timeouts, cancelled
// contexts) are reported as a *TransportError. Callers branch with errors.Is
// on ErrServerFailure and ErrTransport.
//
// The client never retries. Each call is one request and one answer.
//
//	client := api.NewClient("http://localhost:5000").
//	    WithTimeout(30 * time.Second).
//	    WithLogger(logger)
//	resp, err := client.ChatText(ctx, api.ChatTextRequest{Message: "hi", Mode: "subjects", Language: "en"})
package api
