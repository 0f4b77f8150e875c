// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller implements the tatvax session controller.
//
// A Controller owns the navigation state (session.Session), the
// conversation log (model.Conversation), the cached catalogs and the set of
// in-flight request indicators. It has no rendering dependency: the Bubble
// Tea program and the line REPL both drive it through the same commands.
//
// # Threading
//
// The controller is owned by one event loop and is not locked. Each request
// operation is split in three steps so that only the network call leaves
// the event loop:
//
//	call, err := ctrl.StartText(input)      // event loop: validate, append user message
//	result := ctrl.DoText(ctx, call)        // any goroutine: network only
//	msg := ctrl.FinishText(call, result)    // event loop: append reply, clear indicator
//
// SendText and friends run all three steps in place for callers without an
// event loop of their own (the REPL and one-shot commands).
//
// # Failures
//
// Local validation failures return sentinel errors and send nothing. Server
// and transport failures never escape Finish: they become a fixed
// assistant message or a notification, and the indicator is always cleared.
package controller
