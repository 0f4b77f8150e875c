// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package playback tracks server-side audio playback.
//
// The backend plays synthesized speech itself; the client only asks it to
// start or stop and then polls /api/status to learn when playback ended.
// Coordinator mirrors that as a small state machine:
//
//	Idle -> Loading -> Playing -> Idle
//	Loading|Playing -> Error -> Idle (after a short delay)
//
// At most one playback is tracked. Starting a new one supersedes the old
// one: its polling stops and its result is ignored. Polling is bounded by a
// maximum duration so the Playing state can never stick.
//
// # Usage
//
//	coord := playback.New(client, playback.DefaultOptions(), logger)
//	defer coord.Close()
//	unsubscribe := coord.Subscribe(func(s playback.Snapshot) {
//	    program.Send(s)
//	})
//	defer unsubscribe()
//	if err := coord.Play(ctx, msg.AudioRef); err != nil {
//	    // state is Error and recovers on its own
//	}
package playback
