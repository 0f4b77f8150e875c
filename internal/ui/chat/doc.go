// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea front end of the tatvax client.

It renders the three screens of a session (landing, subject list, chat) and
the translate, feedback, language and help overlays on top of them. All
session state lives in the controller; this package only turns key presses
into controller calls and controller state into text.

# Request flow

Every backend operation is split in three steps. The Start step runs in
Update, validates input and registers the pending indicator. The Do step
runs inside a tea.Cmd and only talks to the backend. Its result comes back
as a message and the Finish step runs in Update again, so the controller is
never touched from two goroutines at once.

# Audio

The playback coordinator runs its own poll loop. Run subscribes to it and
forwards each transition as a PlaybackMsg.

# Usage

	err := chat.Run(ctx, chat.Options{
		Controller: ctrl,
		Player:     player,
		Logger:     logger,
	}, configPath)
*/
package chat
