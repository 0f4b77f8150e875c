// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/tatvax-tui/internal/config"
	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/playback"
)

// Network steps run inside tea.Cmd goroutines and report back with these
// messages; the Finish step then runs on the update loop.

// =============================================================================
// REQUEST COMPLETIONS
// =============================================================================

type bootstrapDoneMsg struct {
	call controller.BootstrapCall
	res  controller.BootstrapResult
}

type textDoneMsg struct {
	call controller.TextCall
	res  controller.ChatResult
}

type voiceDoneMsg struct {
	call controller.VoiceCall
	res  controller.ChatResult
}

type translateDoneMsg struct {
	call controller.TranslateCall
	res  controller.TranslateResult
}

type feedbackDoneMsg struct {
	call controller.FeedbackCall
	err  error
}

type clearDoneMsg struct {
	call controller.ClearCall
	err  error
}

// =============================================================================
// AUDIO
// =============================================================================

// PlaybackMsg carries a playback transition into the update loop.
type PlaybackMsg struct {
	Snapshot playback.Snapshot
}

type playDoneMsg struct {
	err error
}

type stopDoneMsg struct {
	err error
}

// =============================================================================
// TIMERS AND CONFIG
// =============================================================================

type toastExpiredMsg struct {
	id int
}

// feedbackCloseMsg closes the feedback overlay opened as generation gen.
type feedbackCloseMsg struct {
	gen int
}

// ConfigReloadedMsg delivers a config file change.
type ConfigReloadedMsg struct {
	Config *config.Config
}
