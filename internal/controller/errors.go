// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"errors"

	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/api"
)

// Local validation errors. No request is sent when one is returned.
var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrEmptyText      = errors.New("text to translate is empty")
	ErrEmptyFeedback  = errors.New("please enter your feedback message")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrUnknownSubject = errors.New("unknown subject")
	ErrNotInChat      = errors.New("no chat is open")
	ErrVoiceStopped   = errors.New("voice input stopped")
	ErrVoiceBusy      = errors.New("a voice request is still in progress")
)

// Fixed user-facing texts.
const (
	MsgTextServerFailure    = "Sorry, I encountered an error. Please try again."
	MsgTextTransportFailure = "Sorry, I could not process your request. Please check your connection."

	MsgVoiceServerFailure    = "Sorry, I could not understand your voice. Please try again."
	MsgVoiceTransportFailure = "Voice recognition failed. Please try typing your message."

	MsgTranslateFailure = "Translation failed. Please try again."

	MsgClearSuccess = "Chat cleared successfully"
	MsgClearFailure = "Failed to clear chat"

	MsgFeedbackThanks  = "Thank you for your feedback!"
	MsgFeedbackFailure = "Failed to submit feedback"

	MsgConnectFailure = "Failed to connect to TatvaX services"
)

// Feedback placeholders for fields the user left empty.
const (
	FeedbackNotRated    = "Not rated"
	FeedbackAnonymous   = "Anonymous"
	FeedbackNotProvided = "Not provided"
)

// logFailure logs a failed backend call at a level that tells server
// failures and transport failures apart.
func logFailure(logger *zap.Logger, op Op, err error) {
	var se *api.ServerError
	switch {
	case errors.As(err, &se):
		logger.Warn("server reported failure",
			zap.Stringer("op", op),
			zap.String("endpoint", se.Endpoint),
			zap.Int("http_status", se.HTTPStatus),
			zap.String("status", se.Status),
			zap.String("message", se.Message))
	case api.IsTransport(err):
		logger.Error("transport failure", zap.Stringer("op", op), zap.Error(err))
	default:
		logger.Error("request failed", zap.Stringer("op", op), zap.Error(err))
	}
}
