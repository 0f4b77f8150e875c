// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

// =============================================================================
// NAVIGATION
// =============================================================================

// EnterMode selects a chat mode from the landing screen. Subjects mode shows
// the subject list; institutional mode opens its chat with a welcome.
func (c *Controller) EnterMode(mode session.Mode) error {
	if err := c.session.EnterMode(mode); err != nil {
		return err
	}
	c.reset()
	c.logger.Debug("entered mode", zap.Stringer("mode", mode))
	return nil
}

// SelectSubject opens the chat for a subject from the cached catalog.
func (c *Controller) SelectSubject(key string) error {
	subject, ok := c.Subject(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSubject, key)
	}
	if err := c.session.SelectSubject(subject.Key, subject.Name); err != nil {
		return err
	}
	c.reset()
	c.logger.Debug("started subject chat", zap.String("subject", subject.Key))
	return nil
}

// NavigateBack moves one screen back and resets the conversation.
func (c *Controller) NavigateBack() session.Screen {
	screen := c.session.Back()
	c.reset()
	return screen
}

// NavigateHome returns to the landing screen and resets the conversation.
func (c *Controller) NavigateHome() {
	c.session.Home()
	c.reset()
}

// SetLanguage changes the language for later requests and welcomes. The
// conversation is left as it is.
func (c *Controller) SetLanguage(code string) error {
	if err := c.session.SetLanguage(code); err != nil {
		return err
	}
	c.logger.Debug("language changed", zap.String("language", c.session.Language()))
	return nil
}

// reset empties the log and side history and, on the chat screen, appends
// the welcome for the current mode and language.
func (c *Controller) reset() {
	c.conv.Clear()
	c.epoch++
	c.listening = false
	if welcome := c.session.Welcome(); welcome != "" {
		c.conv.Append(model.SenderAssistant, welcome, "")
	}
}
