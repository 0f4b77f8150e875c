// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/tatvax-tui/internal/api"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

// =============================================================================
// SEND TEXT
// =============================================================================

// TextCall is a started SendText.
type TextCall struct {
	ID      string
	Query   string
	Payload api.ChatTextRequest

	epoch uint64
	mode  session.Mode
}

// ChatResult is the outcome of a chat request.
type ChatResult struct {
	Response *api.ChatResponse
	Err      error
}

// StartText validates input, appends it as a user message and registers the
// thinking indicator.
func (c *Controller) StartText(input string) (TextCall, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return TextCall{}, ErrEmptyMessage
	}
	if !c.session.InChat() {
		return TextCall{}, ErrNotInChat
	}
	text = norm.NFC.String(text)

	c.conv.Append(model.SenderUser, text, "")
	call := TextCall{
		ID:    c.begin(OpSendText).ID,
		Query: text,
		Payload: api.ChatTextRequest{
			Message:  text,
			Mode:     c.session.Mode().String(),
			Language: c.session.Language(),
			Subject:  c.session.Subject(),
		},
		epoch: c.epoch,
		mode:  c.session.Mode(),
	}
	return call, nil
}

// DoText performs the request. Safe to call from any goroutine.
func (c *Controller) DoText(ctx context.Context, call TextCall) ChatResult {
	resp, err := c.backend.ChatText(ctx, call.Payload)
	return ChatResult{Response: resp, Err: err}
}

// FinishText appends the reply, or the fixed failure message, and clears the
// indicator. It returns the appended message (nil for a stale reply).
func (c *Controller) FinishText(call TextCall, res ChatResult) *model.Message {
	defer c.end(call.ID)

	if call.epoch != c.epoch {
		c.logger.Debug("dropping reply for a reset chat", zap.String("request_id", call.ID))
		return nil
	}
	if res.Err != nil {
		logFailure(c.logger, OpSendText, res.Err)
		msg := MsgTextServerFailure
		if api.IsTransport(res.Err) {
			msg = MsgTextTransportFailure
		}
		return c.conv.Append(model.SenderAssistant, msg, "")
	}

	reply := c.conv.Append(model.SenderAssistant, res.Response.Response, res.Response.AudioFile)
	c.conv.RecordExchange(model.Exchange{
		Query:     call.Query,
		Response:  res.Response.Response,
		Mode:      call.mode.String(),
		Subject:   call.Payload.Subject,
		Language:  call.Payload.Language,
		Timestamp: c.now(),
	})
	return reply
}

// SendText sends a typed message and blocks until it is answered. Only
// local validation errors are returned.
func (c *Controller) SendText(ctx context.Context, input string) (*model.Message, error) {
	call, err := c.StartText(input)
	if err != nil {
		return nil, err
	}
	return c.FinishText(call, c.DoText(ctx, call)), nil
}

// =============================================================================
// SEND VOICE
// =============================================================================

// VoiceCall is a started SendVoice.
type VoiceCall struct {
	ID      string
	Payload api.ChatVoiceRequest

	epoch uint64
}

// StartVoice toggles voice input. When already listening it only turns the
// flag off and returns ErrVoiceStopped; otherwise it turns the flag on and
// registers the listening indicator. While an earlier voice request is
// still pending, even after the toggle turned the flag off, it returns
// ErrVoiceBusy so only one voice request is ever outstanding.
func (c *Controller) StartVoice() (VoiceCall, error) {
	if c.listening {
		c.listening = false
		return VoiceCall{}, ErrVoiceStopped
	}
	if c.Pending(OpSendVoice) {
		return VoiceCall{}, ErrVoiceBusy
	}
	if !c.session.InChat() {
		return VoiceCall{}, ErrNotInChat
	}
	c.listening = true
	return VoiceCall{
		ID: c.begin(OpSendVoice).ID,
		Payload: api.ChatVoiceRequest{
			Mode:     c.session.Mode().String(),
			Language: c.session.Language(),
			Subject:  c.session.Subject(),
		},
		epoch: c.epoch,
	}, nil
}

// DoVoice performs the request; the server records and recognises speech.
// Safe to call from any goroutine.
func (c *Controller) DoVoice(ctx context.Context, call VoiceCall) ChatResult {
	resp, err := c.backend.ChatVoice(ctx, call.Payload)
	return ChatResult{Response: resp, Err: err}
}

// FinishVoice appends the recognised query and the reply, or the fixed
// failure message. The listening flag is reset whatever the outcome.
func (c *Controller) FinishVoice(call VoiceCall, res ChatResult) *model.Message {
	defer func() {
		c.listening = false
		c.end(call.ID)
	}()

	if call.epoch != c.epoch {
		c.logger.Debug("dropping voice reply for a reset chat", zap.String("request_id", call.ID))
		return nil
	}
	if res.Err != nil {
		logFailure(c.logger, OpSendVoice, res.Err)
		msg := MsgVoiceServerFailure
		if api.IsTransport(res.Err) {
			msg = MsgVoiceTransportFailure
		}
		return c.conv.Append(model.SenderAssistant, msg, "")
	}

	if q := strings.TrimSpace(res.Response.OriginalQuery); q != "" {
		c.conv.Append(model.SenderUser, norm.NFC.String(q), "")
	}
	return c.conv.Append(model.SenderAssistant, res.Response.Response, res.Response.AudioFile)
}

// SendVoice runs one voice exchange in place. ErrVoiceStopped and
// ErrNotInChat are the only errors.
func (c *Controller) SendVoice(ctx context.Context) (*model.Message, error) {
	call, err := c.StartVoice()
	if err != nil {
		return nil, err
	}
	return c.FinishVoice(call, c.DoVoice(ctx, call)), nil
}

// =============================================================================
// TRANSLATE
// =============================================================================

// TranslateCall is a started Translate.
type TranslateCall struct {
	ID      string
	Payload api.TranslateRequest
}

// TranslationResult is what the translate panel shows.
type TranslationResult struct {
	Original       string `json:"original"`
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	TargetName     string `json:"target_name"`
	// Failed is set when the request failed; Text then holds the fixed
	// failure message.
	Failed bool `json:"failed"`
}

// TranslateResult is the raw outcome of a translate request.
type TranslateResult struct {
	Response *api.TranslateResponse
	Err      error
}

// StartTranslate validates the text and language codes.
func (c *Controller) StartTranslate(text, source, target string) (TranslateCall, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TranslateCall{}, ErrEmptyText
	}
	src, err := i18n.Normalize(source)
	if err != nil {
		return TranslateCall{}, fmt.Errorf("source: %w", err)
	}
	dst, err := i18n.Normalize(target)
	if err != nil {
		return TranslateCall{}, fmt.Errorf("target: %w", err)
	}
	return TranslateCall{
		ID: c.begin(OpTranslate).ID,
		Payload: api.TranslateRequest{
			Text:           norm.NFC.String(text),
			SourceLanguage: src,
			TargetLanguage: dst,
		},
	}, nil
}

// DoTranslate performs the request. Safe to call from any goroutine.
func (c *Controller) DoTranslate(ctx context.Context, call TranslateCall) TranslateResult {
	resp, err := c.backend.Translate(ctx, call.Payload)
	return TranslateResult{Response: resp, Err: err}
}

// FinishTranslate builds the panel result and clears the indicator.
func (c *Controller) FinishTranslate(call TranslateCall, res TranslateResult) TranslationResult {
	defer c.end(call.ID)

	if res.Err != nil {
		logFailure(c.logger, OpTranslate, res.Err)
		return TranslationResult{
			Original:       call.Payload.Text,
			Text:           MsgTranslateFailure,
			TargetLanguage: call.Payload.TargetLanguage,
			TargetName:     c.LanguageName(call.Payload.TargetLanguage),
			Failed:         true,
		}
	}
	return TranslationResult{
		Original:       call.Payload.Text,
		Text:           render.EscapeTerminal(res.Response.TranslatedText),
		TargetLanguage: res.Response.TargetLanguage,
		TargetName:     c.LanguageName(res.Response.TargetLanguage),
	}
}

// Translate translates text in place. Only validation errors are returned.
func (c *Controller) Translate(ctx context.Context, text, source, target string) (TranslationResult, error) {
	call, err := c.StartTranslate(text, source, target)
	if err != nil {
		return TranslationResult{}, err
	}
	return c.FinishTranslate(call, c.DoTranslate(ctx, call)), nil
}

// =============================================================================
// FEEDBACK
// =============================================================================

// FeedbackForm is what the user filled in. Empty fields take placeholders.
type FeedbackForm struct {
	// Rating is 1-5, or 0 for not rated.
	Rating  int
	Name    string
	Email   string
	Message string
}

// FeedbackCall is a started SubmitFeedback.
type FeedbackCall struct {
	ID      string
	Payload api.FeedbackRequest
}

// FeedbackResult is the outcome shown by the feedback form.
type FeedbackResult struct {
	// OK is true when the server accepted the feedback.
	OK bool
	// Message is the confirmation or the error to surface.
	Message string
	// CloseAfter is how long the confirmation stays before the form closes.
	CloseAfter time.Duration
	Err        error
}

// BuildFeedback validates the form and fills defaults and context fields.
func (c *Controller) BuildFeedback(form FeedbackForm) (api.FeedbackRequest, error) {
	message := strings.TrimSpace(form.Message)
	if message == "" {
		return api.FeedbackRequest{}, ErrEmptyFeedback
	}
	if form.Rating < 0 || form.Rating > 5 {
		return api.FeedbackRequest{}, ErrInvalidRating
	}

	rating := FeedbackNotRated
	if form.Rating > 0 {
		rating = strconv.Itoa(form.Rating)
	}
	return api.FeedbackRequest{
		Rating:           rating,
		Name:             orDefault(form.Name, FeedbackAnonymous),
		Email:            orDefault(form.Email, FeedbackNotProvided),
		Message:          message,
		Timestamp:        c.now().UTC().Format(time.RFC3339),
		UserAgent:        c.opts.UserAgent,
		CurrentPage:      c.session.Screen().String(),
		ChatMode:         c.session.Mode().String(),
		SelectedLanguage: c.session.Language(),
	}, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// StartFeedback validates the form and registers the indicator.
func (c *Controller) StartFeedback(form FeedbackForm) (FeedbackCall, error) {
	payload, err := c.BuildFeedback(form)
	if err != nil {
		return FeedbackCall{}, err
	}
	return FeedbackCall{ID: c.begin(OpFeedback).ID, Payload: payload}, nil
}

// DoFeedback performs the request. Safe to call from any goroutine.
func (c *Controller) DoFeedback(ctx context.Context, call FeedbackCall) error {
	_, err := c.backend.SubmitFeedback(ctx, call.Payload)
	return err
}

// FinishFeedback clears the indicator and reports the outcome. Failures
// carry the server's message when it sent one.
func (c *Controller) FinishFeedback(call FeedbackCall, err error) FeedbackResult {
	defer c.end(call.ID)

	if err != nil {
		logFailure(c.logger, OpFeedback, err)
		reason := render.EscapeTerminal(api.ServerMessage(err))
		if reason == "" && api.IsTransport(err) {
			reason = "could not reach the server"
		}
		text := MsgFeedbackFailure
		if reason != "" {
			text = MsgFeedbackFailure + ": " + reason
		}
		c.notify(NoticeError, text)
		return FeedbackResult{Message: text, Err: err}
	}

	c.notify(NoticeSuccess, MsgFeedbackThanks)
	return FeedbackResult{OK: true, Message: MsgFeedbackThanks, CloseAfter: c.opts.FeedbackCloseDelay}
}

// SubmitFeedback submits the form in place. Only validation errors are
// returned; server failures are in the result.
func (c *Controller) SubmitFeedback(ctx context.Context, form FeedbackForm) (FeedbackResult, error) {
	call, err := c.StartFeedback(form)
	if err != nil {
		return FeedbackResult{}, err
	}
	return c.FinishFeedback(call, c.DoFeedback(ctx, call)), nil
}

// =============================================================================
// CLEAR
// =============================================================================

// ClearCall is a started ClearSession.
type ClearCall struct {
	ID string
}

// StartClear registers the indicator.
func (c *Controller) StartClear() ClearCall {
	return ClearCall{ID: c.begin(OpClear).ID}
}

// DoClear asks the server to forget the conversation. Safe to call from any
// goroutine.
func (c *Controller) DoClear(ctx context.Context, call ClearCall) error {
	return c.backend.Clear(ctx)
}

// FinishClear resets the conversation and re-appends the welcome only when
// the server acknowledged; otherwise the log is left untouched.
func (c *Controller) FinishClear(call ClearCall, err error) bool {
	defer c.end(call.ID)

	if err != nil {
		logFailure(c.logger, OpClear, err)
		c.notify(NoticeError, MsgClearFailure)
		return false
	}
	c.reset()
	c.notify(NoticeSuccess, MsgClearSuccess)
	return true
}

// ClearSession clears in place and reports whether it succeeded.
func (c *Controller) ClearSession(ctx context.Context) bool {
	call := c.StartClear()
	return c.FinishClear(call, c.DoClear(ctx, call))
}

// IsLocalError reports whether err is one of the validation errors that
// means nothing was sent.
func IsLocalError(err error) bool {
	for _, target := range []error{
		ErrEmptyMessage, ErrEmptyText, ErrEmptyFeedback, ErrInvalidRating,
		ErrUnknownSubject, ErrNotInChat, ErrVoiceStopped, ErrVoiceBusy, i18n.ErrUnsupportedLanguage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
