// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tatvax-tui/internal/api"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

var (
	errServer    = &api.ServerError{Endpoint: "/api/test", HTTPStatus: http.StatusOK, Status: "error"}
	errTransport = &api.TransportError{Endpoint: "/api/test", Err: errors.New("connection refused")}
)

type fakeBackend struct {
	calls atomic.Int32

	statusErr error
	languages map[string]string
	subjects  []api.Subject

	chat      *api.ChatResponse
	chatErr   error
	lastText  api.ChatTextRequest
	voice     *api.ChatResponse
	voiceErr  error
	lastVoice api.ChatVoiceRequest

	translate    *api.TranslateResponse
	translateErr error

	feedbackErr  error
	lastFeedback api.FeedbackRequest

	clearErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		languages: map[string]string{"en": "English", "hi": "हिंदी (Hindi)"},
		subjects: []api.Subject{
			{Key: "mathematics", Name: "Mathematics"},
			{Key: "physics", Name: "Physics"},
		},
		chat: &api.ChatResponse{Status: "success", Response: "A derivative is..."},
	}
}

func (f *fakeBackend) Status(ctx context.Context) (*api.StatusResponse, error) {
	f.calls.Add(1)
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &api.StatusResponse{Status: "success", Version: "2.0"}, nil
}

func (f *fakeBackend) Languages(ctx context.Context) (map[string]string, error) {
	f.calls.Add(1)
	return f.languages, nil
}

func (f *fakeBackend) Subjects(ctx context.Context) ([]api.Subject, error) {
	f.calls.Add(1)
	return f.subjects, nil
}

func (f *fakeBackend) ChatText(ctx context.Context, req api.ChatTextRequest) (*api.ChatResponse, error) {
	f.calls.Add(1)
	f.lastText = req
	return f.chat, f.chatErr
}

func (f *fakeBackend) ChatVoice(ctx context.Context, req api.ChatVoiceRequest) (*api.ChatResponse, error) {
	f.calls.Add(1)
	f.lastVoice = req
	return f.voice, f.voiceErr
}

func (f *fakeBackend) Translate(ctx context.Context, req api.TranslateRequest) (*api.TranslateResponse, error) {
	f.calls.Add(1)
	return f.translate, f.translateErr
}

func (f *fakeBackend) SubmitFeedback(ctx context.Context, req api.FeedbackRequest) (*api.FeedbackResponse, error) {
	f.calls.Add(1)
	f.lastFeedback = req
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return &api.FeedbackResponse{Status: "success"}, nil
}

func (f *fakeBackend) Clear(ctx context.Context) error {
	f.calls.Add(1)
	return f.clearErr
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()
	c := New(backend, Options{UserAgent: "tatvax/test (linux/amd64)", Now: func() time.Time { return fixedNow }}, nil)
	c.Bootstrap(context.Background())
	require.True(t, c.Connected())
	require.Empty(t, c.Indicators())
	c.Notifications()
	backend.calls.Store(0)
	return c
}

func openSubjectChat(t *testing.T, c *Controller, key string) {
	t.Helper()
	require.NoError(t, c.EnterMode(session.ModeSubjects))
	require.NoError(t, c.SelectSubject(key))
}

func senders(msgs []*model.Message) []model.Sender {
	out := make([]model.Sender, len(msgs))
	for i, m := range msgs {
		out[i] = m.Sender
	}
	return out
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

func TestBootstrap_CachesCatalogs(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)

	assert.Equal(t, "2.0", c.ServerVersion())
	require.Len(t, c.Subjects(), 2)
	_, ok := c.Subject("physics")
	assert.True(t, ok)
}

func TestBootstrap_CatalogTextIsInert(t *testing.T) {
	backend := newFakeBackend()
	backend.languages = map[string]string{"zz": "Zedish\x1b]0;title\x07"}
	backend.subjects = []api.Subject{
		{Key: "physics", Name: "Phys\x1b[31mics", Description: "Motion\x1b]52;c;ZXZpbA==\x07", Icon: "⚛"},
	}
	c := newController(t, backend)

	assert.Equal(t, "Zedish", c.LanguageName("zz"))
	s, ok := c.Subject("physics")
	require.True(t, ok)
	assert.Equal(t, "Physics", s.Name)
	assert.Equal(t, "Motion", s.Description)
	assert.Equal(t, "⚛", s.Icon)
}

func TestBootstrap_FailureNotifies(t *testing.T) {
	backend := newFakeBackend()
	backend.statusErr = errTransport
	c := New(backend, Options{}, nil)

	c.Bootstrap(context.Background())

	assert.False(t, c.Connected())
	assert.Empty(t, c.Subjects())
	assert.Empty(t, c.Indicators())
	assert.Equal(t, int32(1), backend.calls.Load(), "catalogs are not fetched after a failed status check")
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, MsgConnectFailure, notes[0].Text)
	assert.Equal(t, NoticeError, notes[0].Kind)
	assert.Empty(t, c.Notifications(), "notifications are drained")
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestEnterMode_Institutional(t *testing.T) {
	c := newController(t, newFakeBackend())

	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.SenderAssistant, msgs[0].Sender)
	assert.Equal(t, i18n.InstitutionalWelcome("en"), msgs[0].Content)
	assert.Equal(t, session.ScreenChat, c.Screen())
	assert.Zero(t, c.backend.(*fakeBackend).calls.Load(), "entering a mode makes no request")
}

func TestEnterMode_SubjectsShowsListWithoutWelcome(t *testing.T) {
	c := newController(t, newFakeBackend())

	require.NoError(t, c.EnterMode(session.ModeSubjects))

	s := c.Session()
	assert.Equal(t, session.ScreenSubjects, s.Screen())
	assert.Empty(t, c.Messages())
}

func TestSelectSubject_UnknownRejected(t *testing.T) {
	c := newController(t, newFakeBackend())
	require.NoError(t, c.EnterMode(session.ModeSubjects))

	err := c.SelectSubject("astrology")

	assert.ErrorIs(t, err, ErrUnknownSubject)
	s := c.Session()
	assert.Equal(t, session.ScreenSubjects, s.Screen())
}

func TestModeSwitch_ClearsLogWithOneWelcome(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)

	openSubjectChat(t, c, "mathematics")
	_, err := c.SendText(context.Background(), "What is a derivative?")
	require.NoError(t, err)
	require.Len(t, c.Messages(), 3)

	require.NoError(t, c.EnterMode(session.ModeInstitutional))
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, i18n.InstitutionalWelcome("en"), msgs[0].Content)
	assert.Empty(t, c.History())

	_, err = c.SendText(context.Background(), "What are the fees?")
	require.NoError(t, err)
	c.NavigateHome()
	openSubjectChat(t, c, "physics")

	msgs = c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, i18n.SubjectWelcome("Physics", "en"), msgs[0].Content)
}

func TestNavigateBack(t *testing.T) {
	c := newController(t, newFakeBackend())
	openSubjectChat(t, c, "physics")

	assert.Equal(t, session.ScreenSubjects, c.NavigateBack())
	assert.Empty(t, c.Messages())
	assert.Equal(t, session.ScreenLanding, c.NavigateBack())

	require.NoError(t, c.EnterMode(session.ModeInstitutional))
	assert.Equal(t, session.ScreenLanding, c.NavigateBack())
	s := c.Session()
	assert.Equal(t, session.ModeUnset, s.Mode())
	assert.NoError(t, s.Validate())
}

func TestSetLanguage_KeepsLogAndAffectsWelcome(t *testing.T) {
	c := newController(t, newFakeBackend())
	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	require.NoError(t, c.SetLanguage("hi"))
	assert.Len(t, c.Messages(), 1)
	assert.Equal(t, i18n.Placeholder("hi"), c.Placeholder())

	openSubjectChat(t, c, "mathematics")
	assert.Contains(t, c.Messages()[0].Content, "नमस्ते")

	assert.ErrorIs(t, c.SetLanguage("fr"), i18n.ErrUnsupportedLanguage)
}

// =============================================================================
// SEND TEXT
// =============================================================================

func TestSendText_EmptyNeverSends(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	openSubjectChat(t, c, "mathematics")

	for _, input := range []string{"", "   ", "\n\t"} {
		msg, err := c.SendText(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, msg)
	}

	assert.Zero(t, backend.calls.Load())
	assert.Len(t, c.Messages(), 1)
	assert.Empty(t, c.Indicators())
}

func TestSendText_RequiresChat(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)

	_, err := c.SendText(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrNotInChat)
	assert.Zero(t, backend.calls.Load())
}

func TestSendText_DerivativeScenario(t *testing.T) {
	backend := newFakeBackend()
	backend.chat = &api.ChatResponse{Status: "success", Response: "A derivative is...", AudioFile: "resp_42.mp3"}
	c := newController(t, backend)
	openSubjectChat(t, c, "mathematics")

	call, err := c.StartText("  What is a derivative?  ")
	require.NoError(t, err)

	// The user message is appended before the reply and the indicator shows.
	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "What is a derivative?", msgs[1].Content)
	assert.True(t, c.Pending(OpSendText))
	assert.Equal(t, api.ChatTextRequest{Message: "What is a derivative?", Mode: "subjects", Language: "en", Subject: "mathematics"}, call.Payload)

	reply := c.FinishText(call, c.DoText(context.Background(), call))

	require.NotNil(t, reply)
	assert.Equal(t, "A derivative is...", reply.Content)
	assert.Equal(t, "resp_42.mp3", reply.AudioRef)
	assert.Equal(t, []model.Sender{model.SenderAssistant, model.SenderUser, model.SenderAssistant}, senders(c.Messages()))
	assert.Empty(t, c.Indicators())

	history := c.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.Exchange{
		Query: "What is a derivative?", Response: "A derivative is...",
		Mode: "subjects", Subject: "mathematics", Language: "en", Timestamp: fixedNow,
	}, history[0])
}

func TestSendText_RecordsActivity(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))
	sess := c.Session()
	before := sess.LastActivity()
	time.Sleep(2 * time.Millisecond)

	_, err := c.SendText(context.Background(), "hello")

	require.NoError(t, err)
	sess = c.Session()
	assert.True(t, sess.LastActivity().After(before))
}

func TestSendText_NormalisesToNFC(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	_, err := c.SendText(context.Background(), "café")
	require.NoError(t, err)

	assert.Equal(t, "café", backend.lastText.Message)
	assert.Equal(t, "institutional", backend.lastText.Mode)
	assert.Empty(t, backend.lastText.Subject)
}

func TestSendText_FailuresAppendFixedMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server", errServer, MsgTextServerFailure},
		{"transport", errTransport, MsgTextTransportFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.chat, backend.chatErr = nil, tc.err
			c := newController(t, backend)
			openSubjectChat(t, c, "mathematics")

			reply, err := c.SendText(context.Background(), "hello")

			require.NoError(t, err)
			assert.Equal(t, tc.want, reply.Content)
			assert.Equal(t, model.SenderAssistant, reply.Sender)
			assert.Len(t, c.Messages(), 3)
			assert.Empty(t, c.Indicators())
			assert.Empty(t, c.History())
			assert.Equal(t, int32(1), backend.calls.Load(), "no retry")
		})
	}
}

func TestSendText_OverlappingCallsScopedByID(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	first, err := c.StartText("one")
	require.NoError(t, err)
	second, err := c.StartText("two")
	require.NoError(t, err)
	require.Len(t, c.Indicators(), 2)
	assert.NotEqual(t, first.ID, second.ID)

	c.FinishText(second, ChatResult{Response: &api.ChatResponse{Response: "reply two"}})
	inds := c.Indicators()
	require.Len(t, inds, 1)
	assert.Equal(t, first.ID, inds[0].ID)

	c.FinishText(first, ChatResult{Err: errTransport})
	assert.Empty(t, c.Indicators())
}

func TestSendText_StaleReplyDropped(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	openSubjectChat(t, c, "mathematics")

	call, err := c.StartText("hello")
	require.NoError(t, err)
	res := c.DoText(context.Background(), call)

	c.NavigateBack()
	openSubjectChat(t, c, "physics")
	reply := c.FinishText(call, res)

	assert.Nil(t, reply)
	assert.Len(t, c.Messages(), 1)
	assert.Empty(t, c.Indicators())
}

// =============================================================================
// SEND VOICE
// =============================================================================

func TestSendVoice_AppendsRecognisedQuery(t *testing.T) {
	backend := newFakeBackend()
	backend.voice = &api.ChatResponse{Status: "success", OriginalQuery: "what is gravity", Response: "Gravity is...", AudioFile: "g.mp3"}
	c := newController(t, backend)
	openSubjectChat(t, c, "physics")

	call, err := c.StartVoice()
	require.NoError(t, err)
	assert.True(t, c.Listening())
	assert.True(t, c.Pending(OpSendVoice))

	reply := c.FinishVoice(call, c.DoVoice(context.Background(), call))

	assert.False(t, c.Listening())
	assert.Empty(t, c.Indicators())
	assert.Equal(t, "Gravity is...", reply.Content)
	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "what is gravity", msgs[1].Content)
	assert.Equal(t, model.SenderUser, msgs[1].Sender)
	assert.Equal(t, api.ChatVoiceRequest{Mode: "subjects", Language: "en", Subject: "physics"}, backend.lastVoice)
}

func TestSendVoice_NoQueryOnlyReply(t *testing.T) {
	backend := newFakeBackend()
	backend.voice = &api.ChatResponse{Status: "success", Response: "Hello"}
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	_, err := c.SendVoice(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Sender{model.SenderAssistant, model.SenderAssistant}, senders(c.Messages()))
}

func TestSendVoice_ToggleStopsWithoutRequest(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	call, err := c.StartVoice()
	require.NoError(t, err)

	_, err = c.StartVoice()
	assert.ErrorIs(t, err, ErrVoiceStopped)
	assert.False(t, c.Listening())
	assert.Zero(t, backend.calls.Load())

	// The pending request still finishes and clears its indicator.
	c.FinishVoice(call, ChatResult{Err: errTransport})
	assert.Empty(t, c.Indicators())
}

func TestSendVoice_RefusedWhilePending(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))

	call, err := c.StartVoice()
	require.NoError(t, err)
	_, err = c.StartVoice()
	require.ErrorIs(t, err, ErrVoiceStopped)

	_, err = c.StartVoice()
	assert.ErrorIs(t, err, ErrVoiceBusy)
	assert.True(t, IsLocalError(err))
	assert.False(t, c.Listening())
	assert.Len(t, c.Indicators(), 1, "only the first voice request is outstanding")

	c.FinishVoice(call, ChatResult{Err: errTransport})
	_, err = c.StartVoice()
	assert.NoError(t, err, "voice input is available again once the request finishes")
	assert.True(t, c.Listening())
}

func TestSendVoice_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server", errServer, MsgVoiceServerFailure},
		{"transport", errTransport, MsgVoiceTransportFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.voiceErr = tc.err
			c := newController(t, backend)
			require.NoError(t, c.EnterMode(session.ModeInstitutional))

			reply, err := c.SendVoice(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.want, reply.Content)
			assert.False(t, c.Listening())
			assert.Empty(t, c.Indicators())
		})
	}
}

// =============================================================================
// TRANSLATE
// =============================================================================

func TestTranslate_Success(t *testing.T) {
	backend := newFakeBackend()
	backend.translate = &api.TranslateResponse{Status: "success", TranslatedText: "नमस्ते", TargetLanguage: "hi"}
	c := newController(t, backend)

	res, err := c.Translate(context.Background(), "hello", "en", "hi")

	require.NoError(t, err)
	assert.False(t, res.Failed)
	assert.Equal(t, "नमस्ते", res.Text)
	assert.Equal(t, i18n.DisplayName("hi"), res.TargetName)
	assert.Empty(t, c.Indicators())
}

func TestTranslate_Validation(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)

	_, err := c.Translate(context.Background(), "  ", "en", "hi")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = c.Translate(context.Background(), "hello", "en", "fr")
	assert.ErrorIs(t, err, i18n.ErrUnsupportedLanguage)
	assert.True(t, IsLocalError(err))

	assert.Zero(t, backend.calls.Load())
	assert.Empty(t, c.Indicators())
}

func TestTranslate_Failure(t *testing.T) {
	for _, failure := range []error{errServer, errTransport} {
		backend := newFakeBackend()
		backend.translateErr = failure
		c := newController(t, backend)

		res, err := c.Translate(context.Background(), "hello", "en", "ta")

		require.NoError(t, err)
		assert.True(t, res.Failed)
		assert.Equal(t, MsgTranslateFailure, res.Text)
		assert.Empty(t, c.Indicators())
	}
}

// =============================================================================
// FEEDBACK
// =============================================================================

func TestSubmitFeedback_EmptyRejectedLocally(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)

	_, err := c.SubmitFeedback(context.Background(), FeedbackForm{Message: ""})
	assert.ErrorIs(t, err, ErrEmptyFeedback)

	_, err = c.SubmitFeedback(context.Background(), FeedbackForm{Message: "ok", Rating: 9})
	assert.ErrorIs(t, err, ErrInvalidRating)

	assert.Zero(t, backend.calls.Load())
}

func TestSubmitFeedback_DefaultsAndContext(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	require.NoError(t, c.EnterMode(session.ModeInstitutional))
	require.NoError(t, c.SetLanguage("kn"))

	res, err := c.SubmitFeedback(context.Background(), FeedbackForm{Message: "  Very helpful  "})

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 2*time.Second, res.CloseAfter)
	assert.Equal(t, api.FeedbackRequest{
		Rating:           FeedbackNotRated,
		Name:             FeedbackAnonymous,
		Email:            FeedbackNotProvided,
		Message:          "Very helpful",
		Timestamp:        "2025-03-14T09:30:00Z",
		UserAgent:        "tatvax/test (linux/amd64)",
		CurrentPage:      "chat",
		ChatMode:         "institutional",
		SelectedLanguage: "kn",
	}, backend.lastFeedback)
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, MsgFeedbackThanks, notes[0].Text)
}

func TestSubmitFeedback_RatingAndFields(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)

	_, err := c.SubmitFeedback(context.Background(), FeedbackForm{Rating: 4, Name: "Asha", Email: "asha@example.org", Message: "Nice"})

	require.NoError(t, err)
	assert.Equal(t, "4", backend.lastFeedback.Rating)
	assert.Equal(t, "Asha", backend.lastFeedback.Name)
	assert.Equal(t, "asha@example.org", backend.lastFeedback.Email)
	assert.Equal(t, "landing", backend.lastFeedback.CurrentPage)
	assert.Empty(t, backend.lastFeedback.ChatMode)
}

func TestSubmitFeedback_FailureSurfacesServerMessage(t *testing.T) {
	backend := newFakeBackend()
	backend.feedbackErr = &api.ServerError{Endpoint: api.PathFeedback, HTTPStatus: 500, Message: "Failed to save feedback"}
	c := newController(t, backend)

	res, err := c.SubmitFeedback(context.Background(), FeedbackForm{Message: "hi"})

	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "Failed to submit feedback: Failed to save feedback", res.Message)
	assert.Empty(t, c.Indicators())
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, NoticeError, notes[0].Kind)
}

// =============================================================================
// CLEAR
// =============================================================================

func TestClearSession_SuccessResetsWithWelcome(t *testing.T) {
	backend := newFakeBackend()
	c := newController(t, backend)
	openSubjectChat(t, c, "mathematics")
	_, err := c.SendText(context.Background(), "hello")
	require.NoError(t, err)

	ok := c.ClearSession(context.Background())

	require.True(t, ok)
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, i18n.SubjectWelcome("Mathematics", "en"), msgs[0].Content)
	assert.Empty(t, c.History())
	assert.Empty(t, c.Indicators())
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, MsgClearSuccess, notes[0].Text)
}

func TestClearSession_FailureLeavesLog(t *testing.T) {
	backend := newFakeBackend()
	backend.clearErr = &api.ServerError{Endpoint: api.PathClear, HTTPStatus: 500}
	c := newController(t, backend)
	openSubjectChat(t, c, "mathematics")
	_, err := c.SendText(context.Background(), "hello")
	require.NoError(t, err)
	before := c.Messages()

	ok := c.ClearSession(context.Background())

	assert.False(t, ok)
	assert.Equal(t, before, c.Messages())
	assert.Len(t, c.History(), 1)
	assert.Empty(t, c.Indicators())
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, MsgClearFailure, notes[0].Text)
	assert.Equal(t, NoticeError, notes[0].Kind)
}

// =============================================================================
// END TO END AGAINST A FAKE SERVER
// =============================================================================

func TestController_WithHTTPBackend(t *testing.T) {
	var chatCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case api.PathStatus:
			w.Write([]byte(`{"status":"success","version":"3.1"}`))
		case api.PathLanguages:
			w.Write([]byte(`{"status":"success","languages":{"en":"English"}}`))
		case api.PathSubjects:
			w.Write([]byte(`{"status":"success","subjects":{"mathematics":{"name":"Mathematics"}}}`))
		case api.PathChatText:
			chatCalls.Add(1)
			w.Write([]byte(`{"status":"error"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(api.NewClient(server.URL), Options{}, nil)
	c.Bootstrap(context.Background())
	require.True(t, c.Connected())
	openSubjectChat(t, c, "mathematics")

	reply, err := c.SendText(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	assert.Equal(t, MsgTextServerFailure, reply.Content)
	assert.Equal(t, int32(1), chatCalls.Load())
	failures := 0
	for _, m := range c.Messages() {
		if strings.HasPrefix(m.Content, "Sorry") {
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Empty(t, c.Indicators())
}
