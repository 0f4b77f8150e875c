// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/api"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

// Backend is the subset of the API client the controller needs.
type Backend interface {
	Status(ctx context.Context) (*api.StatusResponse, error)
	Languages(ctx context.Context) (map[string]string, error)
	Subjects(ctx context.Context) ([]api.Subject, error)
	ChatText(ctx context.Context, req api.ChatTextRequest) (*api.ChatResponse, error)
	ChatVoice(ctx context.Context, req api.ChatVoiceRequest) (*api.ChatResponse, error)
	Translate(ctx context.Context, req api.TranslateRequest) (*api.TranslateResponse, error)
	SubmitFeedback(ctx context.Context, req api.FeedbackRequest) (*api.FeedbackResponse, error)
	Clear(ctx context.Context) error
}

// Options configures a Controller.
type Options struct {
	// Language is the initial session language.
	Language string
	// FeedbackCloseDelay is how long the feedback confirmation stays open.
	FeedbackCloseDelay time.Duration
	// UserAgent is reported with feedback.
	UserAgent string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// DefaultUserAgent returns "tatvax/<version> (<os>/<arch>)".
func DefaultUserAgent(version string) string {
	return fmt.Sprintf("tatvax/%s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

// Controller is the session controller. Not safe for concurrent use except
// for the Do* methods, which only touch the backend.
type Controller struct {
	backend Backend
	logger  *zap.Logger
	opts    Options

	session *session.Session
	conv    *model.Conversation

	subjects      []api.Subject
	languages     map[string]string
	connected     bool
	serverVersion string

	// epoch increments on every conversation reset; replies started in an
	// earlier epoch are dropped.
	epoch     uint64
	listening bool
	inflight  map[string]Indicator
	notices   []Notification
}

// New creates a controller on the landing screen.
func New(backend Backend, opts Options, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FeedbackCloseDelay <= 0 {
		opts.FeedbackCloseDelay = 2 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent("dev")
	}
	return &Controller{
		backend:   backend,
		logger:    logger.Named("controller"),
		opts:      opts,
		session:   session.New(opts.Language),
		conv:      model.NewConversation(),
		languages: make(map[string]string),
		inflight:  make(map[string]Indicator),
	}
}

func (c *Controller) now() time.Time {
	return c.opts.Now()
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Session returns a copy of the navigation state.
func (c *Controller) Session() session.Session {
	return *c.session
}

// Language returns the session language.
func (c *Controller) Language() string {
	return c.session.Language()
}

// Screen returns the current screen.
func (c *Controller) Screen() session.Screen {
	return c.session.Screen()
}

// Messages returns the conversation log in order.
func (c *Controller) Messages() []*model.Message {
	return c.conv.Messages()
}

// LastAudio returns the newest message that carries audio, or nil.
func (c *Controller) LastAudio() *model.Message {
	return c.conv.LastAudio()
}

// LastAnswer returns the newest assistant message, or nil.
func (c *Controller) LastAnswer() *model.Message {
	return c.conv.LastAssistant()
}

// History returns the recorded exchanges of this chat.
func (c *Controller) History() []model.Exchange {
	return c.conv.History()
}

// Subjects returns the cached subject catalog.
func (c *Controller) Subjects() []api.Subject {
	out := make([]api.Subject, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// Subject looks up a subject by key in the cached catalog.
func (c *Controller) Subject(key string) (api.Subject, bool) {
	for _, s := range c.subjects {
		if s.Key == key {
			return s, true
		}
	}
	return api.Subject{}, false
}

// Languages returns the languages offered to the user.
func (c *Controller) Languages() []i18n.Language {
	return i18n.Supported()
}

// LanguageName returns the display name for code, preferring the client
// table and falling back to the server's catalog, then the code itself.
func (c *Controller) LanguageName(code string) string {
	if i18n.IsSupported(code) {
		return i18n.DisplayName(code)
	}
	if name, ok := c.languages[code]; ok {
		return name
	}
	return code
}

// Connected reports whether the last bootstrap reached the backend.
func (c *Controller) Connected() bool {
	return c.connected
}

// ServerVersion returns the version reported by the backend, if any.
func (c *Controller) ServerVersion() string {
	return c.serverVersion
}

// Listening reports whether voice input is active.
func (c *Controller) Listening() bool {
	return c.listening
}

// Placeholder returns the chat input placeholder for the session language.
func (c *Controller) Placeholder() string {
	return i18n.Placeholder(c.session.Language())
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// BootstrapCall is a started bootstrap.
type BootstrapCall struct {
	ID string
}

// BootstrapResult carries the startup fetches.
type BootstrapResult struct {
	Status    *api.StatusResponse
	Languages map[string]string
	Subjects  []api.Subject

	StatusErr    error
	LanguagesErr error
	SubjectsErr  error
}

// StartBootstrap registers the connecting indicator.
func (c *Controller) StartBootstrap() BootstrapCall {
	return BootstrapCall{ID: c.begin(OpBootstrap).ID}
}

// DoBootstrap checks connectivity and fetches the catalogs. When the status
// check fails the catalogs are not fetched.
func (c *Controller) DoBootstrap(ctx context.Context, call BootstrapCall) BootstrapResult {
	var res BootstrapResult
	res.Status, res.StatusErr = c.backend.Status(ctx)
	if res.StatusErr != nil {
		return res
	}
	res.Languages, res.LanguagesErr = c.backend.Languages(ctx)
	res.Subjects, res.SubjectsErr = c.backend.Subjects(ctx)
	return res
}

// FinishBootstrap caches the catalogs. Failures are logged; a failed
// connectivity check raises a notification. Nothing here is fatal.
func (c *Controller) FinishBootstrap(call BootstrapCall, res BootstrapResult) {
	defer c.end(call.ID)

	if res.StatusErr != nil {
		c.connected = false
		logFailure(c.logger, OpBootstrap, res.StatusErr)
		c.notify(NoticeError, MsgConnectFailure)
		return
	}
	c.connected = true
	c.serverVersion = render.EscapeTerminal(res.Status.Version)

	if res.LanguagesErr != nil {
		logFailure(c.logger, OpBootstrap, res.LanguagesErr)
	} else {
		c.languages = make(map[string]string, len(res.Languages))
		for code, name := range res.Languages {
			c.languages[code] = render.EscapeTerminal(name)
		}
	}
	if res.SubjectsErr != nil {
		logFailure(c.logger, OpBootstrap, res.SubjectsErr)
	} else {
		c.subjects = make([]api.Subject, len(res.Subjects))
		for i, s := range res.Subjects {
			s.Name = render.EscapeTerminal(s.Name)
			s.Description = render.EscapeTerminal(s.Description)
			s.Icon = render.EscapeTerminal(s.Icon)
			c.subjects[i] = s
		}
	}

	c.logger.Info("connected",
		zap.String("server_version", c.serverVersion),
		zap.Int("languages", len(c.languages)),
		zap.Int("subjects", len(c.subjects)))
}

// Bootstrap runs StartBootstrap, DoBootstrap and FinishBootstrap in place.
func (c *Controller) Bootstrap(ctx context.Context) {
	call := c.StartBootstrap()
	c.FinishBootstrap(call, c.DoBootstrap(ctx, call))
}
