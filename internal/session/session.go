// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/tatvax-tui/internal/i18n"
)

// =============================================================================
// MODE AND SCREEN
// =============================================================================

// Mode is the conversation flavor.
type Mode int

const (
	ModeUnset Mode = iota
	ModeSubjects
	ModeInstitutional
)

// String returns the wire name sent to the backend.
func (m Mode) String() string {
	switch m {
	case ModeSubjects:
		return "subjects"
	case ModeInstitutional:
		return "institutional"
	default:
		return ""
	}
}

// ParseMode parses a wire name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subjects", "subject":
		return ModeSubjects, nil
	case "institutional", "institution":
		return ModeInstitutional, nil
	default:
		return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Screen is the navigation position.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenSubjects
	ScreenChat
)

// String returns the page name reported with feedback.
func (s Screen) String() string {
	switch s {
	case ScreenSubjects:
		return "subjects"
	case ScreenChat:
		return "chat"
	default:
		return "landing"
	}
}

// Errors returned by transitions.
var (
	ErrInvalidMode  = errors.New("invalid mode")
	ErrEmptySubject = errors.New("empty subject")
	ErrInvalidState = errors.New("invalid session state")
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the navigation state of one user session. It is owned by a
// single event loop and is not safe for concurrent use.
type Session struct {
	id           string
	startTime    time.Time
	lastActivity time.Time

	mode        Mode
	language    string
	subject     string
	subjectName string
	screen      Screen
}

// New creates a session on the landing screen with no mode. An unsupported
// language falls back to the default.
func New(language string) *Session {
	if !i18n.IsSupported(language) {
		language = i18n.DefaultLanguage
	}
	now := time.Now()
	return &Session{
		id:           uuid.NewString(),
		startTime:    now,
		lastActivity: now,
		language:     language,
		screen:       ScreenLanding,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Language returns the current language code.
func (s *Session) Language() string { return s.language }

// Subject returns the chosen subject key, or "".
func (s *Session) Subject() string { return s.subject }

// SubjectName returns the display name of the chosen subject, or "".
func (s *Session) SubjectName() string { return s.subjectName }

// Screen returns the current screen.
func (s *Session) Screen() Screen { return s.screen }

// InChat reports whether the chat screen is active.
func (s *Session) InChat() bool { return s.screen == ScreenChat }

// =============================================================================
// TRANSITIONS
// =============================================================================

// EnterMode picks a mode from the landing screen. Subjects mode goes to the
// subject list; institutional mode goes straight to chat.
func (s *Session) EnterMode(mode Mode) error {
	switch mode {
	case ModeSubjects:
		s.screen = ScreenSubjects
	case ModeInstitutional:
		s.screen = ScreenChat
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	s.mode = mode
	s.subject = ""
	s.subjectName = ""
	s.touch()
	return nil
}

// SelectSubject opens the chat for a subject. The caller is responsible for
// checking key against the subject catalog.
func (s *Session) SelectSubject(key, name string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptySubject
	}
	if name == "" {
		name = key
	}
	s.mode = ModeSubjects
	s.subject = key
	s.subjectName = name
	s.screen = ScreenChat
	s.touch()
	return nil
}

// Back moves one screen towards landing and returns the new screen. From a
// subject chat it returns to the subject list; otherwise to landing. Landing
// clears the mode.
func (s *Session) Back() Screen {
	if s.screen == ScreenChat && s.mode == ModeSubjects {
		s.screen = ScreenSubjects
		s.subject = ""
		s.subjectName = ""
	} else {
		s.Home()
	}
	s.touch()
	return s.screen
}

// Home returns to landing and clears mode and subject.
func (s *Session) Home() {
	s.screen = ScreenLanding
	s.mode = ModeUnset
	s.subject = ""
	s.subjectName = ""
	s.touch()
}

// SetLanguage changes the session language. The code is normalised first
// ("hi-IN" becomes "hi").
func (s *Session) SetLanguage(code string) error {
	normalized, err := i18n.Normalize(code)
	if err != nil {
		return err
	}
	s.language = normalized
	s.touch()
	return nil
}

// Validate checks the session invariants.
func (s *Session) Validate() error {
	if s.subject != "" && s.mode != ModeSubjects {
		return fmt.Errorf("%w: subject %q outside subjects mode", ErrInvalidState, s.subject)
	}
	if s.screen == ScreenChat {
		if s.mode == ModeUnset {
			return fmt.Errorf("%w: chat without mode", ErrInvalidState)
		}
		if s.mode == ModeSubjects && s.subject == "" {
			return fmt.Errorf("%w: subject chat without subject", ErrInvalidState)
		}
	}
	if s.screen == ScreenSubjects && s.mode != ModeSubjects {
		return fmt.Errorf("%w: subject list outside subjects mode", ErrInvalidState)
	}
	if !i18n.IsSupported(s.language) {
		return fmt.Errorf("%w: language %q", ErrInvalidState, s.language)
	}
	return nil
}

// =============================================================================
// PRESENTATION HELPERS
// =============================================================================

// Title returns the chat header title and subtitle for the current mode.
func (s *Session) Title() (title, subtitle string) {
	switch s.mode {
	case ModeSubjects:
		return s.subjectName, "Subject Learning Mode"
	case ModeInstitutional:
		return "Institutional Assistant", "FAQ & Information"
	default:
		return "TatvaX", "Multilingual Learning Assistant"
	}
}

// Welcome returns the welcome message for the current mode and language, or
// "" when there is no chat.
func (s *Session) Welcome() string {
	if s.screen != ScreenChat {
		return ""
	}
	switch s.mode {
	case ModeSubjects:
		return i18n.SubjectWelcome(s.subjectName, s.language)
	case ModeInstitutional:
		return i18n.InstitutionalWelcome(s.language)
	default:
		return ""
	}
}

// =============================================================================
// ACTIVITY
// =============================================================================

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

// RecordActivity marks user activity that did not change navigation.
func (s *Session) RecordActivity() { s.touch() }

// StartTime returns when the session started.
func (s *Session) StartTime() time.Time { return s.startTime }

// Duration returns how long the session has been active.
func (s *Session) Duration() time.Duration { return time.Since(s.startTime) }

// LastActivity returns when the session last saw navigation or a request.
func (s *Session) LastActivity() time.Time { return s.lastActivity }

// IdleTime returns how long since last activity.
func (s *Session) IdleTime() time.Duration { return time.Since(s.lastActivity) }

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	if d >= time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
