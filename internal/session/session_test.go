// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tatvax-tui/internal/i18n"
)

func TestNew_StartsOnLanding(t *testing.T) {
	s := New("xx")

	assert.Equal(t, ScreenLanding, s.Screen())
	assert.Equal(t, ModeUnset, s.Mode())
	assert.Equal(t, "en", s.Language())
	assert.NotEmpty(t, s.ID())
	assert.NoError(t, s.Validate())
}

func TestEnterMode(t *testing.T) {
	s := New("en")

	require.NoError(t, s.EnterMode(ModeSubjects))
	assert.Equal(t, ScreenSubjects, s.Screen())
	assert.Empty(t, s.Subject())
	assert.NoError(t, s.Validate())

	require.NoError(t, s.EnterMode(ModeInstitutional))
	assert.Equal(t, ScreenChat, s.Screen())
	assert.Equal(t, "institutional", s.Mode().String())
	assert.NoError(t, s.Validate())

	assert.ErrorIs(t, s.EnterMode(ModeUnset), ErrInvalidMode)
}

func TestSelectSubject(t *testing.T) {
	s := New("en")
	require.NoError(t, s.EnterMode(ModeSubjects))

	require.NoError(t, s.SelectSubject("mathematics", "Mathematics"))

	assert.Equal(t, ScreenChat, s.Screen())
	assert.Equal(t, "mathematics", s.Subject())
	assert.Equal(t, "Mathematics", s.SubjectName())
	assert.NoError(t, s.Validate())

	assert.ErrorIs(t, s.SelectSubject("  ", "x"), ErrEmptySubject)
}

func TestBack(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Session)
		want  Screen
		mode  Mode
	}{
		{"subject chat to list", func(s *Session) {
			_ = s.EnterMode(ModeSubjects)
			_ = s.SelectSubject("physics", "Physics")
		}, ScreenSubjects, ModeSubjects},
		{"institutional chat to landing", func(s *Session) {
			_ = s.EnterMode(ModeInstitutional)
		}, ScreenLanding, ModeUnset},
		{"subject list to landing", func(s *Session) {
			_ = s.EnterMode(ModeSubjects)
		}, ScreenLanding, ModeUnset},
		{"landing stays", func(s *Session) {}, ScreenLanding, ModeUnset},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New("en")
			tc.setup(s)

			got := s.Back()

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.mode, s.Mode())
			assert.Empty(t, s.Subject())
			assert.NoError(t, s.Validate())
		})
	}
}

func TestSetLanguage(t *testing.T) {
	s := New("en")

	require.NoError(t, s.SetLanguage("hi-IN"))
	assert.Equal(t, "hi", s.Language())

	err := s.SetLanguage("fr")
	assert.ErrorIs(t, err, i18n.ErrUnsupportedLanguage)
	assert.Equal(t, "hi", s.Language())
}

func TestTitleAndWelcome(t *testing.T) {
	s := New("hi")
	assert.Empty(t, s.Welcome())

	require.NoError(t, s.SelectSubject("chemistry", "Chemistry"))
	title, subtitle := s.Title()
	assert.Equal(t, "Chemistry", title)
	assert.Equal(t, "Subject Learning Mode", subtitle)
	assert.Contains(t, s.Welcome(), "Chemistry")
	assert.Contains(t, s.Welcome(), "नमस्ते")

	require.NoError(t, s.EnterMode(ModeInstitutional))
	require.NoError(t, s.SetLanguage("bn"))
	title, subtitle = s.Title()
	assert.Equal(t, "Institutional Assistant", title)
	assert.Equal(t, "FAQ & Information", subtitle)
	// bn has no welcome table and falls back to English.
	assert.Equal(t, i18n.InstitutionalWelcome("en"), s.Welcome())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Subjects")
	require.NoError(t, err)
	assert.Equal(t, ModeSubjects, m)

	m, err = ParseMode("institutional")
	require.NoError(t, err)
	assert.Equal(t, ModeInstitutional, m)

	_, err = ParseMode("sports")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "landing", ScreenLanding.String())
	assert.Equal(t, "subjects", ScreenSubjects.String())
	assert.Equal(t, "chat", ScreenChat.String())
}

func TestRecordActivity_ResetsIdleTime(t *testing.T) {
	s := New("en")
	s.lastActivity = time.Now().Add(-time.Hour)
	assert.GreaterOrEqual(t, s.IdleTime(), time.Hour)

	s.RecordActivity()

	assert.Less(t, s.IdleTime(), time.Minute)
	assert.Equal(t, s.lastActivity, s.LastActivity())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "2m", FormatDuration(2*time.Minute))
	assert.Equal(t, "3m 5s", FormatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "1h 30m", FormatDuration(90*time.Minute))
}
