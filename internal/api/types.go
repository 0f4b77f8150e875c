// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"strings"
)

// StatusSuccess is the only "status" value treated as success.
const StatusSuccess = "success"

// envelope holds the fields every JSON answer may carry.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (e envelope) failureMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// =============================================================================
// STATUS / CATALOGS
// =============================================================================

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status            string   `json:"status"`
	AudioPlaying      bool     `json:"audio_playing"`
	Version           string   `json:"version,omitempty"`
	ServerTime        string   `json:"server_time,omitempty"`
	ConversationCount int      `json:"conversation_count"`
	Languages         []string `json:"supported_languages,omitempty"`
}

// Subject is one entry of the subject catalog.
type Subject struct {
	Key         string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type subjectsResponse struct {
	envelope
	Subjects map[string]Subject `json:"subjects"`
}

type languagesResponse struct {
	envelope
	Languages map[string]json.RawMessage `json:"languages"`
}

// languageName accepts either a bare display name or an object with a
// "name" (or "native_name") field.
func languageName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return strings.TrimSpace(name)
	}
	var meta struct {
		Name       string `json:"name"`
		NativeName string `json:"native_name"`
	}
	if err := json.Unmarshal(raw, &meta); err == nil {
		if meta.Name != "" {
			return meta.Name
		}
		return meta.NativeName
	}
	return ""
}

// =============================================================================
// CHAT
// =============================================================================

// ChatTextRequest is the body of POST /api/chat/text.
type ChatTextRequest struct {
	Message  string `json:"message"`
	Mode     string `json:"mode"`
	Language string `json:"language"`
	Subject  string `json:"subject"`
}

// ChatVoiceRequest is the body of POST /api/chat/voice. The server records
// and recognises speech itself.
type ChatVoiceRequest struct {
	Mode     string `json:"mode"`
	Language string `json:"language"`
	Subject  string `json:"subject"`
}

// ChatResponse is the answer to both chat endpoints.
type ChatResponse struct {
	Status           string `json:"status"`
	Response         string `json:"response"`
	AudioFile        string `json:"audio_file,omitempty"`
	OriginalQuery    string `json:"original_query,omitempty"`
	ResponseLanguage string `json:"response_language,omitempty"`
	ChatMode         string `json:"chat_mode,omitempty"`
}

// =============================================================================
// TRANSLATION
// =============================================================================

// TranslateRequest is the body of POST /api/translate.
type TranslateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// TranslateResponse is the answer of POST /api/translate.
type TranslateResponse struct {
	Status         string `json:"status"`
	OriginalText   string `json:"original_text,omitempty"`
	TranslatedText string `json:"translated_text"`
	TargetLanguage string `json:"target_language"`
}

// =============================================================================
// FEEDBACK
// =============================================================================

// FeedbackRequest is the body of POST /api/feedback. Field names follow the
// backend's camelCase contract.
type FeedbackRequest struct {
	Rating           string `json:"rating"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
	UserAgent        string `json:"userAgent"`
	CurrentPage      string `json:"currentPage"`
	ChatMode         string `json:"chatMode"`
	SelectedLanguage string `json:"selectedLanguage"`
}

// FeedbackResponse is the answer of POST /api/feedback.
type FeedbackResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	FeedbackID string `json:"feedback_id,omitempty"`
}
