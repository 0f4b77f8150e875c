// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves one handler per path.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for prefix, h := range routes {
			if r.URL.Path == prefix || (strings.HasSuffix(prefix, "/") && strings.HasPrefix(r.URL.Path, prefix)) {
				h(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChatText_Success(t *testing.T) {
	var got ChatTextRequest
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathChatText: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(w, http.StatusOK, `{"status":"success","response":"A derivative is...","audio_file":"resp_1.mp3"}`)
		},
	})

	client := NewClient(server.URL)
	resp, err := client.ChatText(context.Background(), ChatTextRequest{
		Message: "What is a derivative?", Mode: "subjects", Language: "en", Subject: "mathematics",
	})

	require.NoError(t, err)
	assert.Equal(t, "A derivative is...", resp.Response)
	assert.Equal(t, "resp_1.mp3", resp.AudioFile)
	assert.Equal(t, ChatTextRequest{Message: "What is a derivative?", Mode: "subjects", Language: "en", Subject: "mathematics"}, got)
}

func TestChatText_ServerReportedFailure(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{"status error", http.StatusOK, `{"status":"error","error":"boom"}`},
		{"missing status", http.StatusOK, `{"response":"text"}`},
		{"missing response", http.StatusOK, `{"status":"success"}`},
		{"malformed body", http.StatusOK, `not json`},
		{"http 500", http.StatusInternalServerError, `{"error":"Services not initialized"}`},
		{"http 400", http.StatusBadRequest, `{"error":"Empty message"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, map[string]http.HandlerFunc{
				PathChatText: func(w http.ResponseWriter, r *http.Request) { writeJSON(w, tc.code, tc.body) },
			})

			_, err := NewClient(server.URL).ChatText(context.Background(), ChatTextRequest{Message: "hi"})

			require.Error(t, err)
			assert.True(t, IsServerFailure(err), "want server failure, got %v", err)
			assert.False(t, IsTransport(err))
		})
	}
}

func TestChatText_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).ChatText(context.Background(), ChatTextRequest{Message: "hi"})

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsServerFailure(err))
}

func TestChatText_ContextCancelIsTransport(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathChatText: func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).ChatText(ctx, ChatTextRequest{Message: "hi"})

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestChatVoice_CarriesOriginalQuery(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathChatVoice: func(w http.ResponseWriter, r *http.Request) {
			var req ChatVoiceRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "institutional", req.Mode)
			writeJSON(w, http.StatusOK, `{"status":"success","original_query":"fees?","response":"The fee is..."}`)
		},
	})

	resp, err := NewClient(server.URL).ChatVoice(context.Background(), ChatVoiceRequest{Mode: "institutional", Language: "en"})

	require.NoError(t, err)
	assert.Equal(t, "fees?", resp.OriginalQuery)
	assert.Equal(t, "The fee is...", resp.Response)
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestLanguages_AcceptsNamesAndObjects(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathLanguages: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"success","languages":{"en":"English","hi":{"name":"हिंदी (Hindi)"},"xx":{}}}`)
		},
	})

	langs, err := NewClient(server.URL).Languages(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "English", langs["en"])
	assert.Equal(t, "हिंदी (Hindi)", langs["hi"])
	assert.Equal(t, "xx", langs["xx"])
}

func TestSubjects_SortedWithKeys(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathSubjects: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"success","subjects":{
				"physics":{"name":"Physics","description":"Forces","color":"#f00","icon":"fas fa-atom"},
				"mathematics":{"name":"Mathematics","description":"Numbers","color":"#0f0","icon":"fas fa-square-root-alt"}}}`)
		},
	})

	subjects, err := NewClient(server.URL).Subjects(context.Background())

	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "mathematics", subjects[0].Key)
	assert.Equal(t, "Mathematics", subjects[0].Name)
	assert.Equal(t, "physics", subjects[1].Key)
}

func TestSubjects_MissingFieldIsFailure(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathSubjects: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"success"}`)
		},
	})

	_, err := NewClient(server.URL).Subjects(context.Background())
	assert.True(t, IsServerFailure(err))
}

func TestStatus_AudioPlaying(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathStatus: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"success","audio_playing":true,"version":"3.0.0"}`)
		},
	})

	status, err := NewClient(server.URL).Status(context.Background())

	require.NoError(t, err)
	assert.True(t, status.AudioPlaying)
	assert.Equal(t, "3.0.0", status.Version)
}

// =============================================================================
// AUDIO / TRANSLATE / FEEDBACK / CLEAR TESTS
// =============================================================================

func TestPlayAudio_EscapesReference(t *testing.T) {
	var path string
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathAudioPlay: func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.EscapedPath()
			writeJSON(w, http.StatusOK, `{"status":"success","message":"Audio playing"}`)
		},
	})

	err := NewClient(server.URL).PlayAudio(context.Background(), "resp 1.mp3")

	require.NoError(t, err)
	assert.Equal(t, "/api/audio/play/resp%201.mp3", path)
}

func TestPlayAudio_EmptyReference(t *testing.T) {
	err := NewClient("http://127.0.0.1:1").PlayAudio(context.Background(), " ")
	require.Error(t, err)
	assert.False(t, IsTransport(err))
}

func TestStopAudio_Failure(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathAudioStop: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"error":"Failed to stop audio"}`)
		},
	})

	err := NewClient(server.URL).StopAudio(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Failed to stop audio", ServerMessage(err))
}

func TestTranslate_Success(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathTranslate: func(w http.ResponseWriter, r *http.Request) {
			var req TranslateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, TranslateRequest{Text: "hello", SourceLanguage: "en", TargetLanguage: "hi"}, req)
			writeJSON(w, http.StatusOK, `{"status":"success","translated_text":"नमस्ते","target_language":"hi"}`)
		},
	})

	resp, err := NewClient(server.URL).Translate(context.Background(), TranslateRequest{Text: "hello", SourceLanguage: "en", TargetLanguage: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", resp.TranslatedText)
	assert.Equal(t, "hi", resp.TargetLanguage)
}

func TestSubmitFeedback_UsesCamelCaseFields(t *testing.T) {
	var raw map[string]any
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathFeedback: func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			writeJSON(w, http.StatusOK, `{"status":"success","message":"Feedback submitted successfully!"}`)
		},
	})

	resp, err := NewClient(server.URL).SubmitFeedback(context.Background(), FeedbackRequest{
		Message: "great", UserAgent: "tatvax/test", CurrentPage: "chat", ChatMode: "subjects", SelectedLanguage: "en",
	})

	require.NoError(t, err)
	assert.Equal(t, "Feedback submitted successfully!", resp.Message)
	for _, key := range []string{"rating", "name", "email", "message", "timestamp", "userAgent", "currentPage", "chatMode", "selectedLanguage"} {
		assert.Contains(t, raw, key)
	}
}

func TestClear_OnlyHTTPStatusMatters(t *testing.T) {
	var code atomic.Int32
	code.Store(http.StatusOK)
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathClear: func(w http.ResponseWriter, r *http.Request) {
			// A non-JSON body is fine as long as the status is 2xx.
			w.WriteHeader(int(code.Load()))
			w.Write([]byte("ok"))
		},
	})
	client := NewClient(server.URL)

	require.NoError(t, client.Clear(context.Background()))

	code.Store(http.StatusInternalServerError)
	assert.True(t, IsServerFailure(client.Clear(context.Background())))
}

// =============================================================================
// CLIENT OPTION TESTS
// =============================================================================

func TestClient_ResponseSizeLimit(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathStatus: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"success","version":"`+strings.Repeat("x", 512)+`"}`)
		},
	})

	_, err := NewClient(server.URL).WithMaxResponseSize(64).Status(context.Background())
	assert.True(t, IsTransport(err))
}

func TestClient_UserAgentAndBaseURL(t *testing.T) {
	var ua string
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathStatus: func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
			writeJSON(w, http.StatusOK, `{"status":"success"}`)
		},
	})

	client := NewClient(server.URL + "/").WithUserAgent("tatvax/1.0 (linux/amd64)")
	_, err := client.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tatvax/1.0 (linux/amd64)", ua)
	assert.Equal(t, server.URL, client.BaseURL())
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		PathStatus: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"success"}`)
		},
	})
	client := NewClient(server.URL).WithRateLimit(0.001, 1)

	_, err := client.Status(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Status(ctx)
	assert.True(t, IsTransport(err))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("  ").BaseURL())
}
