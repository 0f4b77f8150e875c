// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = "en"

// ErrUnsupportedLanguage is returned for codes outside the supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language is one entry of the supported set.
type Language struct {
	Code string
	Name string
}

// supported is ordered the way the language picker lists it.
var supported = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "हिंदी (Hindi)"},
	{Code: "bn", Name: "বাংলা (Bengali)"},
	{Code: "mr", Name: "मराठी (Marathi)"},
	{Code: "te", Name: "తెలుగు (Telugu)"},
	{Code: "ta", Name: "தமிழ் (Tamil)"},
	{Code: "gu", Name: "ગુજરાતી (Gujarati)"},
	{Code: "kn", Name: "ಕನ್ನಡ (Kannada)"},
}

var placeholders = map[string]string{
	"en": "Ask me anything...",
	"hi": "मुझसे कुछ भी पूछें...",
	"bn": "আমাকে কিছু জিজ্ঞাসা করুন...",
	"mr": "मला काही विचारा...",
	"te": "నన్ను ఏదైనా అడగండి...",
	"ta": "என்னிடம் எதையும் கேளுங்கள்...",
	"gu": "મને કંઈપણ પૂછો...",
	"kn": "ನನ್ನನ್ನು ಏನಾದರೂ ಕೇಳಿ...",
}

// Supported returns the supported languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Normalize maps a BCP 47 tag such as "hi-IN" or "EN" onto a supported
// two-letter code.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	base, _ := tag.Base()
	normalized := base.String()
	if !IsSupported(normalized) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return normalized, nil
}

// IsSupported reports whether code is exactly one of the supported codes.
func IsSupported(code string) bool {
	for _, l := range supported {
		if l.Code == code {
			return true
		}
	}
	return false
}

// DisplayName returns the native display name for code, or the code itself
// when it is unknown.
func DisplayName(code string) string {
	for _, l := range supported {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// Placeholder returns the chat input placeholder for code.
func Placeholder(code string) string {
	if p, ok := placeholders[code]; ok {
		return p
	}
	return placeholders[DefaultLanguage]
}
