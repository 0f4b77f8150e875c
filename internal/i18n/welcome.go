// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import "strings"

// subjectPlaceholder is replaced by the subject display name.
const subjectPlaceholder = "{subject}"

var subjectWelcome = map[string]string{
	"en": "Hello! 👋\n\nI'm your {subject} learning assistant. I can help you understand concepts, solve problems, and answer questions about {subject}.\n\nWhat would you like to learn today?",
	"hi": "नमस्ते! 👋\n\nमैं आपका {subject} शिक्षण सहायक हूं। मैं आपको अवधारणाओं को समझने, समस्याओं को हल करने और {subject} के बारे में प्रश्नों के उत्तर देने में मदद कर सकता हूं।\n\nआज आप क्या सीखना चाहते हैं?",
}

var institutionalWelcome = map[string]string{
	"en": "Welcome to Institutional Support! 🏫\n\nI can help you with:\n• Admission procedures\n• Fee information\n• Exam schedules\n• Academic calendar\n• School policies\n• And much more!\n\nWhat would you like to know?",
	"hi": "संस्थागत सहायता में आपका स्वागत है! 🏫\n\nमैं आपकी इनमें मदद कर सकता हूं:\n• प्रवेश प्रक्रिया\n• शुल्क जानकारी\n• परीक्षा कार्यक्रम\n• शैक्षणिक कैलेंडर\n• स्कूल नीतियां\n• और भी बहुत कुछ!\n\nआप क्या जानना चाहते हैं?",
}

// SubjectWelcome returns the greeting for a subject chat.
func SubjectWelcome(subjectName, code string) string {
	text, ok := subjectWelcome[code]
	if !ok {
		text = subjectWelcome[DefaultLanguage]
	}
	return strings.ReplaceAll(text, subjectPlaceholder, subjectName)
}

// InstitutionalWelcome returns the greeting for the institutional FAQ chat.
func InstitutionalWelcome(code string) string {
	if text, ok := institutionalWelcome[code]; ok {
		return text
	}
	return institutionalWelcome[DefaultLanguage]
}
