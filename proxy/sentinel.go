// Copyright (c) 2026, the ninegate contributors
//
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/ninegate/ninegate/model"
)

var geminiModelPattern = regexp.MustCompile(`^/v1(?:beta)?/models/([^/:]+):generateContent$`)

// Credential extracts the API credential for a vendor from a request, each
// hosted API carries it differently
func Credential(vendor string, req *http.Request) string {
	switch vendor {
	case model.AnthropicVendor:
		return req.Header.Get("x-api-key")

	case model.OpenAIVendor:
		auth := req.Header.Get("Authorization")
		if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
		return ""

	case model.GeminiVendor:
		if key := req.Header.Get("x-goog-api-key"); key != "" {
			return key
		}
		return req.URL.Query().Get("key")

	default:
		return ""
	}
}

// IsSentinel is true when the credential exists and consists only of the digit 9
func IsSentinel(credential string) bool {
	if credential == "" {
		return false
	}

	for _, c := range credential {
		if c != '9' {
			return false
		}
	}

	return true
}

// VendorForPath identifies which hosted API shape a request path belongs to
func VendorForPath(path string) (string, error) {
	switch {
	case path == "/v1/messages":
		return model.AnthropicVendor, nil
	case path == "/v1/chat/completions":
		return model.OpenAIVendor, nil
	case geminiModelPattern.MatchString(path):
		return model.GeminiVendor, nil
	default:
		return "", model.ErrVendorUnknown
	}
}

// ModelFromPath extracts the model name from a Gemini style path
func ModelFromPath(path string) string {
	m := geminiModelPattern.FindStringSubmatch(path)
	if m == nil {
		return ""
	}

	return m[1]
}
