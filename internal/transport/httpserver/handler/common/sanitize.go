package common

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

const maxSanitizePasses = 4

// SanitizeText strips markup from user-supplied free text. The result is
// plain text, so entities are decoded and the policy runs again until the
// decoded text no longer changes. Input that keeps unfolding stays escaped.
func SanitizeText(input string) string {
	out := input
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	return strings.TrimSpace(textPolicy.Sanitize(out))
}

func SanitizeTextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	value := SanitizeText(*input)
	return &value
}
