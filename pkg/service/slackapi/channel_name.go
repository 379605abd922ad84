package slackapi

import (
	"strings"
	"unicode"
)

// NormalizeChannelName maps an arbitrary room name onto the character set
// Slack uses for its name_normalized field so local room names and source
// channel names can be compared directly.
// Slack allows: lowercase letters, numbers, hyphens, underscores, and
// non-ASCII characters. Uppercase is folded, spaces become hyphens and the
// remaining ASCII symbols are dropped.
func NormalizeChannelName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")

	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		} else if r >= 'A' && r <= 'Z' {
			result.WriteRune(unicode.ToLower(r))
		} else if r > 127 {
			if !isProhibitedSymbol(r) {
				result.WriteRune(r)
			}
		}
	}

	return result.String()
}

// isProhibitedSymbol checks if a Unicode character is prohibited in Slack channel names
func isProhibitedSymbol(r rune) bool {
	prohibitedRunes := []rune{
		'。', '、', '!', '?', '/', '\\', '.', ',', '!', '?',
		'@', '#', '$', '%', '^', '&', '*', '(', ')', '[', ']',
		'{', '}', '<', '>', '|', '~', '`', '\'', '"', ';', ':',
		'+', '=',
	}

	for _, prohibited := range prohibitedRunes {
		if r == prohibited {
			return true
		}
	}
	return false
}
