package util

import (
	"fmt"
	"unicode/utf8"
)

// DefaultLogMaxLen is the default byte budget for text echoed into logs (1KB).
const DefaultLogMaxLen = 1024

// TruncateLog shortens s to at most maxLen bytes for logging. The cut is moved
// back to a rune boundary so CJK text is never split mid-character.
func TruncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

// TruncateBytes truncates a response body to DefaultLogMaxLen.
func TruncateBytes(b []byte) string {
	return TruncateLog(string(b), DefaultLogMaxLen)
}
