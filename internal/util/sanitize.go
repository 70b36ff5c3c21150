package util

import (
	"regexp"
	"strings"
)

var (
	controlChars   = regexp.MustCompile(`[\x00-\x1F\x7F]+`)
	filenameUnsafe = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1F\x7F]+`)
)

// SanitizeForLog removes control characters and newlines from user content before logging.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlChars.ReplaceAllString(s, " ")
}

// SanitizeFilenamePart makes a free-form label (a comarca name, for instance)
// safe to embed in a download filename. Letters outside ASCII are kept.
func SanitizeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	s = filenameUnsafe.ReplaceAllString(s, "-")
	s = strings.Join(strings.Fields(s), "_")
	return strings.Trim(s, ".-_")
}
