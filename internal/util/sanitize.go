package util

import (
	"regexp"
	"strings"
	"unicode"

	"secure-file-share/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename normalizes a client-supplied filename before it is
// stored as file metadata. The name is display metadata only (blobs
// are stored by id), but it still must not carry control characters,
// separators, or traversal sequences into listings and
// Content-Disposition headers.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.BadRequest("filename cannot be empty", "")
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.BadRequest("filename contains null bytes", trimmed)
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", apierror.BadRequest("filename is invalid after sanitization", trimmed)
	}

	// Truncate by runes to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > 255 {
		runes = runes[:255]
	}

	return string(runes), nil
}
