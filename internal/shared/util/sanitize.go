package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// MaxFileNameLen caps the stored length of an upload name.
const MaxFileNameLen = 128

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName turns a client-supplied upload name into a single safe path segment.
// Separators become underscores, control characters are dropped and overlong names are
// shortened with their extension kept. Traversal patterns are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errInvalidFileName
	}
	if runes := []rune(s); len(runes) > MaxFileNameLen {
		ext := []rune(path.Ext(s))
		if len(ext) >= MaxFileNameLen {
			ext = nil
		}
		s = string(runes[:MaxFileNameLen-len(ext)]) + string(ext)
	}
	return s, nil
}
