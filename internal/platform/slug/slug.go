package slug

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLen bounds generated file names.
const MaxLen = 64

var nonAlphaNum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Make lowercases input and joins its letter and digit runs with dashes.
// Non-ASCII letters are kept. Empty results become "untitled".
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if utf8.RuneCountInString(s) > MaxLen {
		s = strings.TrimRight(string([]rune(s)[:MaxLen]), "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}

// File returns the slug of title with ext appended.
func File(title, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return Make(title)
	}
	return Make(title) + "." + ext
}
