package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsString reports whether list contains s.
func ContainsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// CleanToValidUTF8 strips invalid UTF-8 sequences and NUL bytes.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return strings.ReplaceAll(s, "\x00", "")
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}

// SafeText normalizes scraped text: valid UTF-8, collapsed whitespace.
func SafeText(s string) string {
	s = CleanToValidUTF8(s)
	return strings.Join(strings.Fields(s), " ")
}

// CapitalizeSentence upper-cases the first letter of a sentence.
func CapitalizeSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// TitleWords upper-cases the first letter of every word.
func TitleWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = CapitalizeSentence(word)
	}
	return strings.Join(words, " ")
}

// ToPointer returns a pointer to v.
func ToPointer[T any](v T) *T {
	return &v
}
