package common

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase capitalizes each word of s ("mostly cloudy" -> "Mostly Cloudy").
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// Underline returns a rule of '-' as wide as header.
func Underline(header string) string {
	return strings.Repeat("-", len([]rune(header)))
}
