// Package slug builds URL-safe identifiers from human titles.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	separators = regexp.MustCompile(`[-\s]+`)
)

// Make strips diacritics, lowercases and collapses every run of spaces or
// hyphens into a single hyphen. "Ciência & Tecnologia" becomes "ciencia-tecnologia".
func Make(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, text)
	if err != nil {
		ascii = text
	}
	ascii = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, ascii)

	ascii = strings.ToLower(nonWord.ReplaceAllString(ascii, ""))
	ascii = separators.ReplaceAllString(ascii, "-")
	return strings.Trim(ascii, "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns base if free, otherwise the first free "base-N" for N = 1, 2, ...
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
