// Package slug derives URL-safe creator slugs from display names.
package slug

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SuffixLen is the length of the random disambiguation suffix.
const SuffixLen = 6

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
	validRe    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Make lowercases name, folds accents, drops apostrophes, collapses every run of
// characters outside [a-z0-9] into a single hyphen and trims hyphens at both ends.
// It returns "" when nothing usable remains.
func Make(name string) string {
	s := strings.ToLower(fold(name))
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix appends "-" and suffix to base.
func WithSuffix(base, suffix string) string {
	return base + "-" + suffix
}

// RandomSuffix returns SuffixLen random characters drawn from [a-z0-9].
func RandomSuffix() string {
	b := make([]byte, SuffixLen)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}

// Valid reports whether s is a non-empty slug of [a-z0-9-].
func Valid(s string) bool {
	return validRe.MatchString(s)
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
