package normalizer

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/speechprep/speechprep/domain/entities"
)

// ErrEmptyResult is returned when every character of the input was
// filtered out. Callers must not forward empty text to a synthesizer:
// depending on the engine that produces either an error or a silent file.
var ErrEmptyResult = errors.New("no text remaining after normalization")

// Bracketed content is editorial annotation ("[inaudible]", "（注）") and
// must never be spoken. NFKC runs first, so the full-width round, square
// and curly brackets have already been folded into their ASCII forms;
// the lenticular brackets 【】 survive NFKC and are matched explicitly.
var (
	bracketPairs = []*regexp.Regexp{
		regexp.MustCompile(`\[[^\[\]]*\]`),
		regexp.MustCompile(`\([^()]*\)`),
		regexp.MustCompile(`\{[^{}]*\}`),
		regexp.MustCompile(`【[^【】]*】`),
	}
	bareBrackets = regexp.MustCompile(`[\[\](){}【】]`)
)

// Normalize cleans raw text for speech synthesis according to profile.
// The pipeline order is fixed: NFKC normalization, bracket-content
// removal, hazardous-mark removal, allow-list filtering, whitespace
// collapse. The result contains only runes the profile allows, with
// single spaces as the only whitespace, and the whole transformation is
// idempotent. Ill-formed UTF-8 is handled by NFKC's own lenient rules
// and then dropped by the allow-list.
func Normalize(raw string, profile entities.LanguageProfile) (string, error) {
	text := norm.NFKC.String(raw)

	for _, pair := range bracketPairs {
		text = pair.ReplaceAllString(text, "")
	}
	text = bareBrackets.ReplaceAllString(text, "")

	if profile.Hazardous != "" {
		text = strings.Map(func(r rune) rune {
			if strings.ContainsRune(profile.Hazardous, r) {
				return -1
			}
			return r
		}, text)
	}

	text = strings.Map(func(r rune) rune {
		if profile.Allows(r) {
			return r
		}
		return -1
	}, text)

	text = collapseWhitespace(text)
	if text == "" {
		return "", ErrEmptyResult
	}
	return text, nil
}

// collapseWhitespace reduces every whitespace run to a single space and
// trims the ends.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
