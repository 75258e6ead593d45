package entities

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnsupportedLanguage is returned when no profile exists for the
// requested language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// LanguageProfile describes how text in one language is prepared for
// speech synthesis: which scripts and punctuation the synthesizer has
// been validated against, and which characters must be removed because
// they are known to mispronounce. Profiles are fixed constants.
type LanguageProfile struct {
	// Name is the canonical profile name, e.g. "japanese".
	Name string
	// Code is the language code passed to the synthesizer, e.g. "ja".
	Code string
	// Scripts holds the Unicode ranges of letters allowed through.
	Scripts *unicode.RangeTable
	// Punctuation is the set of punctuation runes allowed through.
	Punctuation string
	// Hazardous lists runes that are valid in the script but removed
	// anyway because the target synthesizer mispronounces them.
	Hazardous string
}

// Allows reports whether a rune survives the profile's allow-list.
// Whitespace always passes; it is collapsed in a later pipeline step.
func (p LanguageProfile) Allows(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if unicode.Is(p.Scripts, r) {
		return true
	}
	return strings.ContainsRune(p.Punctuation, r)
}

// Japanese covers hiragana, katakana and the common kanji block, plus
// basic Japanese punctuation. ASCII "!" and "?" are allowed because NFKC
// folds the full-width forms into them before filtering. The long vowel
// mark is stripped: some synthesizers render it as an unnatural pause.
var Japanese = LanguageProfile{
	Name: "japanese",
	Code: "ja",
	Scripts: &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // hiragana
			{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // katakana
			{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // CJK unified ideographs
		},
	},
	Punctuation: "。、・!?",
	Hazardous:   "ー",
}

// Spanish covers the basic Latin alphabet with the accented vowels,
// n-tilde and u-diaeresis, plus Spanish punctuation including the
// inverted marks.
var Spanish = LanguageProfile{
	Name: "spanish",
	Code: "es",
	Scripts: &unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 'A', Hi: 'Z', Stride: 1},
			{Lo: 'a', Hi: 'z', Stride: 1},
			{Lo: 0x00c1, Hi: 0x00c1, Stride: 1}, // Á
			{Lo: 0x00c9, Hi: 0x00c9, Stride: 1}, // É
			{Lo: 0x00cd, Hi: 0x00cd, Stride: 1}, // Í
			{Lo: 0x00d1, Hi: 0x00d1, Stride: 1}, // Ñ
			{Lo: 0x00d3, Hi: 0x00d3, Stride: 1}, // Ó
			{Lo: 0x00da, Hi: 0x00da, Stride: 1}, // Ú
			{Lo: 0x00dc, Hi: 0x00dc, Stride: 1}, // Ü
			{Lo: 0x00e1, Hi: 0x00e1, Stride: 1}, // á
			{Lo: 0x00e9, Hi: 0x00e9, Stride: 1}, // é
			{Lo: 0x00ed, Hi: 0x00ed, Stride: 1}, // í
			{Lo: 0x00f1, Hi: 0x00f1, Stride: 1}, // ñ
			{Lo: 0x00f3, Hi: 0x00f3, Stride: 1}, // ó
			{Lo: 0x00fa, Hi: 0x00fa, Stride: 1}, // ú
			{Lo: 0x00fc, Hi: 0x00fc, Stride: 1}, // ü
		},
		LatinOffset: 16,
	},
	Punctuation: "¿¡.,;:!?-'",
}

var profilesByName = map[string]LanguageProfile{
	"japanese": Japanese,
	"ja":       Japanese,
	"spanish":  Spanish,
	"es":       Spanish,
}

// ProfileFor resolves a language selector to its profile. Lookup is
// case-insensitive and accepts both the canonical name and the language
// code ("japanese"/"ja", "spanish"/"es").
func ProfileFor(language string) (LanguageProfile, error) {
	profile, ok := profilesByName[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return LanguageProfile{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return profile, nil
}

// Profiles returns all supported profiles, one entry per language.
func Profiles() []LanguageProfile {
	return []LanguageProfile{Japanese, Spanish}
}
