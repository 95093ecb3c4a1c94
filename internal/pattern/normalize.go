package pattern

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// accentFold folds accented Greek letters to their unaccented base. Upper-case
// forms are listed as well so the table holds whether it runs before or after
// case mapping.
var accentFold = map[rune]rune{
	'ά': 'α', 'έ': 'ε', 'ή': 'η', 'ί': 'ι', 'ό': 'ο', 'ύ': 'υ', 'ώ': 'ω',
	'ϊ': 'ι', 'ΐ': 'ι', 'ϋ': 'υ', 'ΰ': 'υ',
	'Ά': 'α', 'Έ': 'ε', 'Ή': 'η', 'Ί': 'ι', 'Ό': 'ο', 'Ύ': 'υ', 'Ώ': 'ω',
	'Ϊ': 'ι', 'Ϋ': 'υ',
	// Polytonic oxia code points, canonically equivalent to the tonos forms above.
	'\u1f71': 'α', '\u1f73': 'ε', '\u1f75': 'η', '\u1f77': 'ι', '\u1f79': 'ο', '\u1f7b': 'υ', '\u1f7d': 'ω',
	'\u1fd3': 'ι', '\u1fe3': 'υ',
}

var foldAccents = runes.Map(func(r rune) rune {
	if base, ok := accentFold[r]; ok {
		return base
	}
	return r
})

// NormalizeTitle lowercases text with Unicode case mapping, folds accented Greek
// letters, collapses whitespace runs to a single space and trims the result.
// It is pure and idempotent.
func NormalizeTitle(text string) string {
	if text == "" {
		return ""
	}

	// Casers keep state between calls, so build one per invocation.
	lower := cases.Lower(language.Und, cases.HandleFinalSigma(false))
	out, _, err := transform.String(transform.Chain(lower, foldAccents), text)
	if err != nil {
		out = strings.Map(func(r rune) rune {
			if base, ok := accentFold[r]; ok {
				return base
			}
			return r
		}, strings.ToLower(text))
	}

	return strings.Join(strings.Fields(out), " ")
}
