package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "greek with accents", input: "Ανδρέας Μάθημα", want: "ανδρεας μαθημα"},
		{name: "driving lesson", input: "Μάθημα Οδήγησης", want: "μαθημα οδηγησης"},
		{name: "accented capitals", input: "ΆΈΉΊΌΎΏ", want: "αεηιουω"},
		{name: "diaeresis", input: "Ϊ ϊ ΐ Ϋ ϋ ΰ", want: "ι ι ι υ υ υ"},
		{name: "polytonic oxia", input: "άέή", want: "αεη"},
		{name: "ascii", input: "  Hello   WORLD  ", want: "hello world"},
		{name: "unicode whitespace", input: "a  b　c", want: "a b c"},
		{name: "tabs and newlines", input: "Μάθημα\t\n\r Οδήγησης", want: "μαθημα οδηγησης"},
		{name: "final sigma left as sigma", input: "ΣΑΣ", want: "σασ"},
		{name: "latin accents untouched", input: "Café", want: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.input))
		})
	}
}

func TestNormalizeTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Ανδρέας Μάθημα",
		"  ΜΆΘΗΜΑ   ΟΔΉΓΗΣΗΣ  ",
		"Ϊ ΐ ΰ Ϋ",
		"mixed Ελληνικά and English text",
		"ΣΑΣ σας",
		"İstanbul",
	}

	for _, in := range inputs {
		once := NormalizeTitle(in)
		assert.Equal(t, once, NormalizeTitle(once), "input %q", in)
	}
}
