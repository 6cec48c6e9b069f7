package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases text",
			input: "Hello World",
			want:  "hello world",
		},
		{
			name:  "removes URLs",
			input: "read https://example.com/page?q=1 now",
			want:  "read   now",
		},
		{
			name:  "removes long URLs",
			input: "see https://example.com/" + strings.Repeat("a/", 400) + " here",
			want:  "see   here",
		},
		{
			name:  "removes mail addresses",
			input: "contact someone@example.com please",
			want:  "contact   please",
		},
		{
			name:  "applies NFKC to fullwidth forms",
			input: "ＡＢＣ",
			want:  "abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{
			name:  "collapses punctuation and digits into one boundary",
			input: "abc, 123 def!",
			max:   100,
			want:  "abc def ",
		},
		{
			name:  "caps repeated runes",
			input: "aaaaaaaa",
			max:   100,
			want:  "aaa",
		},
		{
			name:  "keeps repeats below the cap",
			input: "aa bb",
			max:   100,
			want:  "aa bb",
		},
		{
			name:  "drops leading spaces",
			input: "   abc",
			max:   100,
			want:  "abc",
		},
		{
			name:  "truncates silently at the bound",
			input: "abcdefgh",
			max:   4,
			want:  "abcd",
		},
		{
			name:  "keeps multi-script text intact",
			input: "abcабв",
			max:   100,
			want:  "abcабв",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Append(nil, tt.input, tt.max)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAppendAccumulates(t *testing.T) {
	buf := Append(nil, "hello", 100)
	buf = Append(buf, " world", 100)
	assert.Equal(t, "hello world", string(buf))

	// Appending beyond the bound keeps the buffer intact.
	buf = Append(buf, " and more", 11)
	assert.Equal(t, "hello world", string(buf))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want ScriptClass
	}{
		{'a', ClassLatin},
		{'é', ClassLatin},
		{'ж', ClassCyrillic},
		{'α', ClassGreek},
		{'م', ClassArabic},
		{'あ', ClassHiragana},
		{'ア', ClassKatakana},
		{'漢', ClassHan},
		{'한', ClassHangul},
		{'ไ', ClassThai},
		{'1', ClassOther},
		{'!', ClassOther},
		{' ', ClassOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.r), "rune %q", tt.r)
	}
}
