// Package profile defines the on-disk language profile record consumed
// by the detector registry. A profile is a precomputed per-language
// n-gram frequency table; this package only decodes and validates it,
// it never builds or updates one.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrFormat reports a malformed profile record.
var ErrFormat = errors.New("profile format error")

// Profile is an immutable per-language n-gram frequency record.
// Freq maps a gram (1 to 3 runes) to its occurrence count in the
// training corpus; NWords holds the corpus-wide gram counts per gram
// length (index 0 = unigrams, 1 = bigrams, 2 = trigrams) and is the
// normalization denominator for grams of that length.
type Profile struct {
	Name   string           `json:"name"`
	Freq   map[string]int64 `json:"freq"`
	NWords [3]int64         `json:"n_words"`
}

// rawProfile accepts n_words as a variable-length array so a wrong
// length can be reported as a format error instead of a JSON error.
type rawProfile struct {
	Name   string           `json:"name"`
	Freq   map[string]int64 `json:"freq"`
	NWords []int64          `json:"n_words"`
}

// Decode reads one JSON profile record and validates it.
func Decode(r io.Reader) (*Profile, error) {
	var raw rawProfile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return fromRaw(raw)
}

// DecodeBytes decodes one JSON profile record from a byte slice.
func DecodeBytes(data []byte) (*Profile, error) {
	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawProfile) (*Profile, error) {
	p := &Profile{Name: raw.Name, Freq: raw.Freq}
	if len(raw.NWords) != len(p.NWords) {
		return nil, fmt.Errorf("%w: n_words must have %d entries, got %d", ErrFormat, len(p.NWords), len(raw.NWords))
	}
	copy(p.NWords[:], raw.NWords)
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing language name", ErrFormat)
	}
	if len(p.Freq) == 0 {
		return fmt.Errorf("%w: profile %q has no grams", ErrFormat, p.Name)
	}
	for gram, count := range p.Freq {
		n := utf8.RuneCountInString(gram)
		if n < 1 || n > 3 {
			return fmt.Errorf("%w: profile %q has gram %q of length %d", ErrFormat, p.Name, gram, n)
		}
		if count < 0 {
			return fmt.Errorf("%w: profile %q has negative count for gram %q", ErrFormat, p.Name, gram)
		}
	}
	for i, total := range p.NWords {
		if total <= 0 {
			return fmt.Errorf("%w: profile %q has non-positive total for %d-grams", ErrFormat, p.Name, i+1)
		}
	}
	return nil
}
