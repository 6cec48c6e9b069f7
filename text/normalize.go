// Package text converts raw input into classified character n-grams
// for language detection: script classification, cleaning and
// normalization, and sliding-window gram extraction.
package text

import (
	"regexp"
	"strings"

	"github.com/longbridgeapp/opencc"
	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern  = regexp.MustCompile(`https?://[-_.?&~;+=/#0-9A-Za-z]{1,1000}`)
	mailPattern = regexp.MustCompile(`[-_.0-9A-Za-z]{1,64}@[-_0-9A-Za-z]{1,255}[-_.0-9A-Za-z]{1,255}`)
)

// maxRepeat caps runs of the same rune so degenerate input such as
// "aaaaaaaa" cannot dominate the gram statistics. Three matches the
// widest gram window.
const maxRepeat = 3

// Clean strips URLs and mail addresses, applies Unicode NFKC and
// lower-cases the text. It performs no script-aware work; Append does
// the per-rune normalization.
func Clean(s string) string {
	s = urlPattern.ReplaceAllString(s, " ")
	s = mailPattern.ReplaceAllString(s, " ")
	s = norm.NFKC.String(s)
	return strings.ToLower(s)
}

// Append normalizes s and appends it to dst, returning the extended
// buffer. Runes outside any known script become a single space
// (boundary), space runs collapse, and runs of one identical rune are
// capped at maxRepeat. Appending stops once dst reaches max runes;
// excess input is silently dropped.
func Append(dst []rune, s string, max int) []rune {
	for _, r := range Clean(s) {
		if len(dst) >= max {
			break
		}
		r = foldRune(r)
		if Classify(r) == ClassOther {
			r = ' '
		}
		n := len(dst)
		if r == ' ' {
			if n == 0 || dst[n-1] == ' ' {
				continue
			}
			dst = append(dst, ' ')
			continue
		}
		if n >= maxRepeat && sameRun(dst, r) {
			continue
		}
		dst = append(dst, r)
	}
	return dst
}

// sameRun reports whether the last maxRepeat runes of dst all equal r.
func sameRun(dst []rune, r rune) bool {
	for i := len(dst) - maxRepeat; i < len(dst); i++ {
		if dst[i] != r {
			return false
		}
	}
	return true
}

// Normalizer rewrites text before it reaches the detector.
type Normalizer interface {
	Normalize(text string) (string, error)
}

// CJKNormalizer folds Traditional Chinese text onto Simplified forms
// so one Chinese profile covers both, on top of Unicode NFKC.
type CJKNormalizer struct {
	t2s *opencc.OpenCC
}

// NewCJKNormalizer creates a CJK normalizer. When simplify is true,
// Traditional Chinese characters are converted to Simplified via
// OpenCC; otherwise only NFKC is applied.
func NewCJKNormalizer(simplify bool) (Normalizer, error) {
	var t2s *opencc.OpenCC
	if simplify {
		converted, err := opencc.New("t2s")
		if err != nil {
			return nil, err
		}
		t2s = converted
	}
	return &CJKNormalizer{t2s: t2s}, nil
}

func (n *CJKNormalizer) Normalize(text string) (string, error) {
	s := norm.NFKC.String(text)
	if n.t2s != nil {
		converted, err := n.t2s.Convert(s)
		if err != nil {
			return "", err
		}
		s = converted
	}
	return s, nil
}
