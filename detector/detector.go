package detector

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/tsingjyujing/glossa/text"
)

// Detection parameters. Alpha interpolates between the observed
// per-language gram probability and a uniform fallback so unseen grams
// never zero out a language.
const (
	DefaultAlpha         = 0.5
	DefaultMaxTextLength = 10000

	defaultMaxIterations = 1000
	trialCount           = 7
	alphaWidth           = 0.05
	minAlpha             = 0.0001
	convThreshold        = 0.99999
	convCheckEvery       = 5
	probThreshold        = 0.1
)

// PriorityMode selects how a priority map adjusts the estimated
// distribution.
type PriorityMode int

const (
	// PriorityAdditive adds each mapped language's weight to its
	// probability before renormalizing over all languages.
	PriorityAdditive PriorityMode = iota
	// PriorityReplace restricts the result to the mapped languages and
	// renormalizes over just that subset.
	PriorityReplace
)

// Detector is a single-use detection session. It accumulates
// normalized text via Append and estimates a probability distribution
// over its registry snapshot's languages. A Detector must not be used
// from more than one goroutine at a time; the table snapshot it holds
// is shared and read-only.
type Detector struct {
	table map[string][]float64
	langs []string

	alpha         float64
	maxTextLength int
	maxIterations int
	priority      map[string]float64
	priorityMode  PriorityMode
	rng           *rand.Rand

	buf   []rune
	probs []float64
}

func newDetector(table map[string][]float64, langs []string) *Detector {
	return &Detector{
		table:         table,
		langs:         langs,
		alpha:         DefaultAlpha,
		maxTextLength: DefaultMaxTextLength,
		maxIterations: defaultMaxIterations,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetAlpha sets the smoothing parameter (default 0.5).
func (d *Detector) SetAlpha(alpha float64) {
	d.alpha = alpha
}

// SetSeed makes the session's randomized trials deterministic:
// identical text and seed yield bit-identical distributions.
func (d *Detector) SetSeed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
}

// SetMaxTextLength bounds the accumulated normalized text; text beyond
// the bound truncates silently. An already longer buffer is cut back.
func (d *Detector) SetMaxTextLength(max int) {
	d.maxTextLength = max
	if len(d.buf) > max {
		d.buf = d.buf[:max]
		d.probs = nil
	}
}

// SetMaxIterations caps the probability-update steps per trial, for
// callers that want a tighter budget on pathologically large inputs.
func (d *Detector) SetMaxIterations(n int) {
	if n > 0 {
		d.maxIterations = n
	}
}

// SetPriorityMap installs per-language weights applied after base
// estimation. Weights must be non-negative and at least one key must
// name a language of this session's registry snapshot.
func (d *Detector) SetPriorityMap(weights map[string]float64, mode PriorityMode) error {
	matched := false
	for lang, w := range weights {
		if w < 0 {
			return fmt.Errorf("negative priority weight for %q", lang)
		}
		if slices.Contains(d.langs, lang) {
			matched = true
		}
	}
	if !matched {
		return fmt.Errorf("priority map matches none of the loaded languages")
	}
	d.priority = weights
	d.priorityMode = mode
	d.probs = nil
	return nil
}

// Append normalizes s and adds it to the session's evidence buffer,
// truncating at the configured maximum length. It invalidates any
// cached estimate.
func (d *Detector) Append(s string) {
	d.buf = text.Append(d.buf, s, d.maxTextLength)
	d.probs = nil
}

// Detect returns the most probable language, or LangUnknown when no
// language clears the reporting threshold or no evidence exists.
func (d *Detector) Detect() string {
	ranked := d.Probabilities()
	if len(ranked) == 0 {
		return LangUnknown
	}
	return ranked[0].Lang
}

// Probabilities returns the languages above the reporting threshold,
// sorted by descending probability, ties broken by registry load
// order. In replace-priority mode the whole restricted subset is
// reported. The estimate is cached until the next Append.
func (d *Detector) Probabilities() []Language {
	if d.probs == nil {
		d.probs = d.estimate()
	}
	if maxOf(d.probs) == 0 { // no evidence accumulated
		return nil
	}
	ranked := make([]Language, 0, len(d.langs))
	for i, lang := range d.langs {
		keep := d.probs[i] > probThreshold
		if d.priority != nil && d.priorityMode == PriorityReplace {
			_, keep = d.priority[lang]
		}
		if keep {
			ranked = append(ranked, Language{Lang: lang, Prob: d.probs[i]})
		}
	}
	slices.SortStableFunc(ranked, func(a, b Language) int {
		return cmp.Compare(b.Prob, a.Prob)
	})
	return ranked
}

// estimate runs the randomized trials and averages their outcomes.
// Averaging over shuffled evidence order and jittered alpha reduces
// the variance a single trial would carry.
func (d *Detector) estimate() []float64 {
	n := len(d.langs)
	result := make([]float64, n)
	grams := text.Extract(d.buf)
	if n == 0 || len(grams) == 0 {
		return result
	}
	for trial := 0; trial < trialCount; trial++ {
		prob := make([]float64, n)
		for i := range prob {
			prob[i] = 1.0 / float64(n)
		}
		alpha := d.alpha + d.rng.NormFloat64()*alphaWidth
		if alpha < minAlpha {
			alpha = minAlpha
		}
		order := d.rng.Perm(len(grams))
		for i, gramIndex := range order {
			if i >= d.maxIterations {
				break
			}
			d.update(prob, grams[gramIndex], alpha)
			if (i+1)%convCheckEvery == 0 && maxOf(prob) > convThreshold {
				break
			}
		}
		for i := range result {
			result[i] += prob[i] / trialCount
		}
	}
	return d.applyPriority(result)
}

// update folds one gram of evidence into prob:
// post[i] = prior[i] * ((1-alpha)*row[i] + alpha/n), renormalized so
// the vector stays within [0,1] and sums to 1 after every step.
func (d *Detector) update(prob []float64, gram string, alpha float64) {
	row := d.table[gram] // nil for grams unseen in training
	uniform := alpha / float64(len(prob))
	for i := range prob {
		p := 0.0
		if i < len(row) {
			p = row[i]
		}
		prob[i] *= (1-alpha)*p + uniform
	}
	normalize(prob)
}

func (d *Detector) applyPriority(result []float64) []float64 {
	switch {
	case d.priority == nil:
		normalize(result)
	case d.priorityMode == PriorityReplace:
		for i, lang := range d.langs {
			result[i] *= d.priority[lang] // zero for unmapped languages
		}
		normalize(result)
	default: // PriorityAdditive
		for i, lang := range d.langs {
			result[i] += d.priority[lang]
		}
		normalize(result)
	}
	return result
}

// normalize rescales prob to sum to 1; an all-zero vector is left
// untouched (no evidence, no distribution).
func normalize(prob []float64) {
	sum := 0.0
	for _, p := range prob {
		sum += p
	}
	if sum <= 0 {
		return
	}
	for i := range prob {
		prob[i] /= sum
	}
}

func maxOf(prob []float64) float64 {
	best := 0.0
	for _, p := range prob {
		if p > best {
			best = p
		}
	}
	return best
}
