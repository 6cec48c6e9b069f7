// Package detector implements statistical language identification: a
// Registry compiles per-language n-gram profiles into a shared
// probability table, and a Detector estimates a ranked probability
// distribution over the registry's languages from accumulated text
// using randomized-trial Bayesian inference.
package detector

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tsingjyujing/glossa/profile"
	"github.com/tsingjyujing/glossa/text"
)

// Registry compiles language profiles into one probability table.
// The table maps each gram to a per-language probability row; the
// column index of a language is its load order. Published tables are
// immutable: every mutation builds a fresh copy and republishes it, so
// detectors created earlier keep reading the snapshot they were born
// with, lock-free.
type Registry struct {
	mu    sync.Mutex
	table map[string][]float64
	langs []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string][]float64)}
}

// AddProfile writes profile p into column index of the table, creating
// gram rows (zero-initialized to total columns) as needed. The cell
// value is freq/n_words[len-1]. It fails with ErrDuplicateLanguage if
// the profile's name is already present; earlier additions stay
// applied.
func (r *Registry) AddProfile(p *profile.Profile, index, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(p, index, total)
}

func (r *Registry) addLocked(p *profile.Profile, index, total int) error {
	if slices.Contains(r.langs, p.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateLanguage, p.Name)
	}
	if total < index+1 {
		total = index + 1
	}
	table := make(map[string][]float64, len(r.table)+len(p.Freq))
	for gram, row := range r.table {
		table[gram] = growRow(row, total)
	}
	for gram, count := range p.Freq {
		n := utf8.RuneCountInString(gram)
		if n < 1 || n > text.MaxGramLength {
			continue
		}
		row, ok := table[gram]
		if !ok {
			row = make([]float64, total)
		}
		row[index] = float64(count) / float64(p.NWords[n-1])
		table[gram] = row
	}
	r.table = table
	r.langs = append(slices.Clone(r.langs), p.Name)
	return nil
}

// growRow clones row at the given width. Rows are always cloned, never
// mutated in place, to preserve earlier snapshots.
func growRow(row []float64, width int) []float64 {
	if width < len(row) {
		width = len(row)
	}
	grown := make([]float64, width)
	copy(grown, row)
	return grown
}

// LoadProfiles compiles a batch of profile records, assigning column
// indices in slice order after any languages already present. Fewer
// than two records fail with ErrInsufficientProfiles. A duplicate name
// aborts the batch with ErrDuplicateLanguage; records processed before
// the failing one remain applied.
func (r *Registry) LoadProfiles(records []*profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(records)
}

func (r *Registry) loadLocked(records []*profile.Profile) error {
	if len(records) < 2 {
		return fmt.Errorf("%w: got %d", ErrInsufficientProfiles, len(records))
	}
	total := len(r.langs) + len(records)
	for _, p := range records {
		if err := r.addLocked(p, len(r.langs), total); err != nil {
			return err
		}
	}
	return nil
}

// LoadDirectory loads one profile per regular, non-hidden file in the
// directory, assigning column indices in directory-iteration order.
func (r *Registry) LoadDirectory(path string) error {
	return r.LoadFS(os.DirFS(path), ".")
}

// LoadFS is LoadDirectory over an fs.FS; the bundled default profile
// sets load through it.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	records, err := readProfiles(fsys, dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(records)
}

func readProfiles(fsys fs.FS, dir string) ([]*profile.Profile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	records := make([]*profile.Profile, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.Type().IsRegular() {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		p, err := profile.DecodeBytes(data)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", entry.Name(), err)
		}
		records = append(records, p)
	}
	return records, nil
}

// ensureLoaded lazily populates the registry from fsys exactly once.
// Concurrent first requests serialize on the registry mutex; a failed
// load leaves the registry empty so the next request retries.
func (r *Registry) ensureLoaded(fsys fs.FS, dir string) error {
	r.mu.Lock()
	if len(r.langs) > 0 {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	records, err := readProfiles(fsys, dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.langs) > 0 {
		return nil
	}
	return r.loadLocked(records)
}

// Create returns a detector bound to the registry's current table
// snapshot. Profiles loaded afterwards do not affect it.
func (r *Registry) Create() (*Detector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.langs) == 0 {
		return nil, ErrNotReady
	}
	return newDetector(r.table, slices.Clone(r.langs)), nil
}

// CreateWithAlpha is Create with a non-default smoothing parameter.
func (r *Registry) CreateWithAlpha(alpha float64) (*Detector, error) {
	d, err := r.Create()
	if err != nil {
		return nil, err
	}
	d.SetAlpha(alpha)
	return d, nil
}

// Clear resets the registry to zero languages so it can be reloaded.
// Detectors created before the clear keep their snapshot.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = make(map[string][]float64)
	r.langs = nil
}

// Languages returns the ordered language list (copy); order equals
// table column order.
func (r *Registry) Languages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.langs)
}
