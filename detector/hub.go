package detector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/tsingjyujing/glossa/profiles"
)

// Reserved registry names for the bundled default profile sets. They
// are reachable only through Default and DefaultShortText.
const (
	reservedDefault   = "DEFAULT"
	reservedShortText = "SHORT"
)

// Hub owns named, independently loadable registries. Two reserved
// registries populate themselves lazily from the bundled profile sets:
// a standard-text set and a variant tuned for short text.
type Hub struct {
	mu         sync.Mutex
	registries map[string]*Registry
}

// NewHub returns a hub with no registries.
func NewHub() *Hub {
	return &Hub{registries: make(map[string]*Registry)}
}

// GetOrCreate returns the registry for name, creating an empty one on
// first request. Reserved names fail with ErrReservedName; use Default
// or DefaultShortText for those.
func (h *Hub) GetOrCreate(name string) (*Registry, error) {
	if name == reservedDefault || name == reservedShortText {
		return nil, fmt.Errorf("%w: %s", ErrReservedName, name)
	}
	return h.getOrCreate(name), nil
}

func (h *Hub) getOrCreate(name string) *Registry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.registries[name]; ok {
		return r
	}
	r := NewRegistry()
	h.registries[name] = r
	return r
}

// Default returns the registry loaded with the bundled standard
// profile set, loading it on first use.
func (h *Hub) Default() (*Registry, error) {
	r := h.getOrCreate(reservedDefault)
	if err := r.ensureLoaded(profiles.FS, profiles.StandardDir); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultShortText returns the registry loaded with the bundled
// short-text profile set, loading it on first use.
func (h *Hub) DefaultShortText() (*Registry, error) {
	r := h.getOrCreate(reservedShortText)
	if err := r.ensureLoaded(profiles.FS, profiles.ShortTextDir); err != nil {
		return nil, err
	}
	return r, nil
}

// Remove drops the named registry from the hub. Detectors created from
// it keep working on their snapshots.
func (h *Hub) Remove(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.registries, name)
}

// Names lists the hub's registry names, reserved ones included once
// they have been requested, in lexical order.
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := lo.Keys(h.registries)
	sort.Strings(names)
	return names
}
