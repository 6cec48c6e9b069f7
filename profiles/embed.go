// Package profiles bundles the default language profile sets. The
// standard set is built from full corpus statistics; the short-text
// set keeps a tighter gram inventory weighted for message-length
// input. Both load lazily through the detector hub's reserved
// registries.
package profiles

import "embed"

//go:embed data data.sm
var FS embed.FS

// Directories inside FS holding one JSON profile per language.
const (
	StandardDir  = "data"
	ShortTextDir = "data.sm"
)
