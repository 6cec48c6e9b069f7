package detector

import "errors"

var (
	// ErrNotReady is returned when a detector is requested from a
	// registry that has no language profiles loaded.
	ErrNotReady = errors.New("no language profiles loaded")

	// ErrDuplicateLanguage is returned when a profile's language name
	// is already present in the registry.
	ErrDuplicateLanguage = errors.New("duplicate language profile")

	// ErrInsufficientProfiles is returned when a batch load carries
	// fewer than two profiles; a single-language table cannot
	// discriminate anything.
	ErrInsufficientProfiles = errors.New("need at least 2 profiles")

	// ErrSourceUnavailable is returned when a profile source cannot
	// be opened or read.
	ErrSourceUnavailable = errors.New("profile source unavailable")

	// ErrReservedName is returned when a reserved registry name is
	// requested through Hub.GetOrCreate instead of the dedicated
	// default accessors.
	ErrReservedName = errors.New("registry name is reserved")
)
