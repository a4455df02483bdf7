package catalog

import "errors"

// Catalog errors.
var (
	// ErrNoSources is returned when a loader is constructed with nothing to load.
	ErrNoSources = errors.New("no definition sources configured")

	// ErrNotLoaded is returned by operations that need a completed load.
	ErrNotLoaded = errors.New("definition registry not loaded")
)
