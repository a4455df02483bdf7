package catalog

import (
	"context"
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"labsim/internal/logging"
)

// Loader builds a Registry from one or more definition sources. Each source
// is a filesystem containing *.json files, one command definition per file.
//
// LoadAll is idempotent and safe to call concurrently: a single in-flight
// load is shared, so every caller observes the same completed registry and
// never a partial one. After the first successful load, LoadAll returns the
// cached registry without touching the sources again.
type Loader struct {
	sources []fs.FS

	group singleflight.Group

	mu       sync.RWMutex
	registry *Registry
}

// NewLoader creates a loader over the given sources. Later sources lose on
// duplicate command names (first declaration wins).
func NewLoader(sources ...fs.FS) *Loader {
	return &Loader{sources: sources}
}

// NewEmbeddedLoader creates a loader over the definitions compiled into the
// binary, plus any extra sources.
func NewEmbeddedLoader(extra ...fs.FS) *Loader {
	sources := []fs.FS{embeddedDefinitions()}
	sources = append(sources, extra...)
	return NewLoader(sources...)
}

// LoadAll loads every definition from every source and returns the
// resulting registry. A record that is not a well-formed object, or that
// lacks a command name, is skipped with a warning rather than failing the
// load; one malformed entry must not take down the registry.
func (l *Loader) LoadAll(ctx context.Context) (*Registry, error) {
	l.mu.RLock()
	if reg := l.registry; reg != nil {
		l.mu.RUnlock()
		return reg, nil
	}
	l.mu.RUnlock()

	v, err, _ := l.group.Do("load", func() (any, error) {
		return l.loadAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	reg := v.(*Registry)

	l.mu.Lock()
	if l.registry == nil {
		l.registry = reg
	} else {
		reg = l.registry
	}
	l.mu.Unlock()

	return reg, nil
}

// Reload rebuilds the registry from the sources, replacing the cached
// one. Pack watchers call this after on-disk definitions change.
func (l *Loader) Reload(ctx context.Context) (*Registry, error) {
	reg, err := l.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.registry = reg
	l.mu.Unlock()
	return reg, nil
}

// Registry returns the loaded registry, or ok=false if LoadAll has not
// completed. Callers use this for the fail-open not-yet-loaded contract.
func (l *Loader) Registry() (*Registry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registry, l.registry != nil
}

// Loaded reports whether LoadAll has completed.
func (l *Loader) Loaded() bool {
	_, ok := l.Registry()
	return ok
}

func (l *Loader) loadAll(ctx context.Context) (*Registry, error) {
	if len(l.sources) == 0 {
		return nil, ErrNoSources
	}

	log := logging.L(logging.CategoryCatalog)

	perSource := make([][]*CommandDefinition, len(l.sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, source := range l.sources {
		g.Go(func() error {
			defs, err := loadSource(ctx, source)
			if err != nil {
				return err
			}
			perSource[i] = defs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Flatten in source order so duplicate handling is deterministic.
	seen := make(map[string]bool)
	var defs []*CommandDefinition
	for _, batch := range perSource {
		for _, def := range batch {
			if seen[def.Command] {
				log.Warn("skipping duplicate command definition",
					logging.String("command", def.Command))
				continue
			}
			seen[def.Command] = true
			defs = append(defs, def)
		}
	}

	log.Info("definition load complete", logging.Int("commands", len(defs)))
	return newRegistry(defs), nil
}

// loadSource reads every *.json file in a source, skipping malformed
// records. Files are processed in name order so skips are reproducible.
func loadSource(ctx context.Context, source fs.FS) ([]*CommandDefinition, error) {
	log := logging.L(logging.CategoryCatalog)

	var files []string
	err := fs.WalkDir(source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".json") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var defs []*CommandDefinition
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(source, file)
		if err != nil {
			log.Warn("skipping unreadable definition file",
				logging.String("file", file), logging.Err(err))
			continue
		}
		def, ok := decodeDefinition(data)
		if !ok {
			log.Warn("skipping malformed definition record",
				logging.String("file", path.Base(file)))
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// decodeDefinition parses one record. A record is usable only if it is a
// JSON object with a non-empty string "command" field.
func decodeDefinition(data []byte) (*CommandDefinition, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false
	}
	raw, ok := probe["command"]
	if !ok {
		return nil, false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil || name == "" {
		return nil, false
	}

	var def CommandDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, false
	}
	return &def, true
}
