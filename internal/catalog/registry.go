package catalog

import "sort"

// Registry is an immutable index of command definitions keyed by command
// name. It is built once by a Loader and safe for concurrent readers with
// no locking. Absence is the only failure signal: Get returns ok=false for
// unknown names.
type Registry struct {
	byName     map[string]*CommandDefinition
	byCategory map[Category][]*CommandDefinition
}

// newRegistry indexes the given definitions. Ownership of the slice
// transfers to the registry.
func newRegistry(defs []*CommandDefinition) *Registry {
	r := &Registry{
		byName:     make(map[string]*CommandDefinition, len(defs)),
		byCategory: make(map[Category][]*CommandDefinition),
	}
	for _, def := range defs {
		r.byName[def.Command] = def
		r.byCategory[def.Category] = append(r.byCategory[def.Category], def)
	}
	return r
}

// Get returns the definition for the given command name.
func (r *Registry) Get(name string) (*CommandDefinition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Has reports whether a command name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ByCategory returns all definitions in a category, sorted by command name.
func (r *Registry) ByCategory(category Category) []*CommandDefinition {
	defs := make([]*CommandDefinition, len(r.byCategory[category]))
	copy(defs, r.byCategory[category])
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Command < defs[j].Command
	})
	return defs
}

// Names returns all registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories returns the categories that have at least one definition, sorted.
func (r *Registry) Categories() []Category {
	cats := make([]Category, 0, len(r.byCategory))
	for cat := range r.byCategory {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	return len(r.byName)
}
