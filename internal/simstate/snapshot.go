// Package simstate owns the simulated system state and applies the state
// transitions that command definitions declare. "Execution" here never
// touches an operating system: it transitions an in-memory model of
// hardware and cluster state.
//
// Snapshots are immutable. Applying a write produces a new snapshot that
// structurally shares every untouched domain with its parent, so callers
// can hold references to prior states for undo and step-back review.
package simstate

// Snapshot is an immutable view of the simulated system: a mapping of
// state-domain name to that domain's field map. The zero value is an empty
// snapshot.
type Snapshot struct {
	domains map[string]map[string]any
}

// NewSnapshot builds a snapshot from initial domain state. The input maps
// are copied; the caller keeps ownership of its argument.
func NewSnapshot(domains map[string]map[string]any) Snapshot {
	copied := make(map[string]map[string]any, len(domains))
	for name, fields := range domains {
		copied[name] = copyFields(fields)
	}
	return Snapshot{domains: copied}
}

// HasDomain reports whether the named state domain exists.
func (s Snapshot) HasDomain(domain string) bool {
	_, ok := s.domains[domain]
	return ok
}

// Field returns the value of one field in one domain.
func (s Snapshot) Field(domain, field string) (any, bool) {
	fields, ok := s.domains[domain]
	if !ok {
		return nil, false
	}
	v, ok := fields[field]
	return v, ok
}

// Domain returns a copy of the named domain's field map.
func (s Snapshot) Domain(domain string) (map[string]any, bool) {
	fields, ok := s.domains[domain]
	if !ok {
		return nil, false
	}
	return copyFields(fields), true
}

// Domains returns the names of all existing state domains.
func (s Snapshot) Domains() []string {
	names := make([]string, 0, len(s.domains))
	for name := range s.domains {
		names = append(names, name)
	}
	return names
}

// With returns a new snapshot with the given fields merged into the named
// domain, last-write-wins per field. The domain is created if absent.
// Every other domain is shared with the receiver, not copied.
func (s Snapshot) With(domain string, fields map[string]any) Snapshot {
	next := make(map[string]map[string]any, len(s.domains)+1)
	for name, f := range s.domains {
		next[name] = f
	}

	merged := copyFields(s.domains[domain])
	for k, v := range fields {
		merged[k] = v
	}
	next[domain] = merged

	return Snapshot{domains: next}
}

func copyFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return copied
}
