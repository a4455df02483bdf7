package simstate

import "labsim/internal/privilege"

// ContextDomain is the reserved state-domain name whose write effects
// target the execution context instead of simulated hardware state.
// A write of field "privilege" changes the actor's privilege level.
const ContextDomain = "execution_context"

// Context is the per-session execution context: the acting learner's
// privilege level and any ambient resource allocations consulted by
// permission checks. Values, not pointers; the engine replaces the whole
// record on change.
type Context struct {
	Privilege   privilege.Level
	Allocations map[string]int
}

// NewContext returns a context for a normal (non-elevated) actor.
func NewContext() Context {
	return Context{Privilege: privilege.LevelNormal}
}

// Elevated reports whether the actor holds root-equivalent privilege.
func (c Context) Elevated() bool {
	return c.Privilege == privilege.LevelRoot
}

// withPrivilege returns a copy of the context at the given level.
func (c Context) withPrivilege(level privilege.Level) Context {
	c.Privilege = level
	return c
}
