package simstate

import (
	"fmt"

	"labsim/internal/catalog"
	"labsim/internal/logging"
	"labsim/internal/privilege"
)

// ReasonCode identifies why CanExecute denied an invocation. Every denial
// carries a specific code; there is no generic failure path.
type ReasonCode string

const (
	ReasonPrivilegeRequired  ReasonCode = "privilege_required"
	ReasonMissingStateDomain ReasonCode = "missing_state_domain"
	ReasonUnknownCommand     ReasonCode = "unknown_command"
)

// Invocation is a validated command invocation as resolved by the grammar
// layer: the command name, every flag present (normalized or raw), an
// optional subcommand, and optional simulated values for written fields.
// Fields not named in Values are written as true (touched).
type Invocation struct {
	Command    string
	Subcommand string
	Flags      []string
	Values     map[string]any
}

// Decision is the outcome of a precondition check. A denial is a normal,
// expected result surfaced to the learner, not an error.
type Decision struct {
	Allowed bool
	Reason  ReasonCode
	Message string
}

// FieldWrite records one field mutation applied by Execute.
type FieldWrite struct {
	Domain string
	Field  string
	Value  any
}

// ExecResult is the outcome of a successful Execute: the new context and
// state snapshots plus the delta that produced them.
type ExecResult struct {
	Context Context
	State   Snapshot
	Delta   []FieldWrite
}

// Engine owns one session's simulated state and execution context. It
// exposes exactly two operations per invocation: a pure CanExecute
// precondition check and an Execute that applies declared write effects.
//
// Engine methods are not safe for concurrent use; a session guards its
// engine with its own mutex. Sessions are independent, so there is no
// global lock.
type Engine struct {
	registry *catalog.Registry
	resolver *privilege.Resolver

	ctx   Context
	state Snapshot
}

// NewEngine creates an engine over the loaded registry with the given
// initial context and state.
func NewEngine(registry *catalog.Registry, resolver *privilege.Resolver, ctx Context, initial Snapshot) *Engine {
	return &Engine{
		registry: registry,
		resolver: resolver,
		ctx:      ctx,
		state:    initial,
	}
}

// Context returns the current execution context.
func (e *Engine) Context() Context { return e.ctx }

// State returns the current state snapshot. Snapshots are immutable, so
// callers may retain the return value across later executions.
func (e *Engine) State() Snapshot { return e.state }

// CanExecute checks the invocation's preconditions against current state
// and privilege without mutating anything. Denials:
//
//   - the invocation requires root and the actor is not elevated
//   - a declared reads_from domain does not exist in current state
//     (a command cannot read state that was never initialized)
//
// All other combinations are permitted. An unknown command is denied with
// ReasonUnknownCommand; the UI validates existence before reaching here.
func (e *Engine) CanExecute(inv Invocation) Decision {
	def, ok := e.registry.Get(inv.Command)
	if !ok {
		return Decision{
			Reason:  ReasonUnknownCommand,
			Message: fmt.Sprintf("%s: command not recognized", inv.Command),
		}
	}

	if e.resolver.RequiresElevation(def, inv.Flags) && !e.ctx.Elevated() {
		return Decision{
			Reason:  ReasonPrivilegeRequired,
			Message: fmt.Sprintf("%s: this operation requires root privileges", inv.Command),
		}
	}

	for _, domain := range e.resolver.ReadDomains(def) {
		if !e.state.HasDomain(domain) {
			return Decision{
				Reason:  ReasonMissingStateDomain,
				Message: fmt.Sprintf("%s: no %s present in this environment", inv.Command, domain),
			}
		}
	}

	return Decision{Allowed: true}
}

// Execute applies every write effect the invocation triggers, merging the
// declared fields into the named domains last-write-wins, and returns the
// new snapshots. The engine replaces its held snapshot rather than
// mutating it, so references returned by earlier State calls stay valid.
//
// Execute does not re-run CanExecute; callers check first, within the same
// synchronous turn. Calling Execute for a command that is not in the
// registry is a caller-side invariant violation and panics.
func (e *Engine) Execute(inv Invocation) ExecResult {
	def, ok := e.registry.Get(inv.Command)
	if !ok {
		panic(fmt.Sprintf("simstate: Execute called for unknown command %q", inv.Command))
	}

	log := logging.L(logging.CategoryEngine)

	state := e.state
	ctx := e.ctx
	var delta []FieldWrite

	for _, effect := range e.resolver.WriteEffects(def, inv.Flags) {
		fields := make(map[string]any, len(effect.Fields))
		for _, field := range effect.Fields {
			value, ok := inv.Values[field]
			if !ok {
				value = true
			}
			fields[field] = value
			delta = append(delta, FieldWrite{Domain: effect.StateDomain, Field: field, Value: value})
		}

		if effect.StateDomain == ContextDomain {
			ctx = applyContextEffect(ctx, fields)
			continue
		}
		state = state.With(effect.StateDomain, fields)
	}

	e.state = state
	e.ctx = ctx

	log.Debug("executed command",
		logging.String("command", inv.Command),
		logging.Strings("flags", inv.Flags),
		logging.Int("writes", len(delta)))

	return ExecResult{Context: ctx, State: state, Delta: delta}
}

// applyContextEffect maps writes on the reserved execution_context domain
// onto the context record.
func applyContextEffect(ctx Context, fields map[string]any) Context {
	if v, ok := fields["privilege"]; ok {
		if level, ok := v.(string); ok {
			ctx = ctx.withPrivilege(privilege.Level(level))
		} else {
			// Touched without an explicit value: an elevation grant.
			ctx = ctx.withPrivilege(privilege.LevelRoot)
		}
	}
	if v, ok := fields["allocations"]; ok {
		if allocs, ok := v.(map[string]int); ok {
			ctx.Allocations = allocs
		}
	}
	return ctx
}
