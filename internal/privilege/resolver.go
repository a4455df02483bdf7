// Package privilege classifies command invocations by the privilege level
// they need and the simulated state domains they touch. The resolver is
// advisory: enforcement happens in the state engine, which consults it.
package privilege

import (
	"labsim/internal/catalog"
	"labsim/internal/grammar"
)

// Level is an actor privilege level in the simulation.
type Level string

const (
	LevelNormal Level = "normal"
	LevelRoot   Level = "root"
)

// legacyWriteFlags is the coarse fallback: short tokens that historically
// denote write operations on definitions that predate structured
// state_interactions. The set is a hard-coded approximation, not an
// exhaustive catalog; the structured per-flag data is the precise source
// of truth whenever it is present.
var legacyWriteFlags = map[string]bool{
	"pm":  true,
	"pl":  true,
	"ac":  true,
	"rac": true,
	"e":   true,
	"r":   true,
	"mig": true,
	"gom": true,
	"C":   true,
	"R":   true,
}

// Resolver decides whether an invocation requires elevated privilege and
// which state domains it would touch. Stateless; safe for concurrent use.
type Resolver struct{}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// normalizeSet normalizes every flag of an invocation into a lookup set.
func normalizeSet(flags []string) map[string]bool {
	set := make(map[string]bool, len(flags))
	for _, flag := range flags {
		set[grammar.NormalizeToken(flag)] = true
	}
	return set
}

// RequiresElevation reports whether invoking def with the given flags
// needs root. Every flag of the invocation counts, not just the first:
// "nvidia-smi -i 0 -pl 250" needs root because of -pl, wherever it sits.
// Two independently sufficient signals, ORed:
//
//  1. A declared write effect carries requires_privilege "root" and either
//     has no requires_flags restriction or lists one of the normalized
//     flags.
//  2. The free-text write-operations hint mentions root and a normalized
//     flag is in the legacy write-flag set.
//
// The second check keeps definitions that only carry the coarse textual
// hint from under-reporting risk.
func (r *Resolver) RequiresElevation(def *catalog.CommandDefinition, flags []string) bool {
	present := normalizeSet(flags)

	if def.StateInteractions != nil {
		for _, effect := range def.StateInteractions.WritesTo {
			if Level(effect.RequiresPrivilege) != LevelRoot {
				continue
			}
			if len(effect.RequiresFlags) == 0 {
				return true
			}
			for _, required := range effect.RequiresFlags {
				if present[grammar.NormalizeToken(required)] {
					return true
				}
			}
		}
	}

	if def.MentionsRootWrites() {
		for legacy := range legacyWriteFlags {
			if present[legacy] {
				return true
			}
		}
	}

	return false
}

// WriteEffects returns the write effects that apply to an invocation with
// the given flags: effects with no requires_flags restriction always
// apply, flag-gated effects apply when any normalized flag matches. Each
// declared effect appears at most once.
func (r *Resolver) WriteEffects(def *catalog.CommandDefinition, flags []string) []catalog.StateEffect {
	if def.StateInteractions == nil {
		return nil
	}
	present := normalizeSet(flags)

	var effects []catalog.StateEffect
	for _, effect := range def.StateInteractions.WritesTo {
		if len(effect.RequiresFlags) == 0 {
			effects = append(effects, effect)
			continue
		}
		for _, required := range effect.RequiresFlags {
			if present[grammar.NormalizeToken(required)] {
				effects = append(effects, effect)
				break
			}
		}
	}
	return effects
}

// TouchedDomains classifies every state domain def interacts with into
// reads and writes. A domain can appear in both lists. Display layers use
// this to show what a command observes versus what it changes.
func (r *Resolver) TouchedDomains(def *catalog.CommandDefinition) (reads, writes []string) {
	if def.StateInteractions == nil {
		return nil, nil
	}
	reads = r.ReadDomains(def)
	seen := make(map[string]bool)
	for _, effect := range def.StateInteractions.WritesTo {
		if !seen[effect.StateDomain] {
			seen[effect.StateDomain] = true
			writes = append(writes, effect.StateDomain)
		}
	}
	return reads, writes
}

// ReadDomains returns the state domains def declares reads from.
func (r *Resolver) ReadDomains(def *catalog.CommandDefinition) []string {
	if def.StateInteractions == nil {
		return nil
	}
	var domains []string
	seen := make(map[string]bool)
	for _, effect := range def.StateInteractions.ReadsFrom {
		if !seen[effect.StateDomain] {
			seen[effect.StateDomain] = true
			domains = append(domains, effect.StateDomain)
		}
	}
	return domains
}
