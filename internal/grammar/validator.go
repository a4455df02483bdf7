package grammar

import (
	"sort"

	"labsim/internal/catalog"
	"labsim/internal/logging"
)

// State is the three-valued outcome of a validation. NotLoaded is kept
// distinct from Valid so the fail-open behavior stays explicit and
// testable instead of being collapsed into a silent "valid".
type State int

const (
	// StateNotLoaded means the registry has not finished loading. The
	// validator fails open: never block a learner on infrastructure that
	// is not ready yet.
	StateNotLoaded State = iota

	// StateValid means the token matched a declared option or subcommand.
	StateValid

	// StateInvalid means the command is loaded and the token is not part
	// of its declared grammar.
	StateInvalid
)

// Result is the outcome of one validation call. Ephemeral; never persisted.
type Result struct {
	State       State
	Suggestions []string
}

// Valid collapses the three-valued state into the learner-facing boolean:
// not-loaded fails open, everything else is literal.
func (r Result) Valid() bool {
	return r.State != StateInvalid
}

// Source is the registry view the validator needs. *catalog.Loader
// satisfies it.
type Source interface {
	// Registry returns the loaded registry, or ok=false while loading.
	Registry() (*catalog.Registry, bool)
}

// Validator checks flag and subcommand tokens against a command's declared
// grammar. Stateless beyond its source; safe for concurrent use once the
// source has loaded.
type Validator struct {
	source Source
}

// NewValidator creates a validator over the given definition source.
func NewValidator(source Source) *Validator {
	return &Validator{source: source}
}

const (
	maxSuggestionDistance = 2
	maxSuggestions        = 3
)

// ValidateFlag checks a single flag token against the command's declared
// options (global and per-subcommand). On a miss it proposes up to three
// nearest declared tokens within edit distance 2, closest first.
//
// An unknown command with a loaded registry is invalid with no
// suggestions; a registry that has not finished loading is fail-open.
func (v *Validator) ValidateFlag(command, token string) Result {
	reg, ok := v.source.Registry()
	if !ok {
		return Result{State: StateNotLoaded}
	}
	def, ok := reg.Get(command)
	if !ok {
		logging.L(logging.CategoryGrammar).Debug("flag validation for unknown command",
			logging.String("command", command))
		return Result{State: StateInvalid}
	}

	valid := make([]string, 0, len(def.GlobalOptions)*2)
	for _, opt := range def.AllOptions() {
		for _, t := range opt.Tokens() {
			valid = append(valid, NormalizeToken(t))
		}
	}
	return matchToken(NormalizeToken(token), valid)
}

// ValidateSubcommand checks a token against the command's declared
// subcommand names with the same fuzzy-suggestion policy. A command with
// no subcommands is invalid for every token.
func (v *Validator) ValidateSubcommand(command, token string) Result {
	reg, ok := v.source.Registry()
	if !ok {
		return Result{State: StateNotLoaded}
	}
	def, ok := reg.Get(command)
	if !ok {
		return Result{State: StateInvalid}
	}
	return matchToken(token, def.SubcommandNames())
}

// matchToken decides membership of needle in the candidate set, collecting
// near misses. Candidates are compared in declaration order so that ties
// on distance resolve stably.
func matchToken(needle string, candidates []string) Result {
	type scored struct {
		token    string
		distance int
		order    int
	}
	var near []scored

	for i, candidate := range candidates {
		if candidate == needle {
			return Result{State: StateValid}
		}
		if d := Levenshtein(needle, candidate); d <= maxSuggestionDistance {
			near = append(near, scored{token: candidate, distance: d, order: i})
		}
	}

	sort.Slice(near, func(i, j int) bool {
		if near[i].distance != near[j].distance {
			return near[i].distance < near[j].distance
		}
		return near[i].order < near[j].order
	})

	var suggestions []string
	for _, n := range near {
		// The same normalized token can be declared on several options
		// (e.g. a short flag reused by a subcommand); suggest it once.
		if contains(suggestions, n.token) {
			continue
		}
		suggestions = append(suggestions, n.token)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return Result{State: StateInvalid, Suggestions: suggestions}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
