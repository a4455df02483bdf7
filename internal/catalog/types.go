// Package catalog loads and indexes the declarative command definitions
// that drive the simulator: one JSON record per real-world tool, describing
// its grammar (flags, subcommands), help text, and simulated state effects.
//
// Definitions are immutable once loaded. The Registry is the only lookup
// surface; everything downstream (grammar validation, privilege resolution,
// state transitions) reads from it and never mutates it.
package catalog

import "strings"

// Category classifies a tool by the hardware or subsystem it targets.
type Category string

const (
	CategoryGPU        Category = "gpu"
	CategoryInfiniBand Category = "infiniband"
	CategoryBMC        Category = "bmc"
	CategoryScheduler  Category = "scheduler"
	CategoryContainer  Category = "container"
	CategoryDiagnostic Category = "diagnostic"
	CategorySystem     Category = "system"
)

// CommandDefinition describes one recognized tool. The `command` name is
// globally unique across the loaded set.
type CommandDefinition struct {
	Command             string             `json:"command"`
	Category            Category           `json:"category"`
	Description         string             `json:"description"`
	Synopsis            string             `json:"synopsis"`
	GlobalOptions       []CommandOption    `json:"global_options,omitempty"`
	Subcommands         []Subcommand       `json:"subcommands,omitempty"`
	ExitCodes           []ExitCode         `json:"exit_codes,omitempty"`
	CommonUsagePatterns []string           `json:"common_usage_patterns,omitempty"`
	ErrorMessages       []string           `json:"error_messages,omitempty"`
	StateInteractions   *StateInteractions `json:"state_interactions,omitempty"`
	Permissions         *Permissions       `json:"permissions,omitempty"`
}

// CommandOption is a single flag of a command or subcommand. At least one
// of Short, Long, or Flag is set. A non-empty Arguments means the option
// consumes a following value token.
type CommandOption struct {
	Short        string `json:"short,omitempty"`
	Long         string `json:"long,omitempty"`
	Flag         string `json:"flag,omitempty"`
	Description  string `json:"description"`
	Arguments    string `json:"arguments,omitempty"`
	ArgumentType string `json:"argument_type,omitempty"`
	Default      string `json:"default,omitempty"`
	Example      string `json:"example,omitempty"`
}

// TakesValue reports whether the option consumes the next input token.
func (o *CommandOption) TakesValue() bool {
	return o.Arguments != ""
}

// Tokens returns the declared spellings of the option, raw (un-normalized).
func (o *CommandOption) Tokens() []string {
	tokens := make([]string, 0, 3)
	for _, t := range []string{o.Short, o.Long, o.Flag} {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Subcommand is a named sub-grammar of a command, with its own options.
type Subcommand struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []CommandOption `json:"options,omitempty"`
}

// ExitCode documents one exit status of the real tool.
type ExitCode struct {
	Code    int    `json:"code"`
	Meaning string `json:"meaning"`
}

// StateInteractions declares which simulated state domains a command reads
// and writes. Writes are the only way domain state ever changes.
type StateInteractions struct {
	ReadsFrom []StateEffect `json:"reads_from,omitempty"`
	WritesTo  []StateEffect `json:"writes_to,omitempty"`
}

// StateEffect names a state domain and the fields touched in it. A write
// effect may require a privilege level, optionally gated on specific flags.
type StateEffect struct {
	StateDomain       string   `json:"state_domain"`
	Fields            []string `json:"fields,omitempty"`
	RequiresPrivilege string   `json:"requires_privilege,omitempty"`
	RequiresFlags     []string `json:"requires_flags,omitempty"`
}

// Permissions carries the coarse free-text privilege hints present on
// definitions that predate structured state_interactions.
type Permissions struct {
	ReadOperations  string `json:"read_operations,omitempty"`
	WriteOperations string `json:"write_operations,omitempty"`
}

// Subcommand returns the declared subcommand with the given name.
func (d *CommandDefinition) Subcommand(name string) (*Subcommand, bool) {
	for i := range d.Subcommands {
		if d.Subcommands[i].Name == name {
			return &d.Subcommands[i], true
		}
	}
	return nil, false
}

// SubcommandNames returns the declared subcommand names in declaration order.
func (d *CommandDefinition) SubcommandNames() []string {
	names := make([]string, len(d.Subcommands))
	for i := range d.Subcommands {
		names[i] = d.Subcommands[i].Name
	}
	return names
}

// AllOptions returns the global options followed by every subcommand's
// options, in declaration order. This is the flat option universe used for
// flag validation and schema derivation.
func (d *CommandDefinition) AllOptions() []CommandOption {
	opts := make([]CommandOption, 0, len(d.GlobalOptions))
	opts = append(opts, d.GlobalOptions...)
	for i := range d.Subcommands {
		opts = append(opts, d.Subcommands[i].Options...)
	}
	return opts
}

// MentionsRootWrites reports whether the free-text write-operations hint
// names the root privilege level.
func (d *CommandDefinition) MentionsRootWrites() bool {
	if d.Permissions == nil {
		return false
	}
	return strings.Contains(strings.ToLower(d.Permissions.WriteOperations), "root")
}
