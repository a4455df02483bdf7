package main

import (
	"strings"

	"labsim/internal/catalog"
	"labsim/internal/grammar"
	"labsim/internal/session"
)

// parseLine splits a raw command line into the parts the session pipeline
// consumes. The flag schema drives value consumption: a flag declared to
// take an argument swallows the following token, so "nvidia-smi -i 0 -q"
// yields flags [-i, -q] and not a spurious "0" subcommand. Flags written
// as --flag=value are split at the first '='.
//
// For a command the registry does not know, every dash token is treated
// as a flag and nothing consumes values; the session rejects the command
// before the flags matter.
func parseLine(reg *catalog.Registry, line string) session.Parsed {
	p := session.Parsed{Raw: line}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p
	}
	p.Command = fields[0]

	var schema map[string]bool
	hasSubcommands := false
	if def, ok := reg.Get(p.Command); ok {
		schema, _ = grammar.BuildFlagSchema(def)
		hasSubcommands = len(def.Subcommands) > 0
	}

	for i := 1; i < len(fields); i++ {
		tok := fields[i]
		if isFlagToken(tok) {
			flag := tok
			if eq := strings.IndexByte(tok, '='); eq >= 0 {
				flag = tok[:eq]
			} else if schema[grammar.NormalizeToken(tok)] && i+1 < len(fields) && !isFlagToken(fields[i+1]) {
				i++ // the next token is this flag's value
			}
			p.Flags = append(p.Flags, flag)
			continue
		}
		if p.Subcommand == "" && hasSubcommands {
			p.Subcommand = tok
		}
		// Remaining positional arguments carry no grammar of their own.
	}
	return p
}

// isFlagToken reports whether a token is a flag spelling. Bare "-" and
// "--" are positional markers, not flags.
func isFlagToken(tok string) bool {
	return strings.HasPrefix(tok, "-") && tok != "-" && tok != "--"
}
