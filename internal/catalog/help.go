package catalog

import (
	"fmt"
	"strings"
)

// HelpSummary renders the learner-facing help text for a definition.
// Option lists beyond optionCap entries are summarized with a "+N more"
// count rather than rendered in full; optionCap <= 0 means no cap.
func HelpSummary(def *CommandDefinition, optionCap int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n", def.Command, def.Description)
	if def.Synopsis != "" {
		fmt.Fprintf(&b, "\nUsage: %s\n", def.Synopsis)
	}

	if len(def.GlobalOptions) > 0 {
		b.WriteString("\nOptions:\n")
		writeOptions(&b, def.GlobalOptions, optionCap)
	}

	if len(def.Subcommands) > 0 {
		b.WriteString("\nSubcommands:\n")
		for i := range def.Subcommands {
			sub := &def.Subcommands[i]
			fmt.Fprintf(&b, "  %-14s %s\n", sub.Name, sub.Description)
		}
	}

	if len(def.CommonUsagePatterns) > 0 {
		b.WriteString("\nExamples:\n")
		for _, pattern := range def.CommonUsagePatterns {
			fmt.Fprintf(&b, "  %s\n", pattern)
		}
	}

	return b.String()
}

func writeOptions(b *strings.Builder, opts []CommandOption, limit int) {
	shown := len(opts)
	if limit > 0 && shown > limit {
		shown = limit
	}
	for i := 0; i < shown; i++ {
		fmt.Fprintf(b, "  %-18s %s\n", optionSpelling(&opts[i]), opts[i].Description)
	}
	if remaining := len(opts) - shown; remaining > 0 {
		fmt.Fprintf(b, "  ... +%d more\n", remaining)
	}
}

// optionSpelling formats the canonical display form of an option, e.g.
// "-q, --query" or "-pm <0|1>".
func optionSpelling(o *CommandOption) string {
	var parts []string
	if o.Short != "" {
		parts = append(parts, "-"+o.Short)
	}
	if o.Long != "" {
		parts = append(parts, "--"+o.Long)
	}
	if o.Flag != "" {
		parts = append(parts, "-"+o.Flag)
	}
	spelling := strings.Join(parts, ", ")
	if o.Arguments != "" {
		spelling += " " + o.Arguments
	}
	return spelling
}
