package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labsim/internal/grammar"
)

var validateCmd = &cobra.Command{
	Use:   "validate [command line]",
	Short: "Validate a command line without executing it",
	Long: `Checks a command line against the definition catalog and reports
grammar problems with typo suggestions. Nothing is executed and no
state changes.

Example:
  labsim validate -- nvidia-smi --qurey`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	if _, err := loader.LoadAll(cmd.Context()); err != nil {
		return err
	}
	registry, _ := loader.Registry()
	validator := grammar.NewValidator(loader)

	line := strings.Join(args, " ")
	p := parseLine(registry, line)

	if !registry.Has(p.Command) {
		fmt.Printf("%s: command not found\n", p.Command)
		return nil
	}

	ok := true
	for _, flag := range p.Flags {
		res := validator.ValidateFlag(p.Command, flag)
		if res.Valid() {
			continue
		}
		ok = false
		fmt.Printf("unrecognized option '%s'%s\n", flag, didYouMean(res.Suggestions))
	}
	if p.Subcommand != "" {
		res := validator.ValidateSubcommand(p.Command, p.Subcommand)
		if !res.Valid() {
			ok = false
			fmt.Printf("unknown subcommand '%s'%s\n", p.Subcommand, didYouMean(res.Suggestions))
		}
	}
	if ok {
		fmt.Println("ok")
	}
	return nil
}

func didYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return fmt.Sprintf(" - did you mean '%s'?", strings.Join(suggestions, "', '"))
}
