package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"labsim/internal/catalog"
	"labsim/internal/privilege"
)

var describeCmd = &cobra.Command{
	Use:   "describe [command]",
	Short: "Show the help summary for a catalog command",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	registry, err := loader.LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	def, ok := registry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	fmt.Print(catalog.HelpSummary(def, cfg.Display.OptionCap))

	reads, writes := privilege.NewResolver().TouchedDomains(def)
	if len(reads) > 0 {
		fmt.Printf("\nReads state:  %s\n", strings.Join(reads, ", "))
	}
	if len(writes) > 0 {
		fmt.Printf("Writes state: %s\n", strings.Join(writes, ", "))
	}
	return nil
}
