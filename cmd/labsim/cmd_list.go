package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labsim/internal/catalog"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the commands in the definition catalog",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "only show one category (gpu, infiniband, bmc, scheduler, container, diagnostic, system)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	registry, err := loader.LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	categories := registry.Categories()
	if listCategory != "" {
		categories = []catalog.Category{catalog.Category(listCategory)}
	}

	for _, cat := range categories {
		defs := registry.ByCategory(cat)
		if len(defs) == 0 {
			continue
		}
		fmt.Printf("%s:\n", cat)
		for _, def := range defs {
			fmt.Printf("  %-14s %s\n", def.Command, def.Description)
		}
	}
	return nil
}
