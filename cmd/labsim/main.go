package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"labsim/internal/catalog"
	"labsim/internal/config"
	"labsim/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	packDir    string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "labsim",
	Short: "labsim - simulated datacenter CLI trainer",
	Long: `labsim is the command interpreter behind the browser lab environment.

It validates learner command lines against declarative tool definitions
(nvidia-smi, ipmitool, scontrol, and friends), suggests fixes for typos,
enforces simulated privilege rules, and applies state effects to an
in-memory machine model. No real hardware is ever touched.

Run without arguments to start the interactive shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if packDir != "" {
			cfg.Pack.Dir = packDir
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Init(level, cfg.Logging.Development); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd, args)
	},
}

// newLoader builds the definition loader: embedded definitions plus the
// configured on-disk pack, if any.
func newLoader() *catalog.Loader {
	var extra []fs.FS
	if cfg.Pack.Dir != "" {
		extra = append(extra, os.DirFS(cfg.Pack.Dir))
	}
	return catalog.NewEmbeddedLoader(extra...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".labsim/config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&packDir, "pack-dir", "", "extra definition pack directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
