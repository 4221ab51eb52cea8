package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tyrchen/codebank/internal/config"
)

var (
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codebank",
	Short: "Generate code banks from source code",
	Long: `CodeBank parses a directory of Rust, Python, TypeScript/JavaScript,
Go, C and C++ sources and emits a single Markdown document that
concatenates or summarizes them under a chosen strategy.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads .codebank.yaml and environment overrides.
func initConfig() {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		loaded = config.Default()
	}
	cfg = loaded
	if cfg.Verbose && !rootCmd.PersistentFlags().Changed("verbose") {
		verbose = true
	}
}
