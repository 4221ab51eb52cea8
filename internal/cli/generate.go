package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tyrchen/codebank/internal/bank"
	"github.com/tyrchen/codebank/internal/parser"
)

var (
	strategyFlag string
	outputFlag   string
)

// generateCmd produces a code bank on stdout or into --output.
var generateCmd = &cobra.Command{
	Use:   "generate <path>",
	Short: "Generate a code bank for a directory",
	Long: `Parse every supported source file under the given directory and print
the assembled Markdown document.

Strategies:
  default   full source for every file
  no-tests  full source with test units stripped
  summary   public interfaces only, with placeholder bodies

Example:
  codebank generate ./src --strategy summary`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := runGenerate(args[0])
		if err != nil {
			return err
		}
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outputFlag, err)
			}
			fmt.Fprintf(os.Stderr, "Code bank written to %s\n", outputFlag)
			return nil
		}
		fmt.Print(content)
		return nil
	},
}

// generateFileCmd writes a code bank straight to a file.
var generateFileCmd = &cobra.Command{
	Use:   "generate-file <path> <output>",
	Short: "Generate a code bank and write it to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := runGenerate(args[0])
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[1], err)
		}
		fmt.Fprintf(os.Stderr, "Code bank written to %s\n", args[1])
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, generateFileCmd} {
		cmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "", "generation strategy (default|summary|no-tests)")
	}
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (stdout if not provided)")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(generateFileCmd)
}

func runGenerate(root string) (string, error) {
	spelling := strategyFlag
	if spelling == "" {
		spelling = cfg.Strategy
	}
	strategy, ok := parser.ParseStrategy(spelling)
	if !ok {
		return "", fmt.Errorf("invalid strategy %q (choose default, summary or no-tests)", spelling)
	}

	b, err := bank.New()
	if err != nil {
		return "", err
	}

	generateCfg := &bank.Config{
		RootDir:    root,
		Strategy:   strategy,
		IgnoreDirs: cfg.Ignore,
	}
	if verbose {
		generateCfg.Progress = newProgress()
	}
	return b.Generate(generateCfg)
}
