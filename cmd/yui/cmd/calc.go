package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dev-jelly/yui/pkg/calc"
	"github.com/spf13/cobra"
)

var (
	decimalMode bool
	evalExpr    string
)

var calcCmd = &cobra.Command{
	Use:   "calc [expression]",
	Short: "Evaluate a sandboxed Python-subset expression",
	Long: `Evaluate a Python-subset expression or short script against the
sandboxed calc evaluator.

Examples:
  # Evaluate an inline expression
  yui calc "1 + 2 * 3"

  # Evaluate with arbitrary-precision decimal arithmetic
  yui calc --decimal "1 / 3"

  # Evaluate a multi-line fragment from a file
  yui calc -e "$(cat script.calc)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().BoolVar(&decimalMode, "decimal", false, "use the arbitrary-precision decimal numeric domain instead of native int64/float64")
	calcCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading the positional argument")
}

func runCalc(_ *cobra.Command, args []string) error {
	source := evalExpr
	if source == "" {
		if len(args) != 1 {
			return fmt.Errorf("provide an expression as an argument or via -e")
		}
		source = args[0]
	}
	source = strings.TrimSpace(source)

	value, _, err := calc.Calculate(source, decimalMode)
	if err != nil {
		exitWithError("%s", err)
		return nil
	}
	if value != nil {
		fmt.Fprintln(os.Stdout, value.String())
	}
	return nil
}
