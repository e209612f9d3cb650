package cmd

import (
	"fmt"
	"os"

	"github.com/darkron008/tipsplit/internal/output"
	"github.com/darkron008/tipsplit/internal/pipeline"
	"github.com/darkron008/tipsplit/internal/watcher"
	"github.com/spf13/cobra"
)

var splitOut string

var splitCmd = &cobra.Command{
	Use:   "split [files...]",
	Short: "Distribute tips from one or more spreadsheets",
	Long: `Read shift spreadsheets (.xlsx or .csv, globs allowed), merge their
records, and print each employee's share of every day's tip pool.

Examples:
  tipsplit split shifts.xlsx
  tipsplit split "uploads/*.csv" --out summary.xlsx
  tipsplit split front.csv back.csv --tips-col "Pooled Tips" --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVar(&splitOut, "out", "", "write an xlsx summary workbook to this path")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched: %v", args)
	}

	res := pipeline.Run(paths, runOptions())

	if err := newRenderer().Render(res); err != nil {
		return err
	}

	if splitOut != "" {
		if err := output.WriteWorkbook(res.Result, splitOut); err != nil {
			return fmt.Errorf("failed to write %s: %w", splitOut, err)
		}
		fmt.Fprintf(os.Stderr, "💰 wrote %s\n", splitOut)
	}

	return nil
}

// expandArgs resolves glob patterns; plain paths pass through untouched.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := watcher.Expand(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// Not a pattern; let the pipeline report the missing file.
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
