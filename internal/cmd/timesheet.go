package cmd

import (
	"fmt"
	"os"

	"github.com/darkron008/tipsplit/internal/output"
	"github.com/darkron008/tipsplit/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	tsClock       string
	tsSales       string
	tsOut         string
	tsEmployeeCol string
	tsDateCol     string
	tsHoursCol    string
	tsTipsRow     string
	tsLabelCol    string
	tsStartCol    int
)

var timesheetCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Distribute tips from a punch-clock export and a sales report",
	Long: `Join two exports that arrive separately: a punch-clock timesheet with one
row per punch, and a pivoted sales report whose dates run across columns
with the day's tips in the "Tips" row. Hours are summed per employee per
day, matched to that day's pool by date, and split as usual.

Examples:
  tipsplit timesheet --clock punches.csv --sales sales.csv
  tipsplit timesheet --clock punches.xlsx --sales pos.xlsx --tips-row Gratuity --out summary.xlsx`,
	RunE: runTimesheet,
}

func init() {
	timesheetCmd.Flags().StringVar(&tsClock, "clock", "", "punch-clock export (.xlsx or .csv)")
	timesheetCmd.Flags().StringVar(&tsSales, "sales", "", "pivoted sales report (.xlsx or .csv)")
	timesheetCmd.Flags().StringVar(&tsOut, "out", "", "write an xlsx summary workbook to this path")
	timesheetCmd.Flags().StringVar(&tsEmployeeCol, "employee-col", "", "clock column holding the employee name")
	timesheetCmd.Flags().StringVar(&tsDateCol, "clock-date-col", "", "clock column holding the punch date")
	timesheetCmd.Flags().StringVar(&tsHoursCol, "clock-hours-col", "", "clock column holding the elapsed hours")
	timesheetCmd.Flags().StringVar(&tsTipsRow, "tips-row", "", "sales row label marking the tips row")
	timesheetCmd.Flags().StringVar(&tsLabelCol, "label-col", "", "sales column holding row labels")
	timesheetCmd.Flags().IntVar(&tsStartCol, "data-start-col", -1, "zero-based sales column where dates begin")
	_ = timesheetCmd.MarkFlagRequired("clock")
	_ = timesheetCmd.MarkFlagRequired("sales")
	rootCmd.AddCommand(timesheetCmd)
}

func runTimesheet(cmd *cobra.Command, args []string) error {
	opts := pipeline.DefaultTimesheetOptions()
	if tsEmployeeCol != "" {
		opts.Clock.EmployeeCol = tsEmployeeCol
	}
	if tsDateCol != "" {
		opts.Clock.DateCol = tsDateCol
	}
	if tsHoursCol != "" {
		opts.Clock.HoursCol = tsHoursCol
	}
	if tsTipsRow != "" {
		opts.Sales.TipsRowLabel = tsTipsRow
	}
	if tsLabelCol != "" {
		opts.Sales.LabelCol = tsLabelCol
	}
	if tsStartCol >= 0 {
		opts.Sales.DataStartCol = tsStartCol
	}

	res := pipeline.RunTimesheet(tsClock, tsSales, opts)

	if err := newRenderer().Render(res); err != nil {
		return err
	}

	if tsOut != "" {
		if err := output.WriteWorkbook(res.Result, tsOut); err != nil {
			return fmt.Errorf("failed to write %s: %w", tsOut, err)
		}
		fmt.Fprintf(os.Stderr, "💰 wrote %s\n", tsOut)
	}

	return nil
}
