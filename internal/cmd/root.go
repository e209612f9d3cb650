package cmd

import (
	"fmt"
	"os"

	"github.com/darkron008/tipsplit/internal/model"
	"github.com/darkron008/tipsplit/internal/output"
	"github.com/darkron008/tipsplit/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	outputFmt string

	// Manual column overrides, applied to every input table.
	dateCol  string
	tipsCol  string
	hoursCol string
	nameCol  string
	noDetect bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "tipsplit",
	Short: "Tipsplit — pooled tip distribution by hours worked",
	Long: `Tipsplit reads shift spreadsheets, figures out which columns hold the
shift date, daily tip total, hours worked, and employee name — even when the
headers don't match — and splits each day's tip pool across employees in
proportion to their hours, reconciled to the cent.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.tipsplit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVar(&dateCol, "date-col", "", "header holding the shift date")
	rootCmd.PersistentFlags().StringVar(&tipsCol, "tips-col", "", "header holding the daily tip total")
	rootCmd.PersistentFlags().StringVar(&hoursCol, "hours-col", "", "header holding the hours worked")
	rootCmd.PersistentFlags().StringVar(&nameCol, "name-col", "", "header holding the employee name")
	rootCmd.PersistentFlags().BoolVar(&noDetect, "no-detect", false, "disable column auto-detection (overrides only)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".tipsplit")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// runOptions assembles pipeline options from flags and config.
func runOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.AutoDetect = !noDetect

	if viper.IsSet("fuzzy_threshold") {
		opts.Resolver.Threshold = viper.GetFloat64("fuzzy_threshold")
	}
	// Config may replace the matching vocabulary per field, e.g.
	//   keywords:
	//     employee_name: [mitarbeiter, kellner]
	if viper.IsSet("keywords") {
		for name, tokens := range viper.GetStringMapStringSlice("keywords") {
			for _, f := range model.Fields() {
				if string(f) == name {
					opts.Resolver.Keywords[f] = tokens
				}
			}
		}
	}

	overrides := make(model.FieldMapping)
	for f, v := range map[model.Field]string{
		model.FieldShiftDate:     dateCol,
		model.FieldDailyTipTotal: tipsCol,
		model.FieldHoursWorked:   hoursCol,
		model.FieldEmployeeName:  nameCol,
	} {
		if v != "" {
			overrides[f] = v
		}
	}
	if len(overrides) > 0 {
		opts.Overrides = overrides
	}

	return opts
}

// newRenderer picks the renderer for the --output flag.
func newRenderer() output.Renderer {
	if outputFmt == "json" {
		return output.NewJSONRenderer()
	}
	return output.NewTextRenderer()
}
