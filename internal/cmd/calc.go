package cmd

import (
	"fmt"

	"github.com/darkron008/tipsplit/internal/calc"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	tipAmount  string
	tipPercent string
	payHours   string
	payRate    string
)

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Compute the tip and total for a single bill",
	Example: `  tipsplit tip --amount 100 --percent 15
  tipsplit tip -a 55.55 -p 18`,
	RunE: runTip,
}

var payCmd = &cobra.Command{
	Use:     "pay",
	Short:   "Compute gross pay from hours and an hourly rate",
	Example: `  tipsplit pay --hours 40 --rate 15.50`,
	RunE:    runPay,
}

func init() {
	tipCmd.Flags().StringVarP(&tipAmount, "amount", "a", "", "bill amount")
	tipCmd.Flags().StringVarP(&tipPercent, "percent", "p", "15", "tip percentage")
	_ = tipCmd.MarkFlagRequired("amount")

	payCmd.Flags().StringVar(&payHours, "hours", "", "hours worked")
	payCmd.Flags().StringVar(&payRate, "rate", "", "hourly rate")
	_ = payCmd.MarkFlagRequired("hours")
	_ = payCmd.MarkFlagRequired("rate")

	rootCmd.AddCommand(tipCmd)
	rootCmd.AddCommand(payCmd)
}

func runTip(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(tipAmount)
	if err != nil {
		return fmt.Errorf("bad amount %q: %w", tipAmount, err)
	}
	percent, err := decimal.NewFromString(tipPercent)
	if err != nil {
		return fmt.Errorf("bad percent %q: %w", tipPercent, err)
	}

	tip, err := calc.Tip(amount, percent)
	if err != nil {
		return err
	}
	total, err := calc.Total(amount, percent)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Amount: %s\n", amount.StringFixed(2))
	fmt.Fprintf(out, "Tip (%s%%): %s\n", percent, tip.StringFixed(2))
	fmt.Fprintf(out, "Total: %s\n", total.StringFixed(2))
	return nil
}

func runPay(cmd *cobra.Command, args []string) error {
	hours, err := decimal.NewFromString(payHours)
	if err != nil {
		return fmt.Errorf("bad hours %q: %w", payHours, err)
	}
	rate, err := decimal.NewFromString(payRate)
	if err != nil {
		return fmt.Errorf("bad rate %q: %w", payRate, err)
	}

	pay, err := calc.Pay(hours, rate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Hours: %s\n", hours.StringFixed(2))
	fmt.Fprintf(out, "Rate: %s\n", rate.StringFixed(2))
	fmt.Fprintf(out, "Pay: %s\n", pay.StringFixed(2))
	return nil
}
