package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v: %v", args, err)
	}
	return buf.String()
}

func TestTipCommand(t *testing.T) {
	out := runCommand(t, "tip", "--amount", "100", "--percent", "15")

	for _, want := range []string{"Amount: 100.00", "Tip (15%): 15.00", "Total: 115.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTipCommandHalfUpRounding(t *testing.T) {
	out := runCommand(t, "tip", "--amount", "1", "--percent", "0.5")

	if !strings.Contains(out, "Tip (0.5%): 0.01") {
		t.Errorf("expected half-cent tip to round up, got:\n%s", out)
	}
}

func TestTipCommandRejectsNegativeAmount(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tip", "--amount=-100", "--percent", "15"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestPayCommand(t *testing.T) {
	out := runCommand(t, "pay", "--hours", "40", "--rate", "15.50")

	for _, want := range []string{"Hours: 40.00", "Rate: 15.50", "Pay: 620.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
