package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/darkron008/tipsplit/internal/pipeline"
)

// Renderer writes a completed run to an output stream.
type Renderer interface {
	Render(res pipeline.RunResult) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))  // cyan
	styleDate   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
	styleAmount = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))  // green
	styleTotal  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")) // yellow
	styleError  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")) // red
)

// TextRenderer prints the distribution as a colorized terminal table.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(res pipeline.RunResult) error {
	header := fmt.Sprintf("%-12s %-24s %10s %12s", "Date", "Employee", "Hours", "Tip Share")
	if _, err := fmt.Fprintln(r.w, styleHeader.Render(header)); err != nil {
		return err
	}

	for _, s := range res.Result.Shares {
		line := fmt.Sprintf("%s %-24s %10s %12s",
			styleDate.Render(fmt.Sprintf("%-12s", s.Date.Format("2006-01-02"))),
			s.Employee,
			s.Hours.StringFixed(2),
			styleAmount.Render(s.Amount.StringFixed(2)),
		)
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}

	if len(res.Result.Totals) > 0 {
		if _, err := fmt.Fprintln(r.w, styleHeader.Render("\nGrand totals")); err != nil {
			return err
		}
		for _, t := range res.Result.Totals {
			line := fmt.Sprintf("%-24s %12s", t.Employee, styleTotal.Render(t.Amount.StringFixed(2)))
			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
	}

	for _, msg := range res.Errors {
		if _, err := fmt.Fprintln(r.w, styleError.Render("! "+msg)); err != nil {
			return err
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints the whole run as one JSON document.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON to stdout.
func NewJSONRenderer() *JSONRenderer {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(res pipeline.RunResult) error {
	return r.enc.Encode(res)
}
