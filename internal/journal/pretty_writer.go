// PrettyWriter prints human-friendly, colorized turns.
package journal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	tsStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sceneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	modelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
)

// PrettyWriter renders turn rows for a terminal.
type PrettyWriter struct {
	out   io.Writer
	width int
}

// NewPrettyWriter creates a PrettyWriter writing to os.Stdout, wrapping
// narration at width columns.
func NewPrettyWriter(width int) *PrettyWriter {
	return &PrettyWriter{out: os.Stdout, width: width}
}

// WriteTurn implements Writer.
func (w *PrettyWriter) WriteTurn(row TurnRow) error {
	model := modelStyle.Render(row.ModelUsed)
	if row.Fallback {
		model = fallbackStyle.Render(row.ModelUsed)
	}
	_, err := fmt.Fprintf(w.out, "%s %s %s\n%s\n%s\n%s\n\n",
		tsStyle.Render("["+row.Timestamp.Format(time.RFC3339)+"]"),
		sceneStyle.Render(row.Scene),
		statsStyle.Render(fmt.Sprintf("day=%d cash=%d rep=%d staff=%d", row.Day, row.Cash, row.Reputation, row.StaffCount)),
		"> "+row.Action+"  ("+model+")",
		wordwrap.String(row.SceneText, w.width),
		urlStyle.Render(row.ImageURL),
	)
	return err
}
