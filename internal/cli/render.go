package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/internal/domain/colormetric"
	"github.com/okian/kitcheck/internal/domain/kits"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

func renderJSON(w io.Writer, r service.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func renderYAML(w io.Writer, r service.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// renderText prints a verdict line and one row per comparison, each color
// preceded by a swatch.
func renderText(w io.Writer, r service.Report) error {
	var b strings.Builder

	switch r.Status {
	case service.StatusOK:
		b.WriteString(okStyle.Render("OK") + "  " + r.Message + "\n")
		fmt.Fprintf(&b, "  team1 %s %s %s\n", r.Team1KitUsed, swatch(r.Team1Color), r.Team1Color)
		fmt.Fprintf(&b, "  team2 %s %s %s\n", r.Team2KitUsed, swatch(r.Team2Color), r.Team2Color)
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(r.Rule))
	case service.StatusConflict:
		b.WriteString(conflictStyle.Render("CONFLICT") + "  " + r.Message + "\n")
	default:
		b.WriteString(conflictStyle.Render("ERROR") + "  " + r.Error + "\n")
	}

	if len(r.Checks) > 0 {
		b.WriteString("\n" + headerStyle.Render(fmt.Sprintf("%-16s %-22s %-22s %7s %8s  %s",
			"stage", "base", "compare", "deltaE", "contrast", "verdict")) + "\n")
		for _, c := range r.Checks {
			verdict := okStyle.Render("clear")
			if c.Conflict {
				verdict = conflictStyle.Render("clash")
			}
			fmt.Fprintf(&b, "%-16s %s %s %7.2f %8.2f  %s\n",
				c.Stage,
				kitCell(c.Base),
				kitCell(c.Compare),
				c.Metrics.DeltaE,
				c.Metrics.ContrastRatio,
				verdict,
			)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// kitCell renders a swatch and "kit color" padded to a fixed width.
func kitCell(o kits.Option) string {
	text := fmt.Sprintf("%s %s", o.DisplayName, o.Color)
	return swatch(o.Color) + " " + fmt.Sprintf("%-19s", text)
}

// swatch is a two-cell block in the given color. Unparseable colors render blank.
func swatch(hex string) string {
	c, err := colormetric.Parse(hex)
	if err != nil {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
}
