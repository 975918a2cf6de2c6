package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/keepdataflow/sqlbox/internal/bootstrap"
)

// Styles contains the lipgloss styles for status output
type Styles struct {
	Header  lipgloss.Style
	Running lipgloss.Style
	Stopped lipgloss.Style
	Missing lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns the default status styles
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Running: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Stopped: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Missing: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// plainStyles returns pass-through styles for non-TTY output
func plainStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Running: lipgloss.NewStyle(),
		Stopped: lipgloss.NewStyle(),
		Missing: lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// renderStatusTable formats instance statuses as an aligned table, colored
// when stdout is a terminal.
func renderStatusTable(statuses []bootstrap.InstanceStatus) string {
	styles := plainStyles()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		styles = DefaultStyles()
	}

	headers := []string{"NAME", "ENGINE", "PORT", "STATUS", "CONTAINER", "IMAGE"}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			st.Instance.Name,
			st.Instance.Engine,
			fmt.Sprintf("%d", st.Instance.HostPort),
			liveStatus(st),
			shortContainerID(st.Instance.ContainerID),
			st.Instance.Image,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(styles.Header.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			rendered := pad(cell, widths[i])
			switch i {
			case 3: // status column
				rendered = statusStyle(styles, cell).Render(rendered)
			case 4: // container id
				rendered = styles.Dim.Render(rendered)
			}
			b.WriteString(rendered)
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func statusStyle(styles Styles, status string) lipgloss.Style {
	switch status {
	case "running":
		return styles.Running
	case "missing":
		return styles.Missing
	default:
		return styles.Stopped
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func shortContainerID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
