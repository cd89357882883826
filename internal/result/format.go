// Package result renders raw statement output as markdown for display.
package result

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
)

// MaxRows caps the number of data rows rendered in a table.
const MaxRows = 50

// errorMarker identifies raw output that reports a failure.
const errorMarker = "Erreur"

const fieldSeparator = ", "

// Format turns the raw text of a statement into its display form. query is the
// statement that produced raw. Blank header cells render as empty column names.
func Format(raw, query string) string {
	if raw == "" || strings.Contains(raw, errorMarker) {
		return raw
	}
	if strings.Contains(raw, db.SuccessMarker) {
		return fmt.Sprintf("✅ **%s**", raw)
	}

	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return raw
	}

	return markdownTable(lines)
}

func markdownTable(lines []string) string {
	headers := strings.Split(lines[0], fieldSeparator)
	rows := lines[1:]

	var sb strings.Builder
	sb.WriteString("### 📊 Résultats de la requête\n\n")
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")

	shown := min(MaxRows, len(rows))
	for _, line := range rows[:shown] {
		cells := fitRow(strings.Split(line, fieldSeparator), len(headers))
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if len(rows) > shown {
		sb.WriteString(fmt.Sprintf("\n*... et %d autres lignes*", len(rows)-shown))
	}
	sb.WriteString(fmt.Sprintf("\n\n**📈 Total: %d ligne(s)**", len(rows)))

	return sb.String()
}

// fitRow pads cells with empty strings or truncates them to width.
func fitRow(cells []string, width int) []string {
	if len(cells) >= width {
		return cells[:width]
	}
	out := make([]string, width)
	copy(out, cells)
	return out
}
