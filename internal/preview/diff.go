package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a line diff of two documents with "-", "+" and " " prefixes.
// Returns "" when they are equal.
func Diff(before, after string, opts Options) string {
	if before == after {
		return ""
	}
	r := opts.renderer()
	deleted := r.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	added := r.NewStyle().Foreground(lipgloss.Color("#5fd75f"))

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out.WriteString(" " + line)
			case diffmatchpatch.DiffDelete:
				out.WriteString(deleted.Render("-" + line))
			case diffmatchpatch.DiffInsert:
				out.WriteString(added.Render("+" + line))
			}
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
