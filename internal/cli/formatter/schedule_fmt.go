package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronos/internal/contract"
)

// FormatValidationReport renders the validator output: a green all-clear or
// the full violation list.
func FormatValidationReport(r *contract.ValidationReport) string {
	if r.Valid {
		return StyleGreen.Render("✓ Project is valid.") + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("✗ %d validation errors", len(r.Errors))))
	b.WriteString("\n")
	for _, e := range r.Errors {
		loc := ""
		if e.OutlineNumber != "" {
			loc = fmt.Sprintf("[%s] ", e.OutlineNumber)
		}
		if e.Field != "" {
			loc += fmt.Sprintf("(%s) ", e.Field)
		}
		fmt.Fprintf(&b, "  %s %s%s\n", StyleRed.Render("•"), StyleYellow.Render(loc), e.Message)
	}
	return b.String()
}

// FormatSchedule renders a CPM result as a table plus the critical path.
func FormatSchedule(r *contract.ScheduleResult) string {
	var b strings.Builder
	b.WriteString(Header("Schedule"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Project duration: %s\n\n", Bold(FormatDays(r.ProjectDurationDays)))

	rows := make([][]string, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		rows = append(rows, []string{
			CriticalMark(t.Critical),
			t.Outline,
			t.Name,
			FormatDays(t.DurationDays),
			FormatDays(t.EarlyStart),
			FormatDays(t.EarlyFinish),
			FormatDays(t.LateStart),
			FormatDays(t.LateFinish),
			FormatDays(t.TotalFloat),
		})
	}
	b.WriteString(RenderTable(
		[]string{"", "OUTLINE", "NAME", "DUR", "ES", "EF", "LS", "LF", "FLOAT"},
		rows,
	))

	b.WriteString("\n")
	fmt.Fprintf(&b, "Critical path: %s\n", StyleRed.Render(strings.Join(r.CriticalPath, " → ")))
	return b.String()
}
