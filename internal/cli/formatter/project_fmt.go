package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/domain"
)

// FormatProjectList renders the project table; the active project carries a
// green marker.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects. Create one with 'chronos project add' or 'chronos import'.") + "\n"
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		active := Dim(" ")
		if p.IsActive {
			active = StyleGreen.Render("●")
		}
		rows = append(rows, []string{
			active,
			p.DisplayID(),
			p.Name,
			FormatDate(p.StartDate),
			p.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return RenderTable([]string{"", "ID", "NAME", "START", "UPDATED"}, rows)
}

// FormatMetadata renders the active project summary.
func FormatMetadata(m *contract.Metadata) string {
	var b strings.Builder
	b.WriteString(Header("Project"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Bold(m.Name), Dim(m.ProjectID))
	fmt.Fprintf(&b, "Start:  %s\n", FormatDate(m.StartDate))
	fmt.Fprintf(&b, "Status: %s\n", FormatDate(m.StatusDate))
	fmt.Fprintf(&b, "Tasks:  %d\n", m.TaskCount)
	return b.String()
}

// FormatTaskList renders the active project's tasks in outline order, with
// indentation matching the hierarchy.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		indent := strings.Repeat("  ", t.OutlineLevel-1)
		name := indent + t.Name
		if t.Summary {
			name = indent + Bold(t.Name)
		}
		kind := ""
		switch {
		case t.Summary:
			kind = Dim("summary")
		case t.Milestone:
			kind = StyleBlue.Render("milestone")
		}
		preds := make([]string, 0, len(t.Predecessors))
		for _, l := range t.Predecessors {
			preds = append(preds, fmt.Sprintf("%s:%s", l.PredecessorOutline, l.Type))
		}
		rows = append(rows, []string{
			t.OutlineNumber,
			name,
			FormatDuration(t.Duration),
			fmt.Sprintf("%d%%", t.PercentDone),
			kind,
			strings.Join(preds, ", "),
		})
	}
	return RenderTable([]string{"OUTLINE", "NAME", "DURATION", "DONE", "KIND", "PREDECESSORS"}, rows)
}
