package msxml

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/testutil"
)

func TestRender_FreshSkeleton(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	p := testutil.NewTestProject("Greenfield", testutil.WithStartDate(start))
	a := testutil.NewTestTask(p.ID, "1", "Design")
	b := testutil.NewTestTask(p.ID, "2", "Build")
	b.Predecessors = []domain.PredecessorLink{
		*testutil.NewTestLink(b.ID, p.ID, "1", testutil.WithLag(2, domain.LagWorkingDays)),
	}

	out, err := Render(p, []*domain.Task{a, b})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<Name>Greenfield</Name>")
	assert.Contains(t, s, "<StartDate>2026-03-02T08:00:00</StartDate>")
	assert.Contains(t, s, "<OutlineNumber>1</OutlineNumber>")
	assert.Contains(t, s, "<PredecessorUID>1</PredecessorUID>")
	assert.Contains(t, s, "<LinkLag>2</LinkLag>")

	// The output must itself decode.
	doc, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "Greenfield", doc.Name)
	require.Len(t, doc.Tasks, 2)
	require.Len(t, doc.Tasks[1].Predecessors, 1)
	assert.Equal(t, "1", doc.Tasks[1].Predecessors[0].PredecessorOutline)
}

func TestRender_TasksEmittedInOutlineOrder(t *testing.T) {
	p := testutil.NewTestProject("Ordered")
	tasks := []*domain.Task{
		testutil.NewTestTask(p.ID, "1.10", "Late"),
		testutil.NewTestTask(p.ID, "1", "Root"),
		testutil.NewTestTask(p.ID, "1.2", "Early"),
	}

	out, err := Render(p, tasks)
	require.NoError(t, err)

	doc, err := Decode(out)
	require.NoError(t, err)
	outlines := make([]string, len(doc.Tasks))
	for i, task := range doc.Tasks {
		outlines[i] = task.OutlineNumber
	}
	assert.Equal(t, []string{"1", "1.2", "1.10"}, outlines)
}

func TestRender_TemplateSplicePreservesUnmodeledElements(t *testing.T) {
	tpl := `<?xml version="1.0"?><Project><Name>Old Name</Name>` +
		`<Author>PMO Office</Author>` +
		`<Tasks><Task><UID>1</UID><Name>Stale</Name><OutlineNumber>1</OutlineNumber></Task></Tasks>` +
		`<Calendars><Calendar/></Calendars></Project>`
	p := testutil.NewTestProject("New Name", testutil.WithTemplate(tpl))
	task := testutil.NewTestTask(p.ID, "1", "Fresh")

	out, err := Render(p, []*domain.Task{task})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<Author>PMO Office</Author>", "elements outside the task block survive")
	assert.Contains(t, s, "<Calendars><Calendar/></Calendars>", "trailing elements survive")
	assert.Contains(t, s, "<Name>New Name</Name>", "project name reflects current state")
	assert.NotContains(t, s, "Old Name")
	assert.NotContains(t, s, "Stale", "the task block is replaced wholesale")
	assert.Contains(t, s, "<Name>Fresh</Name>")
}

func TestRender_TemplateMetadataDatesRewritten(t *testing.T) {
	tpl := `<Project><Name>P</Name><StartDate>2020-01-01T08:00:00</StartDate>` +
		`<Tasks></Tasks></Project>`
	start := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	p := testutil.NewTestProject("P", testutil.WithTemplate(tpl), testutil.WithStartDate(start))

	out, err := Render(p, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<StartDate>2026-06-01T08:00:00</StartDate>")
	assert.NotContains(t, string(out), "2020-01-01")
}

func TestRender_TemplateWithoutTasksBlockGetsOne(t *testing.T) {
	tpl := `<Project><Name>P</Name></Project>`
	p := testutil.NewTestProject("P", testutil.WithTemplate(tpl))
	task := testutil.NewTestTask(p.ID, "1", "Only")

	out, err := Render(p, []*domain.Task{task})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<Tasks><Task>")
	assert.True(t, strings.HasSuffix(string(out), "</Project>"))
}

func TestRender_BrokenTemplates(t *testing.T) {
	p := testutil.NewTestProject("P", testutil.WithTemplate(`<Project><Name>P</Name>`))
	_, err := Render(p, nil)
	assert.Equal(t, domain.KindParse, domain.KindOf(err))

	p = testutil.NewTestProject("P", testutil.WithTemplate(`<Project><Tasks><Task/></Project>`))
	_, err = Render(p, nil)
	assert.Equal(t, domain.KindParse, domain.KindOf(err))
}

func TestRender_LinkToMissingOutlineSkipped(t *testing.T) {
	p := testutil.NewTestProject("P")
	task := testutil.NewTestTask(p.ID, "1", "A")
	task.Predecessors = []domain.PredecessorLink{
		*testutil.NewTestLink(task.ID, p.ID, "9"),
	}

	out, err := Render(p, []*domain.Task{task})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<PredecessorLink>")
}

func TestRender_EscapesMarkup(t *testing.T) {
	p := testutil.NewTestProject("R&D <2026>")
	task := testutil.NewTestTask(p.ID, "1", `Spec "review" & sign-off`)

	out, err := Render(p, []*domain.Task{task})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "<Name>R&amp;D &lt;2026&gt;</Name>")
	assert.Contains(t, s, "&amp; sign-off")

	doc, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "R&D <2026>", doc.Name)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, `Spec "review" & sign-off`, doc.Tasks[0].Name)
}
