package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/optimizer"
	"github.com/alexanderramin/chronos/internal/service"
	"github.com/alexanderramin/chronos/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	locks := service.NewProjectLocks()

	return &App{
		Projects: service.NewProjectService(database, uow, locks),
		Tasks:    service.NewTaskService(database, uow, locks),
		Exchange: service.NewExchangeService(database, uow, locks),
		Schedule: service.NewScheduleService(database),
		Optimize: service.NewOptimizeService(database, uow, locks, optimizer.DefaultConfig()),
	}
}

// executeCmd runs a cobra command; handler output goes to stdout, cobra's own
// messages are captured.
func executeCmd(app *App, args ...string) error {
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	return root.Execute()
}

func TestProjectAddAndSwitchCommands(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	require.NoError(t, executeCmd(app, "project", "add", "--name", "Alpha"))
	require.NoError(t, executeCmd(app, "project", "add", "--name", "Beta", "--start", "2026-03-02"))

	projects, err := app.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	var beta *domain.Project
	for _, p := range projects {
		if p.Name == "Beta" {
			beta = p
		}
	}
	require.NotNil(t, beta)
	require.NotNil(t, beta.StartDate)

	// Switch by ID prefix.
	require.NoError(t, executeCmd(app, "project", "switch", beta.ID[:8]))

	meta, err := app.Projects.GetMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, beta.ID, meta.ProjectID)
}

func TestProjectAddRequiresName(t *testing.T) {
	app := testApp(t)
	err := executeCmd(app, "project", "add")
	assert.Error(t, err)
}

func TestTaskAddUpdateRemoveCommands(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	require.NoError(t, executeCmd(app, "project", "add", "--name", "Alpha"))
	require.NoError(t, executeCmd(app, "task", "add", "--name", "Design", "--outline", "1"))
	require.NoError(t, executeCmd(app, "task", "add", "--name", "Build", "--outline", "2",
		"--duration", "PT16H0M0S", "--predecessor", "1:FS:2:7"))

	tasks, err := app.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "PT16H0M0S", tasks[1].Duration)
	require.Len(t, tasks[1].Predecessors, 1)
	assert.Equal(t, 2, tasks[1].Predecessors[0].Lag)

	require.NoError(t, executeCmd(app, "task", "update", "2", "--percent", "50"))
	tasks, err = app.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, tasks[1].PercentDone)

	require.NoError(t, executeCmd(app, "task", "remove", "1"))
	tasks, err = app.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", tasks[0].OutlineNumber, "sibling renumbered")
	assert.Empty(t, tasks[0].Predecessors, "link to removed task dropped")
}

func TestValidateAndCPMCommands(t *testing.T) {
	app := testApp(t)

	require.NoError(t, executeCmd(app, "project", "add", "--name", "Alpha"))
	require.NoError(t, executeCmd(app, "task", "add", "--name", "Design", "--outline", "1"))
	require.NoError(t, executeCmd(app, "validate"))
	require.NoError(t, executeCmd(app, "cpm"))
}

func TestOptimizeApplyCommand(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	require.NoError(t, executeCmd(app, "project", "add", "--name", "Alpha"))
	require.NoError(t, executeCmd(app, "task", "add", "--name", "Design", "--outline", "1",
		"--duration", "PT40H0M0S"))
	require.NoError(t, executeCmd(app, "task", "add", "--name", "Build", "--outline", "2",
		"--duration", "PT40H0M0S", "--predecessor", "1:FS:5:7"))

	require.NoError(t, executeCmd(app, "optimize", "apply", "--target", "13"))

	result, err := app.Schedule.ComputeCPM(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 13.0, result.ProjectDurationDays, 1e-9)
}

func TestParsePredecessor(t *testing.T) {
	link, err := parsePredecessor("1.2")
	require.NoError(t, err)
	assert.Equal(t, "1.2", link.PredecessorOutline)
	assert.Equal(t, domain.LinkFS, link.Type)
	assert.Equal(t, 0, link.Lag)
	assert.Equal(t, domain.LagWorkingDays, link.LagFormat)

	link, err = parsePredecessor("3:ss:5:8")
	require.NoError(t, err)
	assert.Equal(t, domain.LinkSS, link.Type)
	assert.Equal(t, 5, link.Lag)
	assert.Equal(t, domain.LagElapsedDays, link.LagFormat)

	_, err = parsePredecessor(":FS")
	assert.Error(t, err)
	_, err = parsePredecessor("1:XX")
	assert.Error(t, err)
	_, err = parsePredecessor("1:FS:abc")
	assert.Error(t, err)
	_, err = parsePredecessor("1:FS:0:99")
	assert.Error(t, err)
}
