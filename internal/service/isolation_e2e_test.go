package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chronos/internal/testutil"
)

func TestIsolation_OverlappingOutlinesAcrossProjects(t *testing.T) {
	projectSvc, taskSvc, exchangeSvc, scheduleSvc, _, _ := setupEngine(t)
	ctx := context.Background()

	// Two projects using the same outline numbers.
	alphaTasks := make([]testutil.XMLTask, 0, 100)
	for i := 1; i <= 100; i++ {
		task := testutil.XMLTask{
			UID:     fmt.Sprintf("%d", i),
			Name:    fmt.Sprintf("Alpha %d", i),
			Outline: fmt.Sprintf("%d", i),
		}
		if i > 1 {
			task.Links = []testutil.XMLLink{
				{PredecessorUID: fmt.Sprintf("%d", i-1), Type: 1, LagFormat: 7},
			}
		}
		alphaTasks = append(alphaTasks, task)
	}
	alpha, err := exchangeSvc.Ingest(ctx, []byte(testutil.BuildProjectXML("Alpha", alphaTasks...)))
	require.NoError(t, err)

	beta, err := exchangeSvc.Ingest(ctx, []byte(testutil.BuildProjectXML("Beta",
		testutil.XMLTask{UID: "1", Name: "Beta 1", Outline: "1", Duration: "PT16H0M0S"},
		testutil.XMLTask{UID: "2", Name: "Beta 2", Outline: "2", Duration: "PT16H0M0S"},
	)))
	require.NoError(t, err)

	// Beta is now active; the 100 Alpha tasks with the same outlines must
	// not bleed through.
	tasks, err := taskSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Beta 1", tasks[0].Name)

	result, err := scheduleSvc.ComputeCPM(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, result.ProjectDurationDays, 1e-9)

	// Switch back: the full Alpha chain is intact.
	require.NoError(t, projectSvc.Switch(ctx, alpha.Project.ID))

	tasks, err = taskSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 100)

	result, err = scheduleSvc.ComputeCPM(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.ProjectDurationDays, 1e-9)
	assert.Len(t, result.CriticalPath, 100)

	// Deleting a Beta task while Alpha is active is a cross-project miss.
	require.NoError(t, projectSvc.Switch(ctx, beta.Project.ID))
	betaTasks, err := taskSvc.List(ctx)
	require.NoError(t, err)
	require.NoError(t, projectSvc.Switch(ctx, alpha.Project.ID))

	err = taskSvc.Delete(ctx, betaTasks[0].ID)
	require.Error(t, err)

	require.NoError(t, projectSvc.Switch(ctx, beta.Project.ID))
	tasks, err = taskSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "Beta untouched by the misdirected delete")
}

func TestIsolation_ConcurrentReadsDuringMutation(t *testing.T) {
	_, taskSvc, exchangeSvc, scheduleSvc, _, _ := setupEngine(t)
	ctx := context.Background()

	seedProject(t, exchangeSvc,
		testutil.XMLTask{UID: "1", Name: "A", Outline: "1"},
		testutil.XMLTask{UID: "2", Name: "B", Outline: "2",
			Links: []testutil.XMLLink{{PredecessorUID: "1", Type: 1, LagFormat: 7}}},
	)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := taskSvc.List(ctx); err != nil {
				errs <- err
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := scheduleSvc.ComputeCPM(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
