package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/testutil"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp
// directory. Unlike :memory:, a file-backed DB shares state across all
// connections in the pool, which is required to test real concurrent access
// with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that snapshot reads neither
// block nor observe half-written state while a writer builds up a schedule.
// WAL mode allows concurrent readers with a single writer.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	projects := NewSQLiteProjectRepo(database)
	tasks := NewSQLiteTaskRepo(database)

	proj := testutil.NewTestProject("ReadWrite")
	require.NoError(t, projects.Create(ctx, proj))

	var wg sync.WaitGroup

	// Writer goroutine: append 20 tasks sequentially.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 20; i++ {
			task := testutil.NewTestTask(proj.ID, fmt.Sprintf("%d", i), fmt.Sprintf("Task-%d", i))
			if err := tasks.Create(ctx, task); err != nil {
				t.Errorf("writer: create task %d: %v", i, err)
				return
			}
		}
	}()

	// Reader goroutines: repeatedly list the project while writes happen.
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				snapshot, err := tasks.ListByProject(ctx, proj.ID)
				if err != nil {
					t.Errorf("reader %d: list tasks: %v", reader, err)
					return
				}
				for _, task := range snapshot {
					if task.ID == "" || task.OutlineNumber == "" {
						t.Errorf("reader %d: got task with empty identity", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	count, err := tasks.CountByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}

// TestConcurrentAccess_ActiveFlagStaysSingular hammers the two-row active
// toggle from many transactions and verifies exactly one project ends up
// carrying the flag.
func TestConcurrentAccess_ActiveFlagStaysSingular(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	projects := NewSQLiteProjectRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	const projectCount = 8
	ids := make([]string, projectCount)
	for i := range ids {
		p := testutil.NewTestProject(fmt.Sprintf("Project-%d", i))
		require.NoError(t, projects.Create(ctx, p))
		ids[i] = p.ID
	}

	retryTx := func(fn func() error) error {
		const maxRetries = 10
		var err error
		for attempt := 0; attempt < maxRetries; attempt++ {
			if err = fn(); err == nil {
				return nil
			}
			time.Sleep(time.Millisecond * time.Duration(1<<attempt))
		}
		return err
	}

	const workers = 40
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					return NewSQLiteProjectRepo(tx).SetActive(ctx, ids[i%projectCount])
				})
			})
			if err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	all, err := projects.List(ctx)
	require.NoError(t, err)
	active := 0
	for _, p := range all {
		if p.IsActive {
			active++
		}
	}
	assert.Equal(t, 1, active, "exactly one project carries the active flag")

	_, err = projects.GetActive(ctx)
	assert.False(t, domain.IsNotFound(err))
}
