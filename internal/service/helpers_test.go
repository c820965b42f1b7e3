package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/optimizer"
	"github.com/alexanderramin/chronos/internal/testutil"
)

// setupEngine wires the full service facade on a fresh in-memory store.
func setupEngine(t *testing.T) (
	ProjectService,
	TaskService,
	ExchangeService,
	ScheduleService,
	OptimizeService,
	*sql.DB,
) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	locks := NewProjectLocks()
	return NewProjectService(database, uow, locks),
		NewTaskService(database, uow, locks),
		NewExchangeService(database, uow, locks),
		NewScheduleService(database),
		NewOptimizeService(database, uow, locks, optimizer.DefaultConfig()),
		database
}

func TestOutlineAfterSibling(t *testing.T) {
	// Deleting 1.2: 1.3 and 1.3.5 shift, 1.2.4 and 2 do not.
	assert.True(t, outlineAfterSibling("1.3", "1.2"))
	assert.True(t, outlineAfterSibling("1.3.5", "1.2"))
	assert.True(t, outlineAfterSibling("1.10", "1.2"))
	assert.False(t, outlineAfterSibling("1.2.4", "1.2"))
	assert.False(t, outlineAfterSibling("1.1", "1.2"))
	assert.False(t, outlineAfterSibling("2", "1.2"))
	assert.False(t, outlineAfterSibling("2.3", "1.2"))

	// Root-level delete.
	assert.True(t, outlineAfterSibling("3", "2"))
	assert.True(t, outlineAfterSibling("3.1.1", "2"))
	assert.False(t, outlineAfterSibling("1", "2"))
}

func TestShiftOutlineDown(t *testing.T) {
	assert.Equal(t, "1.2", shiftOutlineDown("1.3", 2))
	assert.Equal(t, "1.2.5", shiftOutlineDown("1.3.5", 2))
	assert.Equal(t, "2", shiftOutlineDown("3", 1))
	assert.Equal(t, "2.1.1", shiftOutlineDown("3.1.1", 1))
	assert.Equal(t, "1.9", shiftOutlineDown("1.10", 2))
}

func TestNextUID(t *testing.T) {
	tasks := []*domain.Task{
		{UID: "3"},
		{UID: "12"},
		{UID: "abc"},
		{UID: ""},
	}
	assert.Equal(t, "13", nextUID(tasks))
	assert.Equal(t, "1", nextUID(nil))
}
