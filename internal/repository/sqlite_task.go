package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo over a DBTX. Every query predicates on
// project_id so no read or write can cross project boundaries.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

const taskColumns = `id, project_id, uid, name, outline_number, outline_level, duration, value,
	milestone, summary, percent_complete, start_date, finish_date,
	actual_start, actual_finish, actual_duration, create_date, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.UID,
		t.Name,
		t.OutlineNumber,
		t.OutlineLevel,
		t.Duration,
		t.Value,
		boolToInt(t.Milestone),
		boolToInt(t.Summary),
		t.PercentDone,
		nullableTimeToString(t.StartDate, time.RFC3339),
		nullableTimeToString(t.FinishDate, time.RFC3339),
		nullableTimeToString(t.ActualStart, time.RFC3339),
		nullableTimeToString(t.ActualFinish, time.RFC3339),
		t.ActualDuration,
		nullableTimeToString(t.CreateDate, time.RFC3339),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) GetByOutline(ctx context.Context, projectID, outline string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? AND outline_number = ?`,
		projectID, outline)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTaskFromRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	// Outline order is numeric per segment (1.2 before 1.10), which SQL
	// text ordering cannot express.
	sort.SliceStable(tasks, func(i, j int) bool {
		return domain.CompareOutlines(tasks[i].OutlineNumber, tasks[j].OutlineNumber) < 0
	})
	return tasks, nil
}

func (r *SQLiteTaskRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET uid = ?, name = ?, outline_number = ?, outline_level = ?,
		duration = ?, value = ?, milestone = ?, summary = ?, percent_complete = ?,
		start_date = ?, finish_date = ?, actual_start = ?, actual_finish = ?,
		actual_duration = ?, create_date = ?, updated_at = ?
		WHERE id = ? AND project_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.UID,
		t.Name,
		t.OutlineNumber,
		t.OutlineLevel,
		t.Duration,
		t.Value,
		boolToInt(t.Milestone),
		boolToInt(t.Summary),
		t.PercentDone,
		nullableTimeToString(t.StartDate, time.RFC3339),
		nullableTimeToString(t.FinishDate, time.RFC3339),
		nullableTimeToString(t.ActualStart, time.RFC3339),
		nullableTimeToString(t.ActualFinish, time.RFC3339),
		t.ActualDuration,
		nullableTimeToString(t.CreateDate, time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
		t.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("task %s not found", t.ID)
	}
	return nil
}

func (r *SQLiteTaskRepo) UpdateOutline(ctx context.Context, id, outline string, level int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET outline_number = ?, outline_level = ? WHERE id = ?`,
		outline, level, id)
	if err != nil {
		return fmt.Errorf("updating task outline: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("task %s not found", id)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("task %s not found", id)
	}
	return nil
}

func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	return nil
}

// scanTask scans a single task row from a *sql.Row.
func scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var milestone, summary int
	var startStr, finishStr, actualStartStr, actualFinishStr, createDateStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.UID, &t.Name,
		&t.OutlineNumber, &t.OutlineLevel,
		&t.Duration, &t.Value,
		&milestone, &summary, &t.PercentDone,
		&startStr, &finishStr,
		&actualStartStr, &actualFinishStr, &t.ActualDuration, &createDateStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundErr("task not found")
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return buildTask(&t, milestone, summary, startStr, finishStr, actualStartStr, actualFinishStr, createDateStr, createdAtStr, updatedAtStr)
}

// scanTaskFromRows scans a single task row from *sql.Rows.
func scanTaskFromRows(rows *sql.Rows) (*domain.Task, error) {
	var t domain.Task
	var milestone, summary int
	var startStr, finishStr, actualStartStr, actualFinishStr, createDateStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&t.ID, &t.ProjectID, &t.UID, &t.Name,
		&t.OutlineNumber, &t.OutlineLevel,
		&t.Duration, &t.Value,
		&milestone, &summary, &t.PercentDone,
		&startStr, &finishStr,
		&actualStartStr, &actualFinishStr, &t.ActualDuration, &createDateStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task row: %w", err)
	}
	return buildTask(&t, milestone, summary, startStr, finishStr, actualStartStr, actualFinishStr, createDateStr, createdAtStr, updatedAtStr)
}

func buildTask(t *domain.Task, milestone, summary int,
	start, finish, actualStart, actualFinish, createDate sql.NullString,
	createdAt, updatedAt string) (*domain.Task, error) {

	t.Milestone = intToBool(milestone)
	t.Summary = intToBool(summary)
	t.StartDate = parseNullableTime(start, time.RFC3339)
	t.FinishDate = parseNullableTime(finish, time.RFC3339)
	t.ActualStart = parseNullableTime(actualStart, time.RFC3339)
	t.ActualFinish = parseNullableTime(actualFinish, time.RFC3339)
	t.CreateDate = parseNullableTime(createDate, time.RFC3339)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return t, nil
}
