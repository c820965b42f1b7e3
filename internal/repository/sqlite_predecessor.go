package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
)

// SQLitePredecessorRepo implements PredecessorRepo over a DBTX.
type SQLitePredecessorRepo struct {
	db db.DBTX
}

// NewSQLitePredecessorRepo creates a new SQLitePredecessorRepo.
func NewSQLitePredecessorRepo(dbtx db.DBTX) *SQLitePredecessorRepo {
	return &SQLitePredecessorRepo{db: dbtx}
}

const predecessorColumns = `id, task_id, project_id, outline_number, type, lag, lag_format`

func (r *SQLitePredecessorRepo) Create(ctx context.Context, l *domain.PredecessorLink) error {
	query := `INSERT INTO predecessors (task_id, project_id, outline_number, type, lag, lag_format)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		l.TaskID, l.ProjectID, l.PredecessorOutline, int(l.Type), l.Lag, int(l.LagFormat))
	if err != nil {
		return fmt.Errorf("inserting predecessor link: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		l.ID = id
	}
	return nil
}

func (r *SQLitePredecessorRepo) ListByTask(ctx context.Context, taskID string) ([]domain.PredecessorLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+predecessorColumns+` FROM predecessors WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task predecessors: %w", err)
	}
	defer rows.Close()
	return scanPredecessors(rows)
}

func (r *SQLitePredecessorRepo) ListByProject(ctx context.Context, projectID string) ([]domain.PredecessorLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+predecessorColumns+` FROM predecessors WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project predecessors: %w", err)
	}
	defer rows.Close()
	return scanPredecessors(rows)
}

func (r *SQLitePredecessorRepo) UpdateLag(ctx context.Context, taskID, outline string, linkType domain.LinkType, lag int, format domain.LagFormat) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE predecessors SET lag = ?, lag_format = ? WHERE task_id = ? AND outline_number = ? AND type = ?`,
		lag, int(format), taskID, outline, int(linkType))
	if err != nil {
		return fmt.Errorf("updating link lag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("link %s %s on task %s not found", linkType, outline, taskID)
	}
	return nil
}

func (r *SQLitePredecessorRepo) RewriteOutlineRef(ctx context.Context, projectID, oldOutline, newOutline string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE predecessors SET outline_number = ? WHERE project_id = ? AND outline_number = ?`,
		newOutline, projectID, oldOutline)
	if err != nil {
		return fmt.Errorf("rewriting link back-references: %w", err)
	}
	return nil
}

func (r *SQLitePredecessorRepo) DeleteByOutlineRef(ctx context.Context, projectID, outline string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM predecessors WHERE project_id = ? AND outline_number = ?`, projectID, outline)
	if err != nil {
		return fmt.Errorf("deleting links by back-reference: %w", err)
	}
	return nil
}

func (r *SQLitePredecessorRepo) Delete(ctx context.Context, taskID, outline string, linkType domain.LinkType) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM predecessors WHERE task_id = ? AND outline_number = ? AND type = ?`,
		taskID, outline, int(linkType))
	if err != nil {
		return fmt.Errorf("deleting predecessor link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("link %s %s on task %s not found", linkType, outline, taskID)
	}
	return nil
}

func (r *SQLitePredecessorRepo) DeleteByTask(ctx context.Context, taskID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM predecessors WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("deleting task links: %w", err)
	}
	return nil
}

// scanPredecessors scans multiple link rows from *sql.Rows.
func scanPredecessors(rows *sql.Rows) ([]domain.PredecessorLink, error) {
	var links []domain.PredecessorLink
	for rows.Next() {
		var l domain.PredecessorLink
		var linkType, lagFormat int
		if err := rows.Scan(&l.ID, &l.TaskID, &l.ProjectID, &l.PredecessorOutline, &linkType, &l.Lag, &lagFormat); err != nil {
			return nil, fmt.Errorf("scanning predecessor link: %w", err)
		}
		l.Type = domain.LinkType(linkType)
		l.LagFormat = domain.LagFormat(lagFormat)
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predecessor links: %w", err)
	}
	return links, nil
}
