package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/chronos/internal/db"
	"github.com/alexanderramin/chronos/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo over a DBTX.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(dbtx db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: dbtx}
}

const projectColumns = `id, name, start_date, status_date, is_active, xml_template, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.StatusDate, time.RFC3339),
		boolToInt(p.IsActive),
		p.XMLTemplate,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) GetActive(ctx context.Context) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE is_active = 1`)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProjectFromRows(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, start_date = ?, status_date = ?, xml_template = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		nullableTimeToString(p.StartDate, time.RFC3339),
		nullableTimeToString(p.StatusDate, time.RFC3339),
		p.XMLTemplate,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("project %s not found", p.ID)
	}
	return nil
}

func (r *SQLiteProjectRepo) SetActive(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE projects SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("clearing active flag: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET is_active = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("setting active flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("project %s not found", id)
	}
	return nil
}

func (r *SQLiteProjectRepo) MostRecentlyUpdated(ctx context.Context) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY updated_at DESC, id LIMIT 1`)
	p, err := scanProject(row)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}

func (r *SQLiteProjectRepo) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touching project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundErr("project %s not found", id)
	}
	return nil
}

// scanProject scans a single project row from a *sql.Row.
func scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	var startDateStr, statusDateStr sql.NullString
	var createdAtStr, updatedAtStr string
	var isActive int

	err := row.Scan(
		&p.ID, &p.Name,
		&startDateStr, &statusDateStr,
		&isActive, &p.XMLTemplate,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundErr("project not found")
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return buildProject(&p, startDateStr, statusDateStr, isActive, createdAtStr, updatedAtStr)
}

// scanProjectFromRows scans a single project row from *sql.Rows.
func scanProjectFromRows(rows *sql.Rows) (*domain.Project, error) {
	var p domain.Project
	var startDateStr, statusDateStr sql.NullString
	var createdAtStr, updatedAtStr string
	var isActive int

	err := rows.Scan(
		&p.ID, &p.Name,
		&startDateStr, &statusDateStr,
		&isActive, &p.XMLTemplate,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning project row: %w", err)
	}
	return buildProject(&p, startDateStr, statusDateStr, isActive, createdAtStr, updatedAtStr)
}

func buildProject(p *domain.Project, startDate, statusDate sql.NullString, isActive int, createdAt, updatedAt string) (*domain.Project, error) {
	p.IsActive = intToBool(isActive)
	p.StartDate = parseNullableTime(startDate, time.RFC3339)
	p.StatusDate = parseNullableTime(statusDate, time.RFC3339)

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return p, nil
}
