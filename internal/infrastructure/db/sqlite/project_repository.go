package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

const projectColumns = `id, name, description, status, client_name, client_email, budget, deadline, created_at`

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Status, p.ClientName, p.ClientEmail, p.Budget,
		formatTime(p.Deadline), formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE id IN (`+placeholders+`)`, args...)
}

// List returns all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
}

func (r *ProjectRepository) Count(ctx context.Context, createdBefore time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := `SELECT COUNT(*) FROM projects`
	var args []any
	if !createdBefore.IsZero() {
		q += ` WHERE created_at < ?`
		args = append(args, formatTime(createdBefore))
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, description = ?, status = ?, client_name = ?, client_email = ?, budget = ?, deadline = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Status, p.ClientName, p.ClientEmail, p.Budget, formatTime(p.Deadline), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var deadline, createdAt string
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.ClientName, &p.ClientEmail, &p.Budget, &deadline, &createdAt)
	if err != nil {
		return nil, err
	}
	if p.Deadline, err = parseTime(deadline); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}
