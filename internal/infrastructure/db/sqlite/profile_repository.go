package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doable/dashboard/internal/core/domain"
)

const profileColumns = `id, full_name, role, created_at`

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, role, created_at)
		VALUES (?, ?, ?, ?)`,
		p.ID, nullString(p.FullName), string(p.Role), formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id IN (`+placeholders+`)`, args...)
}

// ListByRole returns profiles with role, oldest first.
func (r *ProfileRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = ? ORDER BY created_at ASC`, string(role))
}

func (r *ProfileRepository) UpdateFullName(ctx context.Context, id, fullName string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET full_name = ? WHERE id = ?`, nullString(fullName), id)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ProfileRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*domain.Profile, error) {
	var p domain.Profile
	var fullName sql.NullString
	var role, createdAt string
	if err := s.Scan(&p.ID, &fullName, &role, &createdAt); err != nil {
		return nil, err
	}
	p.FullName = fullName.String
	p.Role = domain.Role(role)
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = t
	return &p, nil
}
