package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doable/dashboard/internal/core/domain"
)

type IdentityRepository struct {
	db *DB
}

func NewIdentityRepository(db *DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		identity.ID, identity.Email, identity.PasswordHash, formatTime(identity.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrIdentityExists
	}
	if err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) findOne(ctx context.Context, where string, arg any) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM identities WHERE `+where, arg)

	var identity domain.Identity
	var createdAt string
	err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if identity.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("find identity: created_at: %w", err)
	}
	return &identity, nil
}
