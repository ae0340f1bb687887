package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/diabeto/patient-registry/internal/model"
	"github.com/diabeto/patient-registry/internal/utils"
)

// PhysicianRepo is the credential store. It persists physician accounts in
// the 'medecins' table and never sees a clear-text password beyond the
// bcrypt call in Create.
type PhysicianRepo struct{ DB *sql.DB }

func NewPhysicianRepo(db *sql.DB) *PhysicianRepo { return &PhysicianRepo{DB: db} }

// Create hashes the raw password and inserts the physician, returning its ID.
// A duplicate username or email maps to ErrPhysicianExists.
func (r *PhysicianRepo) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO medecins (username, email, password_hash) VALUES (?,?,?)",
		username, email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrPhysicianExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a physician by username.
func (r *PhysicianRepo) GetByUsername(ctx context.Context, username string) (model.Physician, error) {
	username = strings.TrimSpace(username)
	var p model.Physician
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,created_at FROM medecins WHERE username=? LIMIT 1",
		username).Scan(&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.CreatedAt)
	return p, err
}

// GetByID fetches a physician by id.
func (r *PhysicianRepo) GetByID(ctx context.Context, id uint64) (model.Physician, error) {
	var p model.Physician
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,created_at FROM medecins WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.CreatedAt)
	return p, err
}

// Exists reports whether a physician with the given username or email is
// already registered. Used by the seeder to stay idempotent.
func (r *PhysicianRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM medecins WHERE username=? OR email=? LIMIT 1",
		strings.TrimSpace(username), strings.TrimSpace(email)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
