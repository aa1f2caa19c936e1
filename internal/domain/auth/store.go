package auth

import (
	"context"
	"strings"

	"hrms/internal/platform/db"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	EmployeeID   string
}

type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, role, COALESCE(employee_id::text, '')
    FROM users
    WHERE email = $1
  `, email).Scan(&out.ID, &out.Email, &out.PasswordHash, &out.Role, &out.EmployeeID)
	if db.IsNoRows(err) {
		return User{}, ErrInvalidCredentials
	}
	return out, err
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *Store) EnsureAdmin(ctx context.Context, userID, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, email, password_hash, role)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (email) DO NOTHING
  `, userID, email, hash, RoleAdmin)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
