package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labworks/tracker/internal/model"
)

var (
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(name, email, role, passwordHash string) (string, error)
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Delete(id string) error
}

type userRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db, now: utcNow}
}

func (r *userRepository) Create(name, email, role, passwordHash string) (string, error) {
	id := uuid.New().String()
	query := `INSERT INTO users (id, name, email, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, id, strings.TrimSpace(name), normalizeEmail(email), role, passwordHash, r.now())
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateEmail
		}
		return "", err
	}

	return id, nil
}

// ByID returns nil without an error when no user matches.
func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ByEmail matches case-insensitively and returns nil without an error when no user matches.
func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE LOWER(email) = $1`

	err := r.db.Get(user, query, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the user; goals and activities go with it via ON DELETE CASCADE.
func (r *userRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation works for both SQLite and PostgreSQL
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

func utcNow() time.Time {
	return time.Now().UTC()
}
