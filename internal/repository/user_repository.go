package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pinguinamart/internal/models"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.Name == "" {
		return fmt.Errorf("%w: user name required", ErrInvalidInput)
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, u.Email)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash required", ErrInvalidInput)
	}

	sql := `
		INSERT INTO users (
			name,
			email,
			password_hash,
			dob,
			created_at
	) VALUES ($1, $2, $3, $4, $5)
	RETURNING user_id
	`

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, sql,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.DOB,
		u.CreatedAt,
	).Scan(&u.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already exists", ErrDuplicate, u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			user_id,
			name,
			email,
			password_hash,
			dob,
			created_at
		FROM users WHERE user_id = $1
		`

	var user models.User

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.DOB,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}

	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			user_id,
			name,
			email,
			password_hash,
			dob,
			created_at
		FROM users WHERE email = $1
		`

	var user models.User

	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.DOB,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepo) CreateAdmin(ctx context.Context, a *models.Admin) error {
	if a.Name == "" {
		return fmt.Errorf("%w: admin name required", ErrInvalidInput)
	}
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, a.Email)
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("%w: password hash required", ErrInvalidInput)
	}

	sql := `
		INSERT INTO admins (
			name,
			email,
			password_hash,
			created_at
	) VALUES ($1, $2, $3, $4)
	RETURNING admin_id
	`

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, sql,
		a.Name,
		a.Email,
		a.PasswordHash,
		a.CreatedAt,
	).Scan(&a.AdminID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: admin email %s already exists", ErrDuplicate, a.Email)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// 23505 is the postgres unique_violation code.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
