package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/storefront/pkg/auth"
	"github.com/ghuser/storefront/pkg/database"
	identitydomain "github.com/ghuser/storefront/services/identity/domain"
	"github.com/ghuser/storefront/services/identity/domain/models"
)

const uniqueViolation = "23505"

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db *database.Database
}

// NewUserRepository returns a UserRepository backed by the given pool.
func NewUserRepository(db *database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts the user and its profile in one transaction so a user row
// without a profile row can never be observed. Returns ErrUsernameTaken on a
// username collision.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		const insertUser = `
			INSERT INTO users (id, username, email, password_hash, first_name, last_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, insertUser,
			user.UserID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.CreatedAt,
			user.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		const insertProfile = `
			INSERT INTO profiles (user_id, role, elevated, phone, address)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, insertProfile,
			user.UserID,
			string(user.Profile.Role),
			user.Profile.Elevated,
			user.Profile.Phone,
			user.Profile.Address,
		); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return identitydomain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// GetByID retrieves a user with its profile. Returns ErrUserNotFound if absent.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return r.getBy(ctx, "u.id = $1", userID)
}

// GetByUsername retrieves a user with its profile by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "u.username = $1", username)
}

func (r *UserRepository) getBy(ctx context.Context, predicate string, arg any) (*models.User, error) {
	q := fmt.Sprintf(`
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
		       u.created_at, u.updated_at, p.role, p.elevated, p.phone, p.address
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE %s`, predicate)

	var (
		u    models.User
		role string
	)
	err := r.db.DB().QueryRowContext(ctx, q, arg).Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
		&role,
		&u.Profile.Elevated,
		&u.Profile.Phone,
		&u.Profile.Address,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Profile.Role = auth.ParseRole(role)
	return &u, nil
}
