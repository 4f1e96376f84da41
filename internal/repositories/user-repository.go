package repositories

import (
	"context"
	"database/sql"
	"errors"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userTable  = "users"
	userFields = "id, fio, email, phone, password, role_id, department_id, created_at, updated_at"
)

type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindByLogin(ctx context.Context, login string) (*entities.User, error)
}

type userRepository struct{ storage *pgxpool.Pool }

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

func (r *userRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := "SELECT " + userFields + " FROM " + userTable + " WHERE id = $1"
	return r.scanUser(r.storage.QueryRow(ctx, query, id))
}

// FindByLogin matches either email or phone; the login form has one field.
func (r *userRepository) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	query := "SELECT " + userFields + " FROM " + userTable + " WHERE email = $1 OR phone = $1 LIMIT 1"
	return r.scanUser(r.storage.QueryRow(ctx, query, login))
}

func (r *userRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var (
		user         entities.User
		departmentID sql.NullInt64
		updatedAt    sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Fio, &user.Email, &user.Phone, &user.Password, &user.RoleID, &departmentID, &user.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if departmentID.Valid {
		id := uint64(departmentID.Int64)
		user.DepartmentID = &id
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		user.UpdatedAt = &t
	}
	return &user, nil
}
