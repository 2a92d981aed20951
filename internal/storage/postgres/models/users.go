package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"
	"github.com/NikKurkov/api-yamdb/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = "id, username, email, bio, role, confirmation_code, created_at"

func (m *UserModel) List(ctx context.Context, search string, filters filters.Filters) ([]models.User, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), %s FROM users
	WHERE (username ILIKE '%%' || $1 || '%%' OR $1 = '')
	ORDER BY %s %s, id ASC
	LIMIT $2 OFFSET $3
	`, userColumns, filters.SortColumn(), filters.SortDirection())
	rows, _ := m.DB.Query(ctx, query, search, filters.Limit(), filters.Offset())
	type row struct {
		Count int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.User{}, 0, nil
	}
	users := make([]models.User, 0, len(outputRows))
	for _, row := range outputRows {
		users = append(users, row.User)
	}
	return users, outputRows[0].Count, nil
}

func (m *UserModel) getWhere(ctx context.Context, clause string, args ...any) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, clause), args...)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) Get(ctx context.Context, id int64) (*models.User, error) {
	return m.getWhere(ctx, "id = $1", id)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.getWhere(ctx, "username = $1", username)
}

// GetByEmailOrUsername returns the first record matched by either field.
// The signup flow uses it to tell an idempotent repeat from a conflict.
func (m *UserModel) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return m.getWhere(ctx, "email = $1 OR username = $2 ORDER BY id ASC LIMIT 1", email, username)
}

func (m *UserModel) Insert(ctx context.Context, username, email, bio string, role models.Role) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("INSERT INTO users (username, email, bio, role) VALUES ($1, $2, $3, $4) RETURNING %s", userColumns),
		username, email, bio, role,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &user, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`UPDATE users SET username = $1, email = $2, bio = $3, role = $4
		WHERE id = $5 RETURNING %s`, userColumns),
		user.Username, user.Email, user.Bio, user.Role, user.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, postgres.MapError(err)
	}
	return &updated, nil
}

// SetConfirmationCode overwrites any previously issued code.
func (m *UserModel) SetConfirmationCode(ctx context.Context, userID int64, code string) error {
	status, err := m.DB.Exec(ctx, "UPDATE users SET confirmation_code = $1 WHERE id = $2", code, userID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *UserModel) DeleteByUsername(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
