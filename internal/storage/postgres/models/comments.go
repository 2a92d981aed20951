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

type CommentModel struct {
	DB *pgxpool.Pool
}

const commentColumns = `
	c.id, c.review_id, c.text, c.author_id, u.username AS author, c.pub_date`

func (m *CommentModel) ListForReview(ctx context.Context, reviewID int64, filters filters.Filters) ([]models.Comment, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), %s
	FROM comments c JOIN users u ON u.id = c.author_id
	WHERE c.review_id = $1
	ORDER BY %s %s, id ASC
	LIMIT $2 OFFSET $3
	`, commentColumns, filters.SortColumn(), filters.SortDirection())
	rows, _ := m.DB.Query(ctx, query, reviewID, filters.Limit(), filters.Offset())
	type row struct {
		Count int
		models.Comment
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Comment{}, 0, nil
	}
	comments := make([]models.Comment, 0, len(outputRows))
	for _, row := range outputRows {
		comments = append(comments, row.Comment)
	}
	return comments, outputRows[0].Count, nil
}

func (m *CommentModel) Get(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM comments c JOIN users u ON u.id = c.author_id WHERE c.review_id = $1 AND c.id = $2",
		commentColumns,
	)
	rows, _ := m.DB.Query(ctx, query, reviewID, id)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (m *CommentModel) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	query := fmt.Sprintf(`
	WITH inserted AS (
		INSERT INTO comments (review_id, author_id, text)
		VALUES ($1, $2, $3) RETURNING *
	)
	SELECT %s FROM inserted c JOIN users u ON u.id = c.author_id
	`, commentColumns)
	rows, _ := m.DB.Query(ctx, query, reviewID, authorID, text)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &comment, nil
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := fmt.Sprintf(`
	WITH updated AS (
		UPDATE comments SET text = $1
		WHERE review_id = $2 AND id = $3 RETURNING *
	)
	SELECT %s FROM updated c JOIN users u ON u.id = c.author_id
	`, commentColumns)
	rows, _ := m.DB.Query(ctx, query, comment.Text, comment.ReviewID, comment.ID)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (m *CommentModel) Delete(ctx context.Context, reviewID, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE review_id = $1 AND id = $2", reviewID, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
