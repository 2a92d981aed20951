package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikKurkov/api-yamdb/internal/domain/fields"
	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"
	"github.com/NikKurkov/api-yamdb/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TitleModel struct {
	DB *pgxpool.Pool
}

// titleRow is the flat shape of the titles query: the LEFT JOINed category
// comes back as nullable columns and rating as a nullable aggregate.
type titleRow struct {
	ID           int64
	Name         string
	Year         *int32
	Description  string
	Rating       fields.Rating
	CategoryID   *int64
	CategoryName *string
	CategorySlug *string
}

const titleColumns = `
	t.id, t.name, t.year, COALESCE(t.description, '') AS description,
	(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating,
	c.id AS category_id, c.name AS category_name, c.slug AS category_slug`

func (row *titleRow) toTitle(genres []models.Genre) models.Title {
	title := models.Title{
		ID:          row.ID,
		Name:        row.Name,
		Year:        row.Year,
		Description: row.Description,
		Rating:      row.Rating,
		Genres:      genres,
	}
	if row.CategoryID != nil {
		title.Category = &models.Category{
			ID:   *row.CategoryID,
			Name: *row.CategoryName,
			Slug: *row.CategorySlug,
		}
	}
	return title
}

func (m *TitleModel) genresByTitle(ctx context.Context, titleIDs []int64) (map[int64][]models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT gt.title_id, g.id, g.name, g.slug FROM genre_title gt
		JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1) ORDER BY g.id`,
		titleIDs,
	)
	type row struct {
		TitleID int64
		models.Genre
	}
	links, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, err
	}
	genres := make(map[int64][]models.Genre, len(titleIDs))
	for _, link := range links {
		genres[link.TitleID] = append(genres[link.TitleID], link.Genre)
	}
	return genres, nil
}

func (m *TitleModel) List(ctx context.Context, filter filters.TitleFilter, filters filters.Filters) ([]models.Title, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), %s
	FROM titles t LEFT JOIN categories c ON c.id = t.category_id
	WHERE (c.slug = $1 OR $1 = '')
	AND (cardinality($2::text[]) = 0 OR EXISTS (
		SELECT 1 FROM genre_title gt JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = t.id AND g.slug = ANY($2)))
	AND (t.year = $3 OR $3 = 0)
	ORDER BY %s %s, id ASC
	LIMIT $4 OFFSET $5
	`, titleColumns, filters.SortColumn(), filters.SortDirection())
	genreSlugs := filter.Genre
	if genreSlugs == nil {
		genreSlugs = []string{}
	}
	args := []any{filter.Category, genreSlugs, filter.Year, filters.Limit(), filters.Offset()}
	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		titleRow
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Title{}, 0, nil
	}
	titleIDs := make([]int64, 0, len(outputRows))
	for _, row := range outputRows {
		titleIDs = append(titleIDs, row.ID)
	}
	genres, err := m.genresByTitle(ctx, titleIDs)
	if err != nil {
		return nil, 0, err
	}
	titles := make([]models.Title, 0, len(outputRows))
	for _, row := range outputRows {
		titles = append(titles, row.toTitle(genres[row.ID]))
	}
	return titles, outputRows[0].Count, nil
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM titles t LEFT JOIN categories c ON c.id = t.category_id WHERE t.id = $1",
		titleColumns,
	)
	rows, _ := m.DB.Query(ctx, query, id)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[titleRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	genres, err := m.genresByTitle(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	title := row.toTitle(genres[row.ID])
	return &title, nil
}

func (m *TitleModel) Insert(ctx context.Context, name string, year *int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	var id int64
	err = tx.QueryRow(
		ctx,
		"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, NULLIF($3, ''), $4) RETURNING id",
		name, year, description, categoryID,
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	if err := m.replaceGenres(ctx, tx, id, genreIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Update(ctx context.Context, id int64, name string, year *int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	status, err := tx.Exec(
		ctx,
		"UPDATE titles SET name = $1, year = $2, description = NULLIF($3, ''), category_id = $4 WHERE id = $5",
		name, year, description, categoryID, id,
	)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	if _, err := tx.Exec(ctx, "DELETE FROM genre_title WHERE title_id = $1", id); err != nil {
		return nil, err
	}
	if err := m.replaceGenres(ctx, tx, id, genreIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) replaceGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(
		ctx,
		"INSERT INTO genre_title (title_id, genre_id) SELECT $1, unnest($2::bigint[])",
		titleID, genreIDs,
	)
	return postgres.MapError(err)
}

// Delete cascades to the title's reviews and their comments (schema rules).
func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
