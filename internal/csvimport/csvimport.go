// Package csvimport loads the seed dataset (category.csv, genre.csv,
// titles.csv, genre_title.csv, users.csv, review.csv, comments.csv) into
// postgres. Files are applied from independent tables to dependent ones,
// all inside a single transaction, and rows that already exist are skipped
// so the command is safe to re-run.
package csvimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Execer is the subset of pgx.Tx the importer needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type record map[string]string

func (r record) get(column string) (string, error) {
	value, ok := r[column]
	if !ok {
		return "", fmt.Errorf("missing column %q", column)
	}
	return value, nil
}

func (r record) intVal(column string) (int64, error) {
	raw, err := r.get(column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	return n, nil
}

// nullableInt treats an empty cell as SQL NULL.
func (r record) nullableInt(column string) (any, error) {
	raw, err := r.get(column)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", column, err)
	}
	return n, nil
}

type tableSpec struct {
	file     string
	table    string
	insert   string
	sequence string
	args     func(row record) ([]any, error)
}

var tables = []tableSpec{
	{
		file:     "category.csv",
		table:    "categories",
		insert:   "INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		sequence: "categories_id_seq",
		args:     slugArgs,
	},
	{
		file:     "genre.csv",
		table:    "genres",
		insert:   "INSERT INTO genres (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		sequence: "genres_id_seq",
		args:     slugArgs,
	},
	{
		file:     "titles.csv",
		table:    "titles",
		insert:   "INSERT INTO titles (id, name, year, category_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING",
		sequence: "titles_id_seq",
		args: func(row record) ([]any, error) {
			id, err := row.intVal("id")
			if err != nil {
				return nil, err
			}
			name, err := row.get("name")
			if err != nil {
				return nil, err
			}
			year, err := row.nullableInt("year")
			if err != nil {
				return nil, err
			}
			category, err := row.nullableInt("category")
			if err != nil {
				return nil, err
			}
			return []any{id, name, year, category}, nil
		},
	},
	{
		file:   "genre_title.csv",
		table:  "genre_title",
		insert: "INSERT INTO genre_title (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		args: func(row record) ([]any, error) {
			titleID, err := row.intVal("title_id")
			if err != nil {
				return nil, err
			}
			genreID, err := row.intVal("genre_id")
			if err != nil {
				return nil, err
			}
			return []any{titleID, genreID}, nil
		},
	},
	{
		file:     "users.csv",
		table:    "users",
		insert:   "INSERT INTO users (id, username, email, bio, role) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING",
		sequence: "users_id_seq",
		args: func(row record) ([]any, error) {
			id, err := row.intVal("id")
			if err != nil {
				return nil, err
			}
			username, err := row.get("username")
			if err != nil {
				return nil, err
			}
			email, err := row.get("email")
			if err != nil {
				return nil, err
			}
			role := row["role"]
			if role == "" {
				role = "user"
			}
			return []any{id, username, email, row["bio"], role}, nil
		},
	},
	{
		file:     "review.csv",
		table:    "reviews",
		insert:   "INSERT INTO reviews (id, title_id, author_id, text, score, pub_date) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING",
		sequence: "reviews_id_seq",
		args: func(row record) ([]any, error) {
			id, err := row.intVal("id")
			if err != nil {
				return nil, err
			}
			titleID, err := row.intVal("title_id")
			if err != nil {
				return nil, err
			}
			authorID, err := row.intVal("author")
			if err != nil {
				return nil, err
			}
			text, err := row.get("text")
			if err != nil {
				return nil, err
			}
			score, err := row.intVal("score")
			if err != nil {
				return nil, err
			}
			pubDate, err := row.get("pub_date")
			if err != nil {
				return nil, err
			}
			return []any{id, titleID, authorID, text, score, pubDate}, nil
		},
	},
	{
		file:     "comments.csv",
		table:    "comments",
		insert:   "INSERT INTO comments (id, review_id, author_id, text, pub_date) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING",
		sequence: "comments_id_seq",
		args: func(row record) ([]any, error) {
			id, err := row.intVal("id")
			if err != nil {
				return nil, err
			}
			reviewID, err := row.intVal("review_id")
			if err != nil {
				return nil, err
			}
			authorID, err := row.intVal("author")
			if err != nil {
				return nil, err
			}
			text, err := row.get("text")
			if err != nil {
				return nil, err
			}
			pubDate, err := row.get("pub_date")
			if err != nil {
				return nil, err
			}
			return []any{id, reviewID, authorID, text, pubDate}, nil
		},
	},
}

func slugArgs(row record) ([]any, error) {
	id, err := row.intVal("id")
	if err != nil {
		return nil, err
	}
	name, err := row.get("name")
	if err != nil {
		return nil, err
	}
	slug, err := row.get("slug")
	if err != nil {
		return nil, err
	}
	return []any{id, name, slug}, nil
}

type Importer struct {
	log  *slog.Logger
	conn *pgxpool.Pool
}

func New(log *slog.Logger, conn *pgxpool.Pool) *Importer {
	return &Importer{log: log, conn: conn}
}

// Run imports every file from dataDir in dependency order. Any failure rolls
// the whole run back.
func (imp *Importer) Run(ctx context.Context, dataDir string) error {
	const op = "csvimport.Importer.Run"
	log := imp.log.With("op", op, "dataDir", dataDir)
	tx, err := imp.conn.Begin(ctx)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	defer tx.Rollback(ctx)
	if err := imp.ImportAll(ctx, tx, dataDir); err != nil {
		log.Error(err.Error())
		return err
	}
	return tx.Commit(ctx)
}

func (imp *Importer) ImportAll(ctx context.Context, db Execer, dataDir string) error {
	for _, table := range tables {
		if err := imp.importTable(ctx, db, dataDir, table); err != nil {
			return fmt.Errorf("%s: %w", table.file, err)
		}
	}
	return nil
}

func (imp *Importer) importTable(ctx context.Context, db Execer, dataDir string, table tableSpec) error {
	rows, err := readCSV(filepath.Join(dataDir, table.file))
	if err != nil {
		return err
	}
	var inserted int64
	for i, row := range rows {
		args, err := table.args(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		tag, err := db.Exec(ctx, table.insert, args...)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		inserted += tag.RowsAffected()
	}
	if table.sequence != "" {
		query := fmt.Sprintf(
			"SELECT setval('%s', (SELECT COALESCE(MAX(id), 1) FROM %s))",
			table.sequence, table.table,
		)
		if _, err := db.Exec(ctx, query); err != nil {
			return err
		}
	}
	imp.log.Info("table imported", "table", table.table, "rows", len(rows), "inserted", inserted)
	return nil
}

// readCSV returns the file's data rows keyed by its header row.
func readCSV(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader := csv.NewReader(f)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	header := all[0]
	records := make([]record, 0, len(all)-1)
	for _, line := range all[1:] {
		row := make(record, len(header))
		for i, column := range header {
			row[column] = line[i]
		}
		records = append(records, row)
	}
	return records, nil
}
