package csvimport

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func testDataset(t *testing.T) string {
	return writeDataDir(t, map[string]string{
		"category.csv":    "id,name,slug\n1,Movies,movies\n",
		"genre.csv":       "id,name,slug\n1,Drama,drama\n",
		"titles.csv":      "id,name,year,category\n1,Solaris,1972,1\n2,Untitled,,\n",
		"genre_title.csv": "id,title_id,genre_id\n1,1,1\n",
		"users.csv":       "id,username,email,role,bio,first_name,last_name\n1,capt,capt@example.com,,,,\n",
		"review.csv":      "id,title_id,text,author,score,pub_date\n1,1,Great,1,10,2019-09-24T21:08:21.567Z\n",
		"comments.csv":    "id,review_id,text,author,pub_date\n1,1,Agreed,1,2019-09-24T21:08:21.567Z\n",
	})
}

func newTestImporter() *Importer {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestImportAllOrder(t *testing.T) {
	dir := testDataset(t)
	db := &fakeExecer{}
	require.NoError(t, newTestImporter().ImportAll(context.Background(), db, dir))

	var order []string
	for _, call := range db.calls {
		order = append(order, call.sql)
	}
	expectedFragments := []string{
		"INSERT INTO categories",
		"INSERT INTO genres",
		"INSERT INTO titles",
		"INSERT INTO genre_title",
		"INSERT INTO users",
		"INSERT INTO reviews",
		"INSERT INTO comments",
	}
	next := 0
	for _, sql := range order {
		if next < len(expectedFragments) && len(sql) >= len(expectedFragments[next]) &&
			sql[:len(expectedFragments[next])] == expectedFragments[next] {
			next++
		}
	}
	assert.Equal(t, len(expectedFragments), next, "tables must be imported from independent to dependent")
	for _, call := range db.calls {
		if call.sql[:6] == "INSERT" {
			assert.Contains(t, call.sql, "ON CONFLICT DO NOTHING")
		}
	}
}

func TestImportAllValues(t *testing.T) {
	dir := testDataset(t)
	db := &fakeExecer{}
	require.NoError(t, newTestImporter().ImportAll(context.Background(), db, dir))

	byTable := map[string][]execCall{}
	for _, call := range db.calls {
		switch {
		case len(call.sql) > 11 && call.sql[:11] == "INSERT INTO":
			table := call.sql[12:]
			for i, c := range table {
				if c == ' ' {
					table = table[:i]
					break
				}
			}
			byTable[table] = append(byTable[table], call)
		}
	}

	titles := byTable["titles"]
	require.Len(t, titles, 2)
	assert.Equal(t, []any{int64(1), "Solaris", int64(1972), int64(1)}, titles[0].args)
	// empty year and category become NULL
	assert.Equal(t, []any{int64(2), "Untitled", nil, nil}, titles[1].args)

	users := byTable["users"]
	require.Len(t, users, 1)
	// blank role falls back to the default
	assert.Equal(t, "user", users[0].args[4])

	reviews := byTable["reviews"]
	require.Len(t, reviews, 1)
	assert.Equal(t, []any{int64(1), int64(1), int64(1), "Great", int64(10), "2019-09-24T21:08:21.567Z"}, reviews[0].args)
}

func TestImportAllAdvancesSequences(t *testing.T) {
	dir := testDataset(t)
	db := &fakeExecer{}
	require.NoError(t, newTestImporter().ImportAll(context.Background(), db, dir))

	var setvals []string
	for _, call := range db.calls {
		if len(call.sql) > 13 && call.sql[:13] == "SELECT setval" {
			setvals = append(setvals, call.sql)
		}
	}
	// all tables but the join table own a sequence
	assert.Len(t, setvals, 6)
	assert.Contains(t, setvals[0], "categories_id_seq")
}

func TestImportAllMissingColumn(t *testing.T) {
	dir := writeDataDir(t, map[string]string{"category.csv": "id,name\n1,Movies\n"})
	db := &fakeExecer{}
	err := newTestImporter().ImportAll(context.Background(), db, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category.csv")
	assert.Contains(t, err.Error(), "slug")
}

func TestImportAllMissingFile(t *testing.T) {
	dir := writeDataDir(t, map[string]string{})
	err := newTestImporter().ImportAll(context.Background(), &fakeExecer{}, dir)
	require.Error(t, err)
}
