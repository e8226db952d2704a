package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_SameVersionsForEveryDialect(t *testing.T) {
	my, err := Migrations(MySQL)
	require.NoError(t, err)
	lite, err := Migrations(SQLite)
	require.NoError(t, err)

	require.NotEmpty(t, my)
	require.Len(t, lite, len(my))
	for i := range my {
		assert.Equal(t, my[i].Version, lite[i].Version)
		assert.Equal(t, my[i].Name, lite[i].Name)
	}
}

func TestMigrate_SQLiteIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	first, err := Migrate(ctx, db, SQLite)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, first)

	second, err := Migrate(ctx, db, SQLite)
	require.NoError(t, err)
	assert.Empty(t, second)

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('movies','sessions','tickets','favorites')`).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestSplitStatements(t *testing.T) {
	body := "-- comment\nCREATE TABLE a (\n  id INT\n);\n\nCREATE INDEX i ON a (id);\nSELECT 1"
	got := splitStatements(body)
	require.Len(t, got, 3)
	assert.Equal(t, "CREATE TABLE a (\n  id INT\n)", got[0])
	assert.Equal(t, "CREATE INDEX i ON a (id)", got[1])
	assert.Equal(t, "SELECT 1", got[2])
}

func TestDialect(t *testing.T) {
	d, err := ParseDialect("sqlite")
	require.NoError(t, err)
	assert.False(t, d.FoldsUnicode())
	assert.True(t, MySQL.FoldsUnicode())

	_, err = ParseDialect("postgres")
	assert.Error(t, err)
}
