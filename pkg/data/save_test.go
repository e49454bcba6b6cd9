package data

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mchmarny/drafttag/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]string{"overall_pick", "position", "games_played", "y_weak"},
		[][]string{
			{"1", "C", "812.5", "1"},
			{"abc", "D", "", ""},
			{"160", "F", "12", ""},
		},
	)
	require.NoError(t, err)
	return tbl
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := GetDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestIsDBPath(t *testing.T) {
	assert.True(t, IsDBPath("out/tagged.db"))
	assert.True(t, IsDBPath("tagged.SQLITE"))
	assert.True(t, IsDBPath("tagged.sqlite3"))
	assert.False(t, IsDBPath("tagged.csv"))
	assert.False(t, IsDBPath("tagged"))
}

func TestGetDB_EmptyPath(t *testing.T) {
	_, err := GetDB("")
	assert.Error(t, err)
}

func TestSaveTable(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveTable(db, TableName, testTable(t)))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM draft_record`).Scan(&count))
	assert.Equal(t, 3, count)

	var nulls int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM draft_record WHERE y_weak IS NULL`).Scan(&nulls))
	assert.Equal(t, 2, nulls)

	var games float64
	require.NoError(t, db.QueryRow(`SELECT games_played FROM draft_record WHERE position = 'C'`).Scan(&games))
	assert.InDelta(t, 812.5, games, 1e-9)

	var pick string
	require.NoError(t, db.QueryRow(`SELECT overall_pick FROM draft_record WHERE position = 'D'`).Scan(&pick))
	assert.Equal(t, "abc", pick)
}

func TestSaveTable_ReplacesPreviousRun(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveTable(db, TableName, testTable(t)))

	small, err := table.New([]string{"overall_pick"}, [][]string{{"7"}})
	require.NoError(t, err)
	require.NoError(t, SaveTable(db, TableName, small))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM draft_record`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaveTable_Errors(t *testing.T) {
	assert.ErrorIs(t, SaveTable(nil, TableName, testTable(t)), errDBNotInitialized)

	db := setupTestDB(t)
	assert.Error(t, SaveTable(db, "", testTable(t)))

	empty, err := table.New(nil, nil)
	require.NoError(t, err)
	assert.Error(t, SaveTable(db, TableName, empty))
}

func TestSQLiteSink_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tagged.db")
	sink := &SQLiteSink{Path: path}
	require.NoError(t, sink.Write(testTable(t)))

	db, err := GetDB(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM draft_record`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"y_weak"`, quoteIdent("y_weak"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
