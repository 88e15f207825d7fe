package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSource_DSN_Substitution(t *testing.T) {
	ds := dataSource{
		User:     "u",
		Password: "p",
		Host:     "localhost:5432",
		URL:      "postgres://${user}:${password}@${host}/db?sslmode=disable",
	}
	require.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", ds.DSN())

	dsn, err := ds.DSNChecked()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", dsn)
}

func TestDataSource_DSN_NoPlaceholders(t *testing.T) {
	ds := dataSource{URL: "file::memory:?cache=shared"}
	require.Equal(t, "file::memory:?cache=shared", ds.DSN())

	dsn, err := ds.DSNChecked()
	require.NoError(t, err)
	require.Equal(t, "file::memory:?cache=shared", dsn)
}

func TestDataSource_DSNChecked_MissingFields(t *testing.T) {
	testCases := []struct {
		name string
		ds   dataSource
	}{
		{"no url", dataSource{}},
		{"missing user", dataSource{URL: "postgres://${user}@${host}/db", Host: "h"}},
		{"missing password", dataSource{URL: "postgres://${user}:${password}@h/db", User: "u"}},
		{"missing host", dataSource{URL: "postgres://u@${host}/db"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.ds.DSNChecked()
			require.Error(t, err)
		})
	}
}

func TestOpen_Sqlite(t *testing.T) {
	db, err := Open("sqlite3", "file:store_open_test?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(context.Background()))
}

func TestRegisterDataSource_RunsScripts(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bootstrap.sql")
	body := `CREATE TABLE clients (id INTEGER PRIMARY KEY, email TEXT UNIQUE);
INSERT INTO clients (id, email) VALUES (1, 'a@b.c');`
	require.NoError(t, os.WriteFile(script, []byte(body), 0o644))

	err := registerDataSource("scripted", dataSource{
		Driver:  "sqlite3",
		URL:     "file:store_script_test?mode=memory&cache=shared",
		Scripts: []string{script},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, CloseAllDataSources()) }()

	db, ok := GetDS("scripted")
	require.True(t, ok)

	rows, err := db.QueryContext(context.Background(), "SELECT email FROM clients")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var email string
	require.NoError(t, rows.Scan(&email))
	assert.Equal(t, "a@b.c", email)
}

func TestIsUniqueViolation_Sqlite(t *testing.T) {
	db, err := Open("sqlite3", "file:store_unique_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE clients (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO clients (email) VALUES ('a@b.c')")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO clients (email) VALUES ('a@b.c')")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestIsUniqueViolation_NilAndForeign(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsForeignKeyViolation(nil))

	db, err := Open("sqlite3", "file:store_fk_test?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "CREATE TABLE clients (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "CREATE TABLE orders (id INTEGER PRIMARY KEY, client_id INTEGER NOT NULL REFERENCES clients(id))")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO orders (client_id) VALUES (99)")
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))
}
