package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Exec(`CREATE TABLE playlists (name TEXT PRIMARY KEY, position INTEGER NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func countPlaylists(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM playlists`).Scan(&n))
	return n
}

func insert(tx *sql.Tx, names ...string) error {
	for i, name := range names {
		if _, err := tx.Exec(`INSERT INTO playlists (name, position) VALUES (?, ?)`, name, i); err != nil {
			return err
		}
	}
	return nil
}

func TestWithTx_Commits(t *testing.T) {
	conn := openTestDB(t)

	err := WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		return insert(tx, "Road", "Gym", "Chill")
	})

	require.NoError(t, err)
	assert.Equal(t, 3, countPlaylists(t, conn))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	abort := errors.New("abort")

	err := WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		if err := insert(tx, "Road", "Gym"); err != nil {
			return err
		}
		return abort
	})

	assert.ErrorIs(t, err, abort)
	assert.Zero(t, countPlaylists(t, conn))
}

func TestWithTx_RollsBackOnConstraint(t *testing.T) {
	conn := openTestDB(t)

	err := WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		return insert(tx, "Road", "Road")
	})

	assert.Error(t, err)
	assert.Zero(t, countPlaylists(t, conn))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	conn := openTestDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
			if err := insert(tx, "Road"); err != nil {
				return err
			}
			panic("boom")
		})
	})
	assert.Zero(t, countPlaylists(t, conn))
}

func TestWithTx_CanceledContext(t *testing.T) {
	conn := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, conn, func(*sql.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called, "fn must not run when the transaction cannot begin")
}
