package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/duoplay/internal/db"
	"github.com/llehouerou/duoplay/internal/playlist"
)

const schema = `
CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	track_id TEXT NOT NULL,
	PRIMARY KEY (playlist_id, position)
);
`

// SQLiteStore keeps playlists in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLite(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite uses an already opened database, creating the tables.
func NewSQLite(conn *sql.DB) (*SQLiteStore, error) {
	if _, err := conn.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: conn}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces every stored playlist in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, playlists []*playlist.Playlist) error {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlists`); err != nil {
			return err
		}

		for pos, e := range entries(playlists) {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO playlists (name, position) VALUES (?, ?)`, e.Name, pos)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for i, trackID := range e.TrackIDs {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO playlist_tracks (playlist_id, position, track_id) VALUES (?, ?, ?)`,
					id, i, trackID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return saveErr(err)
	}
	return nil
}

// Load reads every stored playlist in save order.
func (s *SQLiteStore) Load(ctx context.Context) (Data, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, t.track_id
		FROM playlists p
		LEFT JOIN playlist_tracks t ON t.playlist_id = p.id
		ORDER BY p.position, t.position
	`)
	if err != nil {
		return nil, loadErr(err)
	}
	defer rows.Close()

	data := Data{}
	for rows.Next() {
		var name string
		var trackID sql.NullString
		if err := rows.Scan(&name, &trackID); err != nil {
			return nil, loadErr(err)
		}
		if len(data) == 0 || data[len(data)-1].Name != name {
			data = append(data, Entry{Name: name, TrackIDs: []string{}})
		}
		if trackID.Valid {
			last := &data[len(data)-1]
			last.TrackIDs = append(last.TrackIDs, trackID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, loadErr(err)
	}
	return data, nil
}
