package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStore implements [Store] over the catalog tables.
//
// The schema and seed rows come from shared.RunMigrations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore with the given database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Albums returns all albums ordered by id
func (s *SQLiteStore) Albums() ([]Album, error) {
	rows, err := s.db.Query(`SELECT id, name, image, description, bg_color FROM albums ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	albums := []Album{}
	for rows.Next() {
		var a Album
		if err := rows.Scan(&a.ID, &a.Name, &a.Image, &a.Description, &a.BgColor); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, a)
	}

	return albums, rows.Err()
}

// Album retrieves one album by id
func (s *SQLiteStore) Album(id int) (*Album, error) {
	var a Album
	err := s.db.QueryRow(
		`SELECT id, name, image, description, bg_color FROM albums WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Image, &a.Description, &a.BgColor)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("album", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query album: %w", err)
	}

	return &a, nil
}

// Songs returns all songs ordered by id
func (s *SQLiteStore) Songs() ([]Song, error) {
	return s.querySongs(`SELECT id, name, image, file, description, duration FROM songs ORDER BY id`)
}

// Playlists returns every playlist with its songs
func (s *SQLiteStore) Playlists() ([]Playlist, error) {
	rows, err := s.db.Query(`SELECT id, name FROM playlists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range playlists {
		songs, err := s.playlistSongs(playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Songs = songs
	}

	return playlists, nil
}

// Playlist retrieves one playlist and its songs by id
func (s *SQLiteStore) Playlist(id int) (*Playlist, error) {
	var p Playlist
	err := s.db.QueryRow(`SELECT id, name FROM playlists WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("playlist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}

	if p.Songs, err = s.playlistSongs(id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *SQLiteStore) playlistSongs(playlistID int) ([]Song, error) {
	return s.querySongs(`
		SELECT s.id, s.name, s.image, s.file, s.description, s.duration
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.position
	`, playlistID)
}

func (s *SQLiteStore) querySongs(query string, args ...any) ([]Song, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []Song{}
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Name, &song.Image, &song.File, &song.Description, &song.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	return songs, rows.Err()
}
