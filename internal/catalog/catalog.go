// Package catalog provides the read-only reference data shown on the home, album and playlist views.
//
// Data is fixed when a [Store] is constructed; nothing in the request path mutates it.
//   - [MemoryStore] : built from fixtures ([Default]) or test data
//   - [SQLiteStore] : reads the tables seeded by the embedded migrations in internal/shared/sql
//
// Lookups of unknown ids return errors wrapping [shared.ErrNotFound].
package catalog

import (
	"fmt"

	"github.com/desertthunder/soundcheck/internal/shared"
)

// Album is a curated collection shown on the home page.
type Album struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"desc"`
	BgColor     string `json:"bgColor"`
}

// Song is a locally hosted track with a playable file.
type Song struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	File        string `json:"file"`
	Description string `json:"desc"`
	Duration    string `json:"duration"`
}

// Playlist is a named, ordered list of songs.
type Playlist struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// Store exposes the catalog.
type Store interface {
	Albums() ([]Album, error)
	Album(id int) (*Album, error)
	Songs() ([]Song, error)
	Playlists() ([]Playlist, error)
	Playlist(id int) (*Playlist, error)
}

func notFound(kind string, id int) error {
	return fmt.Errorf("%w: %s %d", shared.ErrNotFound, kind, id)
}
