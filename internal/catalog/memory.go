package catalog

import "slices"

// MemoryStore is an immutable in-memory [Store]. Getters return copies.
type MemoryStore struct {
	albums    []Album
	songs     []Song
	playlists []Playlist
}

// NewMemoryStore copies the given data into a new [MemoryStore].
func NewMemoryStore(albums []Album, songs []Song, playlists []Playlist) *MemoryStore {
	copied := make([]Playlist, len(playlists))
	for i, p := range playlists {
		p.Songs = slices.Clone(p.Songs)
		copied[i] = p
	}

	return &MemoryStore{
		albums:    slices.Clone(albums),
		songs:     slices.Clone(songs),
		playlists: copied,
	}
}

// Default returns the fixture catalog: eight albums, eight songs and no playlists.
func Default() *MemoryStore {
	return NewMemoryStore(defaultAlbums, defaultSongs, nil)
}

func (m *MemoryStore) Albums() ([]Album, error) {
	return slices.Clone(m.albums), nil
}

func (m *MemoryStore) Album(id int) (*Album, error) {
	for _, a := range m.albums {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, notFound("album", id)
}

func (m *MemoryStore) Songs() ([]Song, error) {
	return slices.Clone(m.songs), nil
}

func (m *MemoryStore) Playlists() ([]Playlist, error) {
	out := make([]Playlist, len(m.playlists))
	for i, p := range m.playlists {
		p.Songs = slices.Clone(p.Songs)
		out[i] = p
	}
	return out, nil
}

func (m *MemoryStore) Playlist(id int) (*Playlist, error) {
	for _, p := range m.playlists {
		if p.ID == id {
			p.Songs = slices.Clone(p.Songs)
			return &p, nil
		}
	}
	return nil, notFound("playlist", id)
}

const defaultDesc = "Your weekly update of the most played tracks"

const happyTunes = "Put a smile on your face with these happy tunes"

var defaultAlbums = []Album{
	{ID: 0, Name: "Top 50 Global", Image: "img8.jpg", Description: defaultDesc, BgColor: "#2a4365"},
	{ID: 1, Name: "Top 50 India", Image: "img9.jpg", Description: defaultDesc, BgColor: "#22543d"},
	{ID: 2, Name: "Trending India", Image: "img10.jpg", Description: defaultDesc, BgColor: "#742a2a"},
	{ID: 3, Name: "Trending Global", Image: "img16.jpg", Description: defaultDesc, BgColor: "#44337a"},
	{ID: 4, Name: "Mega Hits", Image: "img11.jpg", Description: defaultDesc, BgColor: "#234e52"},
	{ID: 5, Name: "Happy Favs", Image: "img15.jpg", Description: defaultDesc, BgColor: "#DF7A1B"},
	{ID: 6, Name: "Chill Mix", Image: "img17.jpg", Description: "Chill Vibes Anyone Can Listen To", BgColor: "#8E47AA"},
	{ID: 7, Name: "Happy Mix", Image: "img18.jpg", Description: "Happy Music Picked Just For You", BgColor: "#DBDF1B"},
}

var defaultSongs = []Song{
	{ID: 0, Name: "Song One", Image: "assets/img1.jpg", File: "assets/song1.mp3", Description: happyTunes, Duration: "3:00"},
	{ID: 1, Name: "Song Two", Image: "assets/img2.jpg", File: "assets/song2.mp3", Description: happyTunes, Duration: "2:20"},
	{ID: 2, Name: "Song Three", Image: "assets/img3.jpg", File: "assets/song3.mp3", Description: happyTunes, Duration: "2:32"},
	{ID: 3, Name: "Song Four", Image: "assets/img4.jpg", File: "assets/song1.mp3", Description: happyTunes, Duration: "2:50"},
	{ID: 4, Name: "Song Five", Image: "assets/img5.jpg", File: "assets/song2.mp3", Description: happyTunes, Duration: "3:10"},
	{ID: 5, Name: "Song Six", Image: "assets/img14.jpg", File: "assets/song3.mp3", Description: happyTunes, Duration: "2:45"},
	{ID: 6, Name: "Song Seven", Image: "assets/img7.jpg", File: "assets/song1.mp3", Description: happyTunes, Duration: "2:18"},
	{ID: 7, Name: "Song Eight", Image: "assets/img12.jpg", File: "assets/song2.mp3", Description: happyTunes, Duration: "2:35"},
}
