package services

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/zmb3/spotify/v2"
)

// Fallbacks for fields the provider leaves out.
const (
	UnknownUser   = "Unknown User"
	UnknownTrack  = "Unknown Track"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	NoLink        = "#"
)

// DefaultProfile is the profile shown when nothing could be read from the provider.
func DefaultProfile() Profile {
	return Profile{DisplayName: UnknownUser}
}

// ProfileFromUser maps a provider user onto a [Profile], substituting defaults for absent fields.
func ProfileFromUser(user *spotify.PrivateUser) Profile {
	p := DefaultProfile()
	if user == nil {
		return p
	}

	if user.DisplayName != "" {
		p.DisplayName = user.DisplayName
	}
	p.Email = user.Email
	p.Product = user.Product
	p.Followers = int(user.Followers.Count)
	if len(user.Images) > 0 {
		p.AvatarURL = user.Images[0].URL
	}

	return p
}

// TrackFromFull maps one provider track onto a [TrackResult].
//
// Only the first artist is used. The external link prefers the "spotify" entry.
func TrackFromFull(track spotify.FullTrack) TrackResult {
	r := TrackResult{
		TrackName:   UnknownTrack,
		ArtistName:  UnknownArtist,
		AlbumName:   UnknownAlbum,
		ExternalURL: NoLink,
		PreviewURL:  track.PreviewURL,
	}

	if track.Name != "" {
		r.TrackName = track.Name
	}
	if len(track.Artists) > 0 && track.Artists[0].Name != "" {
		r.ArtistName = track.Artists[0].Name
	}
	if track.Album.Name != "" {
		r.AlbumName = track.Album.Name
	}
	if link := track.ExternalURLs["spotify"]; link != "" {
		r.ExternalURL = link
	}

	return r
}

// TracksFromResult maps the track page of a search result, keeping provider order.
func TracksFromResult(result *spotify.SearchResult, limit int) []TrackResult {
	tracks := []TrackResult{}
	if result == nil || result.Tracks == nil {
		return tracks
	}

	for _, t := range result.Tracks.Tracks {
		if limit > 0 && len(tracks) >= limit {
			break
		}
		tracks = append(tracks, TrackFromFull(t))
	}
	return tracks
}

// ParseProfile decodes a raw /me response body.
//
// Malformed input returns [DefaultProfile] and an error wrapping [shared.ErrRemoteCallFailed].
func ParseProfile(data []byte) (Profile, error) {
	var user spotify.PrivateUser
	if err := json.Unmarshal(data, &user); err != nil {
		return DefaultProfile(), fmt.Errorf("%w: decode profile: %v", shared.ErrRemoteCallFailed, err)
	}
	return ProfileFromUser(&user), nil
}

// ParseTracks decodes a raw /search response body.
//
// Malformed input returns an empty slice and an error wrapping [shared.ErrRemoteCallFailed].
func ParseTracks(data []byte, limit int) ([]TrackResult, error) {
	var result spotify.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return []TrackResult{}, fmt.Errorf("%w: decode search: %v", shared.ErrRemoteCallFailed, err)
	}
	return TracksFromResult(&result, limit), nil
}
