package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/soundcheck/internal/catalog"
	"github.com/desertthunder/soundcheck/internal/services"
)

// Styles is the default palette, built around Spotify green.
var Styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// On sets the background color.
func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Padding(0, 1).Render(s)
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

// Albums renders one line per album, tinted with its background color.
func (p *Palette) Albums(albums []catalog.Album) string {
	var b strings.Builder
	b.WriteString(p.Title(fmt.Sprintf("Albums (%d)", len(albums))))
	b.WriteString("\n\n")

	for _, a := range albums {
		fmt.Fprintf(&b, "%2d %s %s\n", a.ID, p.On(a.Name, lipgloss.Color(a.BgColor)), p.Help(a.Description))
	}
	return b.String()
}

// Songs renders one line per song with its duration.
func (p *Palette) Songs(songs []catalog.Song) string {
	var b strings.Builder
	b.WriteString(p.Title(fmt.Sprintf("Songs (%d)", len(songs))))
	b.WriteString("\n\n")

	for _, s := range songs {
		fmt.Fprintf(&b, "%2d %-12s %s\n", s.ID, s.Name, p.Help(s.Duration))
	}
	return b.String()
}

// Tracks renders search results. An empty slice renders a warning line.
func (p *Palette) Tracks(query string, tracks []services.TrackResult) string {
	var b strings.Builder
	b.WriteString(p.Title(fmt.Sprintf("Results for %q", query)))
	b.WriteString("\n\n")

	if len(tracks) == 0 {
		b.WriteString(p.Warn("No tracks found."))
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range tracks {
		fmt.Fprintf(&b, "%d. %s %s %s\n", i+1, p.OK(t.TrackName), t.ArtistName, p.Help(t.AlbumName))
		if t.ExternalURL != services.NoLink {
			fmt.Fprintf(&b, "   %s\n", p.Help(t.ExternalURL))
		}
	}
	return b.String()
}

// Profile renders a user profile card.
func (p *Palette) Profile(profile services.Profile) string {
	var b strings.Builder
	b.WriteString(p.Title(profile.DisplayName))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Followers: %s\n", p.OK(fmt.Sprint(profile.Followers)))
	if profile.Email != "" {
		fmt.Fprintf(&b, "Email:     %s\n", profile.Email)
	}
	if profile.Product != "" {
		fmt.Fprintf(&b, "Plan:      %s\n", profile.Product)
	}
	if profile.HasAvatar() {
		fmt.Fprintf(&b, "Avatar:    %s\n", p.Help(profile.AvatarURL))
	}
	return b.String()
}
