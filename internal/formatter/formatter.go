// package formatter renders search results and catalog listings as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/soundcheck/internal/catalog"
	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/shared"
)

// Format names an output encoding accepted by the CLI.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "text"
)

// ParseFormat validates a --format flag value. Empty selects [FormatTable].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown, FormatText:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// TracksToCSV converts search results to CSV with columns: Track, Artist, Album, Link, Preview
func TracksToCSV(tracks []services.TrackResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Track", "Artist", "Album", "Link", "Preview"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, t := range tracks {
		if err := writer.Write([]string{t.TrackName, t.ArtistName, t.AlbumName, t.ExternalURL, t.PreviewURL}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown renders search results as a numbered Markdown list under a heading for query.
func TracksToMarkdown(query string, tracks []services.TrackResult) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Results for %q\n\n", query)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(tracks))

	for i, t := range tracks {
		link := t.TrackName
		if t.ExternalURL != services.NoLink {
			link = fmt.Sprintf("[%s](%s)", t.TrackName, t.ExternalURL)
		}
		fmt.Fprintf(&buf, "%d. %s - %s (%s)", i+1, t.ArtistName, link, t.AlbumName)
		if t.HasPreview() {
			fmt.Fprintf(&buf, " [preview](%s)", t.PreviewURL)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// TracksToText renders search results one per line.
func TracksToText(tracks []services.TrackResult) []byte {
	var buf bytes.Buffer
	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s (%s)\n", i+1, t.ArtistName, t.TrackName, t.AlbumName)
	}
	return buf.Bytes()
}

// CatalogToCSV converts albums and songs to CSV with a leading Kind column.
func CatalogToCSV(albums []catalog.Album, songs []catalog.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Kind", "ID", "Name", "Description", "Detail"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range albums {
		if err := writer.Write([]string{"album", strconv.Itoa(a.ID), a.Name, a.Description, a.BgColor}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for _, s := range songs {
		if err := writer.Write([]string{"song", strconv.Itoa(s.ID), s.Name, s.Description, s.Duration}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// CatalogToMarkdown renders albums and songs as two Markdown sections.
func CatalogToMarkdown(albums []catalog.Album, songs []catalog.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString("## Albums\n\n")
	for _, a := range albums {
		fmt.Fprintf(&buf, "- **%s** (%d): %s\n", a.Name, a.ID, a.Description)
	}

	buf.WriteString("\n## Songs\n\n")
	for i, s := range songs {
		fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, s.Name, s.Duration)
	}

	return buf.Bytes()
}

// CatalogToText renders albums and songs as plain text.
func CatalogToText(albums []catalog.Album, songs []catalog.Song) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Albums: %d\n", len(albums))
	for _, a := range albums {
		fmt.Fprintf(&buf, "%d. %s\n", a.ID, a.Name)
	}

	fmt.Fprintf(&buf, "\nSongs: %d\n", len(songs))
	for _, s := range songs {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", s.ID, s.Name, s.Duration)
	}

	return buf.Bytes()
}
