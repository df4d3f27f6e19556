// Spotify Web API client for profile and catalog search calls
//
// Response types come from github.com/zmb3/spotify/v2; mapping into template records lives in mapping.go.
package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	// DefaultSearchLimit is the number of tracks returned when no limit is given.
	DefaultSearchLimit = 5
	// MaxSearchLimit is the provider's upper bound for one search page.
	MaxSearchLimit = 50
)

// SpotifyClient implements [MusicAPI]. Each call is a single round trip with no retry.
type SpotifyClient struct {
	baseURL string
	opts    ClientOpts
	logger  *log.Logger
}

// NewSpotifyClient creates a [SpotifyClient] using the configured API base URL.
func NewSpotifyClient(cfg shared.SpotifyConfig, opts ClientOpts) *SpotifyClient {
	opts = opts.withDefaults()
	_, _, apiURL := cfg.Endpoints()

	return &SpotifyClient{
		baseURL: apiURL,
		opts:    opts,
		logger:  shared.WithLogger(opts.Logger, "component", "spotify"),
	}
}

// client builds a per-call Web API client that sends token as the bearer credential.
func (c *SpotifyClient) client(ctx context.Context, token *AccessToken) *spotify.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.opts.HTTPClient)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token.OAuth2()))
	return spotify.New(httpClient, spotify.WithBaseURL(c.baseURL))
}

// FetchProfile retrieves /me and maps it with defaults.
//
// A missing token or failed call yields [DefaultProfile].
func (c *SpotifyClient) FetchProfile(ctx context.Context, token *AccessToken) Profile {
	if token == nil || token.Value == "" {
		c.logger.Warn("profile requested without token")
		return DefaultProfile()
	}

	user, err := c.client(ctx, token).CurrentUser(ctx)
	if err != nil {
		c.opts.Observer.ObserveRemoteCall("me", "failure")
		c.logger.Warn("profile fetch failed", "err", err)
		return DefaultProfile()
	}

	c.opts.Observer.ObserveRemoteCall("me", "success")
	return ProfileFromUser(user)
}

// SearchTracks searches the track catalog and returns at most limit results in provider order.
//
// An empty query returns an empty slice without a remote call. Failures also return an empty slice.
func (c *SpotifyClient) SearchTracks(ctx context.Context, token *AccessToken, query string, limit int) []TrackResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []TrackResult{}
	}
	if token == nil || token.Value == "" {
		c.logger.Warn("search requested without token")
		return []TrackResult{}
	}
	limit = normalizeLimit(limit)

	result, err := c.client(ctx, token).Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		c.opts.Observer.ObserveRemoteCall("search", "failure")
		c.logger.Warn("track search failed", "query", query, "err", err)
		return []TrackResult{}
	}

	c.opts.Observer.ObserveRemoteCall("search", "success")
	return TracksFromResult(result, limit)
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}
