package services

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundcheck/internal/shared"
	"golang.org/x/oauth2"
)

// Authorizer builds the consent redirect and exchanges grants for tokens.
type Authorizer interface {
	// AuthorizationURL returns the provider /authorize URL for the Authorization Code flow.
	AuthorizationURL() string

	// ExchangeCode trades an authorization code for a user token.
	ExchangeCode(ctx context.Context, code string) (*AccessToken, error)

	// ClientCredentials obtains an app-only token for catalog calls.
	ClientCredentials(ctx context.Context) (*AccessToken, error)
}

// MusicAPI issues authenticated Web API calls. Failures degrade to default records.
type MusicAPI interface {
	FetchProfile(ctx context.Context, token *AccessToken) Profile
	SearchTracks(ctx context.Context, token *AccessToken, query string, limit int) []TrackResult
}

// Observer receives outcome counts for token exchanges and remote calls.
type Observer interface {
	ObserveExchange(grant, outcome string)
	ObserveRemoteCall(endpoint, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveExchange(string, string)   {}
func (nopObserver) ObserveRemoteCall(string, string) {}

// ClientOpts contains optional collaborators shared by [Authenticator] and [SpotifyClient].
type ClientOpts struct {
	HTTPClient *http.Client
	Logger     *log.Logger
	Observer   Observer
}

func (o ClientOpts) withDefaults() ClientOpts {
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Logger == nil {
		o.Logger = shared.NewLogger(nil)
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

// AccessToken is a bearer credential obtained from a token exchange.
//
// Expiry is zero when the provider did not declare one.
type AccessToken struct {
	Value  string    `json:"access_token"`
	Type   string    `json:"token_type"`
	Expiry time.Time `json:"expiry,omitzero"`
}

// Valid reports whether the token carries a value and has not expired.
func (t *AccessToken) Valid() bool {
	if t == nil || t.Value == "" {
		return false
	}
	return t.Expiry.IsZero() || time.Now().Before(t.Expiry)
}

// OAuth2 converts the token for use with an [oauth2.TokenSource].
func (t *AccessToken) OAuth2() *oauth2.Token {
	return &oauth2.Token{AccessToken: t.Value, TokenType: t.Type, Expiry: t.Expiry}
}

func tokenFromOAuth2(tok *oauth2.Token) *AccessToken {
	return &AccessToken{Value: tok.AccessToken, Type: tok.Type(), Expiry: tok.Expiry}
}

// Profile is the template-ready view of the current user's provider profile.
type Profile struct {
	DisplayName string
	Email       string
	AvatarURL   string // empty when the user has no profile image
	Followers   int
	Product     string
}

// HasAvatar reports whether the profile carries an image URL.
func (p Profile) HasAvatar() bool {
	return p.AvatarURL != ""
}

// TrackResult is one row of a track search.
type TrackResult struct {
	TrackName   string `json:"track_name"`
	ArtistName  string `json:"artist_name"`
	AlbumName   string `json:"album_name"`
	ExternalURL string `json:"spotify_link"`
	PreviewURL  string `json:"preview_url,omitempty"` // empty when no preview is licensed
}

// HasPreview reports whether an audio preview is available.
func (t TrackResult) HasPreview() bool {
	return t.PreviewURL != ""
}
