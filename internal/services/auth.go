package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundcheck/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	GrantAuthorizationCode = "authorization_code"
	GrantClientCredentials = "client_credentials"
)

// Scopes requested during the Authorization Code flow.
var Scopes = []string{spotifyauth.ScopeUserReadPrivate, spotifyauth.ScopeUserReadEmail}

// FlowState tracks one pass through the Authorization Code flow.
type FlowState int

const (
	FlowNotStarted FlowState = iota
	FlowRedirected
	FlowCodeReceived
	FlowTokenExchanged
	FlowExchangeFailed
)

func (s FlowState) String() string {
	switch s {
	case FlowNotStarted:
		return "not_started"
	case FlowRedirected:
		return "redirected"
	case FlowCodeReceived:
		return "code_received"
	case FlowTokenExchanged:
		return "token_exchanged"
	case FlowExchangeFailed:
		return "exchange_failed"
	default:
		return fmt.Sprintf("FlowState(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s FlowState) Terminal() bool {
	return s == FlowTokenExchanged || s == FlowExchangeFailed
}

// Authenticator implements [Authorizer] against the Spotify accounts service.
//
// The code grant sends client credentials in the form body; the client credentials
// grant sends them as HTTP Basic auth.
type Authenticator struct {
	code   *oauth2.Config
	app    *clientcredentials.Config
	opts   ClientOpts
	logger *log.Logger
}

// NewAuthenticator creates an [Authenticator] from configured credentials.
func NewAuthenticator(cfg shared.SpotifyConfig, opts ClientOpts) (*Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	opts = opts.withDefaults()
	authURL, tokenURL, _ := cfg.Endpoints()

	return &Authenticator{
		code: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		app: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		opts:   opts,
		logger: shared.WithLogger(opts.Logger, "component", "auth"),
	}, nil
}

// AuthorizationURL returns the consent URL: response_type, client_id, redirect_uri and scope.
//
// The result depends only on configuration.
func (a *Authenticator) AuthorizationURL() string {
	return a.code.AuthCodeURL("")
}

// ExchangeCode performs the authorization_code grant.
//
// Errors wrap [shared.ErrAuthExchangeFailed].
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (*AccessToken, error) {
	if strings.TrimSpace(code) == "" {
		a.opts.Observer.ObserveExchange(GrantAuthorizationCode, "rejected")
		return nil, fmt.Errorf("%w: empty authorization code", shared.ErrAuthExchangeFailed)
	}

	tok, err := a.code.Exchange(a.clientContext(ctx), code)
	return a.finish(GrantAuthorizationCode, tok, err)
}

// ClientCredentials performs the client_credentials grant.
//
// Errors wrap [shared.ErrAuthExchangeFailed].
func (a *Authenticator) ClientCredentials(ctx context.Context) (*AccessToken, error) {
	tok, err := a.app.Token(a.clientContext(ctx))
	return a.finish(GrantClientCredentials, tok, err)
}

func (a *Authenticator) finish(grant string, tok *oauth2.Token, err error) (*AccessToken, error) {
	if err == nil && (tok == nil || tok.AccessToken == "") {
		err = fmt.Errorf("response missing access_token")
	}
	if err != nil {
		a.opts.Observer.ObserveExchange(grant, "failure")
		a.logger.Warn("token exchange failed", "grant", grant, "err", err)
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrAuthExchangeFailed, grant, err)
	}

	a.opts.Observer.ObserveExchange(grant, "success")
	a.logger.Debug("token exchanged", "grant", grant, "expiry", tok.Expiry)
	return tokenFromOAuth2(tok), nil
}

// clientContext routes oauth2 requests through the configured HTTP client.
func (a *Authenticator) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.opts.HTTPClient)
}
