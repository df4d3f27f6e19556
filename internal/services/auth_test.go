package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/soundcheck/internal/shared"
)

type recordingObserver struct {
	mu        sync.Mutex
	exchanges []string
	calls     []string
}

func (o *recordingObserver) ObserveExchange(grant, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exchanges = append(o.exchanges, grant+":"+outcome)
}

func (o *recordingObserver) ObserveRemoteCall(endpoint, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, endpoint+":"+outcome)
}

func testCredentials(tokenURL string) shared.SpotifyConfig {
	return shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		RedirectURI:  "http://127.0.0.1:3000/callback",
		TokenURL:     tokenURL,
	}
}

func TestAuthenticator(t *testing.T) {
	t.Run("NewAuthenticator", func(t *testing.T) {
		t.Run("Missing Client ID", func(t *testing.T) {
			cfg := testCredentials("")
			cfg.ClientID = ""

			_, err := NewAuthenticator(cfg, ClientOpts{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			cfg := testCredentials("")
			cfg.ClientSecret = ""

			if _, err := NewAuthenticator(cfg, ClientOpts{}); err == nil {
				t.Error("expected error for missing client_secret")
			}
		})
	})

	t.Run("AuthorizationURL", func(t *testing.T) {
		auth, err := NewAuthenticator(testCredentials(""), ClientOpts{})
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		first := auth.AuthorizationURL()
		if first != auth.AuthorizationURL() {
			t.Error("expected identical URLs for identical configuration")
		}

		u, err := url.Parse(first)
		if err != nil {
			t.Fatalf("invalid URL %q: %v", first, err)
		}

		if u.Host != "accounts.spotify.com" || u.Path != "/authorize" {
			t.Errorf("expected Spotify authorize endpoint, got %s", u.Host+u.Path)
		}

		want := map[string]string{
			"response_type": "code",
			"client_id":     "test_client_id",
			"redirect_uri":  "http://127.0.0.1:3000/callback",
			"scope":         "user-read-private user-read-email",
		}
		q := u.Query()
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("expected %s=%q, got %q", k, v, got)
			}
		}

		if q.Has("state") {
			t.Error("authorization URL should not carry a state parameter")
		}
		if strings.Contains(first, "test_client_secret") {
			t.Error("authorization URL must not contain the client secret")
		}
	})

	t.Run("ExchangeCode", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}

				want := map[string]string{
					"grant_type":    "authorization_code",
					"code":          "abc",
					"redirect_uri":  "http://127.0.0.1:3000/callback",
					"client_id":     "test_client_id",
					"client_secret": "test_client_secret",
				}
				for k, v := range want {
					if got := r.PostForm.Get(k); got != v {
						t.Errorf("expected form %s=%q, got %q", k, v, got)
					}
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"tok1"}`))
			}))
			defer server.Close()

			obs := &recordingObserver{}
			auth, err := NewAuthenticator(testCredentials(server.URL), ClientOpts{Observer: obs})
			if err != nil {
				t.Fatalf("failed to create authenticator: %v", err)
			}

			tok, err := auth.ExchangeCode(context.Background(), "abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if tok.Value != "tok1" {
				t.Errorf("expected token tok1, got %s", tok.Value)
			}
			if tok.Type != "Bearer" {
				t.Errorf("expected Bearer token type, got %s", tok.Type)
			}
			if !tok.Valid() {
				t.Error("expected token without expiry to be valid")
			}
			if len(obs.exchanges) != 1 || obs.exchanges[0] != "authorization_code:success" {
				t.Errorf("unexpected observations %v", obs.exchanges)
			}
		})

		t.Run("Provider Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant"}`))
			}))
			defer server.Close()

			auth, _ := NewAuthenticator(testCredentials(server.URL), ClientOpts{})
			tok, err := auth.ExchangeCode(context.Background(), "expired")
			if !errors.Is(err, shared.ErrAuthExchangeFailed) {
				t.Errorf("expected ErrAuthExchangeFailed, got %v", err)
			}
			if tok != nil {
				t.Error("expected no token on failure")
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{not json`))
			}))
			defer server.Close()

			auth, _ := NewAuthenticator(testCredentials(server.URL), ClientOpts{})
			if _, err := auth.ExchangeCode(context.Background(), "abc"); !errors.Is(err, shared.ErrAuthExchangeFailed) {
				t.Errorf("expected ErrAuthExchangeFailed, got %v", err)
			}
		})

		t.Run("Empty Code", func(t *testing.T) {
			hit := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hit = true
			}))
			defer server.Close()

			obs := &recordingObserver{}
			auth, _ := NewAuthenticator(testCredentials(server.URL), ClientOpts{Observer: obs})
			if _, err := auth.ExchangeCode(context.Background(), " "); !errors.Is(err, shared.ErrAuthExchangeFailed) {
				t.Errorf("expected ErrAuthExchangeFailed, got %v", err)
			}
			if hit {
				t.Error("empty code should not reach the token endpoint")
			}
			if len(obs.exchanges) != 1 || obs.exchanges[0] != "authorization_code:rejected" {
				t.Errorf("unexpected observations %v", obs.exchanges)
			}
		})
	})

	t.Run("ClientCredentials", func(t *testing.T) {
		t.Run("Uses Basic Auth", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, pass, ok := r.BasicAuth()
				if !ok || user != "test_client_id" || pass != "test_client_secret" {
					t.Errorf("expected basic auth with client credentials, got %q/%q (%v)", user, pass, ok)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
					t.Errorf("expected client_credentials grant, got %q", got)
				}
				if r.PostForm.Has("client_secret") {
					t.Error("client secret should not be sent in the body")
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"app-token","token_type":"Bearer","expires_in":3600}`))
			}))
			defer server.Close()

			auth, _ := NewAuthenticator(testCredentials(server.URL), ClientOpts{})
			tok, err := auth.ClientCredentials(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if tok.Value != "app-token" {
				t.Errorf("expected app-token, got %s", tok.Value)
			}
			if tok.Expiry.IsZero() {
				t.Error("expected expiry from expires_in")
			}
		})

		t.Run("Failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			obs := &recordingObserver{}
			auth, _ := NewAuthenticator(testCredentials(server.URL), ClientOpts{Observer: obs})
			if _, err := auth.ClientCredentials(context.Background()); !errors.Is(err, shared.ErrAuthExchangeFailed) {
				t.Errorf("expected ErrAuthExchangeFailed, got %v", err)
			}
			if len(obs.exchanges) != 1 || obs.exchanges[0] != "client_credentials:failure" {
				t.Errorf("unexpected observations %v", obs.exchanges)
			}
		})
	})
}

func TestFlowState(t *testing.T) {
	tc := []struct {
		state    FlowState
		name     string
		terminal bool
	}{
		{FlowNotStarted, "not_started", false},
		{FlowRedirected, "redirected", false},
		{FlowCodeReceived, "code_received", false},
		{FlowTokenExchanged, "token_exchanged", true},
		{FlowExchangeFailed, "exchange_failed", true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if tt.state.String() != tt.name {
				t.Errorf("String() = %s, want %s", tt.state, tt.name)
			}
			if tt.state.Terminal() != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", tt.state.Terminal(), tt.terminal)
			}
		})
	}
}
