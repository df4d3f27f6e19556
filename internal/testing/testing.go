// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/shared"
)

// MockAuthorizer is a test double for [services.Authorizer].
//
// Nil tokens make the matching exchange fail with [shared.ErrAuthExchangeFailed].
type MockAuthorizer struct {
	URL       string
	CodeToken *services.AccessToken
	AppToken  *services.AccessToken

	mu    sync.Mutex
	codes []string
	apps  int
}

func (m *MockAuthorizer) AuthorizationURL() string { return m.URL }

func (m *MockAuthorizer) ExchangeCode(ctx context.Context, code string) (*services.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)

	if m.CodeToken == nil || code == "" {
		return nil, shared.ErrAuthExchangeFailed
	}
	tok := *m.CodeToken
	return &tok, nil
}

func (m *MockAuthorizer) ClientCredentials(ctx context.Context) (*services.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps++

	if m.AppToken == nil {
		return nil, shared.ErrAuthExchangeFailed
	}
	tok := *m.AppToken
	return &tok, nil
}

// Codes returns every code passed to ExchangeCode.
func (m *MockAuthorizer) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.codes...)
}

// ClientCredentialCalls counts ClientCredentials invocations.
func (m *MockAuthorizer) ClientCredentialCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apps
}

// MockMusicAPI is a test double for [services.MusicAPI] that records the tokens it receives.
type MockMusicAPI struct {
	Profile services.Profile
	Tracks  []services.TrackResult

	mu       sync.Mutex
	profiles []string
	searches []string
}

func (m *MockMusicAPI) FetchProfile(ctx context.Context, token *services.AccessToken) services.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, token.Value)
	return m.Profile
}

func (m *MockMusicAPI) SearchTracks(ctx context.Context, token *services.AccessToken, query string, limit int) []services.TrackResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, query)

	if limit > 0 && len(m.Tracks) > limit {
		return append([]services.TrackResult(nil), m.Tracks[:limit]...)
	}
	return append([]services.TrackResult(nil), m.Tracks...)
}

// ProfileCalls returns the token values passed to FetchProfile.
func (m *MockMusicAPI) ProfileCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.profiles...)
}

// SearchCalls returns the queries passed to SearchTracks.
func (m *MockMusicAPI) SearchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
