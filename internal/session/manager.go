package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundcheck/internal/shared"
)

// DefaultTTL is used when no session lifetime is configured.
const DefaultTTL = time.Hour

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by [Manager.Middleware], or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// ManagerOpts configures a [Manager].
type ManagerOpts struct {
	TTL    time.Duration
	Cookie CookieOptions
	Logger *log.Logger
}

// Manager ties a [Store] to signed cookies.
type Manager struct {
	store  Store
	signer Signer
	ttl    time.Duration
	cookie CookieOptions
	logger *log.Logger
	now    func() time.Time
}

// NewManager creates a [Manager]. secret signs the session cookie and must not be empty.
func NewManager(store Store, secret string, opts ManagerOpts) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: session secret", shared.ErrMissingConfig)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Manager{
		store:  store,
		signer: NewSigner(secret),
		ttl:    opts.TTL,
		cookie: opts.Cookie,
		logger: shared.WithLogger(opts.Logger, "component", "session"),
		now:    time.Now,
	}, nil
}

// Load returns the session named by the request cookie, or a new unsaved session.
//
// A missing, tampered or expired cookie yields a new session.
func (m *Manager) Load(r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if id, ok := m.signer.Verify(c.Value); ok {
			s, err := m.store.Get(r.Context(), id)
			if err != nil {
				m.logger.Warn("session lookup failed", "err", err)
			} else if s != nil {
				return s
			}
		} else {
			m.logger.Debug("rejected session cookie with bad signature")
		}
	}

	return &Session{ID: shared.GenerateID()}
}

// Save persists s, extends its expiry and (re)issues the cookie.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, s *Session) error {
	s.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Save(r.Context(), s); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	SetCookie(w, m.signer.Sign(s.ID), s.ExpiresAt, m.cookie)
	return nil
}

// Renew moves s to a fresh id, saves it and removes the record under the previous id.
//
// Called when a session gains a token so an id issued before login cannot be reused.
func (m *Manager) Renew(w http.ResponseWriter, r *http.Request, s *Session) error {
	previous := s.ID
	s.ID = shared.GenerateID()

	if err := m.Save(w, r, s); err != nil {
		return err
	}
	if previous == "" {
		return nil
	}
	if err := m.store.Delete(r.Context(), previous); err != nil {
		return fmt.Errorf("session: delete previous: %w", err)
	}
	return nil
}

// Destroy removes s from the store and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request, s *Session) error {
	ClearCookie(w, m.cookie)
	if s == nil {
		return nil
	}
	if err := m.store.Delete(r.Context(), s.ID); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// Middleware loads the request's session and attaches it to the request context.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := m.Load(r)
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
		})
	}
}
