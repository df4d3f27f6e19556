package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/shared"
)

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	m, err := NewManager(store, "signing-secret", ManagerOpts{TTL: time.Minute})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

// cookieFrom returns the session cookie set on rec.
func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSession(t *testing.T) {
	t.Run("GetToken", func(t *testing.T) {
		var nilSession *Session
		if nilSession.GetToken() != nil {
			t.Error("nil session should have no token")
		}

		s := &Session{ID: "a"}
		if s.GetToken() != nil {
			t.Error("new session should have no token")
		}

		s.SetToken(&services.AccessToken{Value: "tok1", Type: "Bearer"})
		if got := s.GetToken(); got == nil || got.Value != "tok1" {
			t.Errorf("expected tok1, got %+v", got)
		}

		s.SetToken(&services.AccessToken{Value: "tok2", Type: "Bearer"})
		if got := s.GetToken(); got.Value != "tok2" {
			t.Errorf("expected overwrite with tok2, got %s", got.Value)
		}

		s.SetToken(&services.AccessToken{Value: "old", Expiry: time.Now().Add(-time.Minute)})
		if s.GetToken() != nil {
			t.Error("expired token should read as absent")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Save Get Delete", func(t *testing.T) {
		store := NewMemoryStore()
		s := &Session{ID: "abc", ExpiresAt: time.Now().Add(time.Minute)}

		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Get(ctx, "abc")
		if err != nil || got == nil {
			t.Fatalf("expected session, got %v (%v)", got, err)
		}

		got.SetToken(&services.AccessToken{Value: "mutated"})
		again, _ := store.Get(ctx, "abc")
		if again.Token != nil {
			t.Error("store should hand out copies")
		}

		if err := store.Delete(ctx, "abc"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if got, _ := store.Get(ctx, "abc"); got != nil {
			t.Error("expected session to be deleted")
		}
	})

	t.Run("Expired Sessions Are Dropped", func(t *testing.T) {
		store := NewMemoryStore()
		store.Save(ctx, &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)})

		if got, _ := store.Get(ctx, "old"); got != nil {
			t.Error("expected expired session to be absent")
		}
		if store.Len() != 0 {
			t.Errorf("expected expired session removed, len=%d", store.Len())
		}
	})

	t.Run("Sweep", func(t *testing.T) {
		store := NewMemoryStore()
		store.Save(ctx, &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)})
		store.Save(ctx, &Session{ID: "live", ExpiresAt: time.Now().Add(time.Minute)})

		if n := store.Sweep(); n != 1 {
			t.Errorf("expected 1 dropped, got %d", n)
		}
		if store.Len() != 1 {
			t.Errorf("expected live session kept, len=%d", store.Len())
		}
	})

	t.Run("Unknown ID", func(t *testing.T) {
		got, err := NewMemoryStore().Get(ctx, "missing")
		if got != nil || err != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", got, err)
		}
	})
}

func TestSigner(t *testing.T) {
	signer := NewSigner("k1")
	value := signer.Sign("session-id")

	if id, ok := signer.Verify(value); !ok || id != "session-id" {
		t.Errorf("expected valid signature, got %q %v", id, ok)
	}

	if _, ok := NewSigner("k2").Verify(value); ok {
		t.Error("signature from another key should be rejected")
	}

	tampered := strings.Replace(value, "session-id", "other-id", 1)
	if _, ok := signer.Verify(tampered); ok {
		t.Error("tampered id should be rejected")
	}

	for _, bad := range []string{"", "no-dot", ".mac"} {
		if _, ok := signer.Verify(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestManager(t *testing.T) {
	t.Run("Requires Secret", func(t *testing.T) {
		_, err := NewManager(NewMemoryStore(), "", ManagerOpts{})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store := NewMemoryStore()
		m := newTestManager(t, store)

		req := httptest.NewRequest(http.MethodGet, "/callback", nil)
		s := m.Load(req)
		if s.ID == "" {
			t.Fatal("expected new session id")
		}
		if store.Len() != 0 {
			t.Error("loading should not persist a new session")
		}

		s.SetToken(&services.AccessToken{Value: "tok1", Type: "Bearer"})
		rec := httptest.NewRecorder()
		if err := m.Save(rec, req, s); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		cookie := cookieFrom(t, rec)
		if !cookie.HttpOnly {
			t.Error("session cookie should be HttpOnly")
		}

		next := httptest.NewRequest(http.MethodGet, "/profile", nil)
		next.AddCookie(cookie)

		loaded := m.Load(next)
		if loaded.ID != s.ID {
			t.Errorf("expected same session, got %s want %s", loaded.ID, s.ID)
		}
		if tok := loaded.GetToken(); tok == nil || tok.Value != "tok1" {
			t.Errorf("expected tok1, got %+v", tok)
		}
	})

	t.Run("Tampered Cookie Starts Fresh", func(t *testing.T) {
		store := NewMemoryStore()
		m := newTestManager(t, store)
		store.Save(context.Background(), &Session{ID: "victim", Token: &services.AccessToken{Value: "secret"}})

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "victim.forged"})

		s := m.Load(req)
		if s.ID == "victim" || s.GetToken() != nil {
			t.Error("forged cookie must not resolve to a stored session")
		}
	})

	t.Run("Renew", func(t *testing.T) {
		store := NewMemoryStore()
		m := newTestManager(t, store)

		req := httptest.NewRequest(http.MethodGet, "/callback", nil)
		s := m.Load(req)
		m.Save(httptest.NewRecorder(), req, s)
		previous := s.ID

		s.SetToken(&services.AccessToken{Value: "tok1", Type: "Bearer"})
		rec := httptest.NewRecorder()
		if err := m.Renew(rec, req, s); err != nil {
			t.Fatalf("renew failed: %v", err)
		}

		if s.ID == previous {
			t.Error("expected a new session id")
		}
		if got, _ := store.Get(context.Background(), previous); got != nil {
			t.Error("previous id should be removed")
		}
		if store.Len() != 1 {
			t.Errorf("expected one stored session, got %d", store.Len())
		}

		next := httptest.NewRequest(http.MethodGet, "/profile", nil)
		next.AddCookie(cookieFrom(t, rec))
		if loaded := m.Load(next); loaded.ID != s.ID || loaded.GetToken() == nil {
			t.Errorf("cookie should resolve to the renewed session, got %+v", loaded)
		}
	})

	t.Run("Destroy", func(t *testing.T) {
		store := NewMemoryStore()
		m := newTestManager(t, store)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		s := m.Load(req)
		m.Save(httptest.NewRecorder(), req, s)

		rec := httptest.NewRecorder()
		if err := m.Destroy(rec, req, s); err != nil {
			t.Fatalf("destroy failed: %v", err)
		}
		if store.Len() != 0 {
			t.Error("expected session removed from store")
		}
		if c := cookieFrom(t, rec); c.MaxAge >= 0 {
			t.Errorf("expected expiring cookie, got MaxAge %d", c.MaxAge)
		}
	})

	t.Run("Middleware", func(t *testing.T) {
		m := newTestManager(t, NewMemoryStore())

		var seen *Session
		handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = FromContext(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == nil {
			t.Fatal("expected session in request context")
		}
		if FromContext(context.Background()) != nil {
			t.Error("expected nil session for bare context")
		}
	})
}

func TestRedisStore(t *testing.T) {
	t.Run("Key Prefix", func(t *testing.T) {
		store := NewRedisStore(nil)
		if got := store.key("abc"); got != "session:abc" {
			t.Errorf("expected session:abc, got %s", got)
		}
	})

	t.Run("Save Requires ID", func(t *testing.T) {
		store := NewRedisStore(nil)
		if err := store.Save(context.Background(), &Session{}); err == nil {
			t.Error("expected error for missing id")
		}
	})

	t.Run("Unreachable Server", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if _, err := NewRedisClient(ctx, shared.RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
			t.Error("expected ping failure")
		}
	})
}
