package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body+":"+r.PathValue("id"))
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Patterns", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/album/{id}/content", okHandler("album"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/album/3/content", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "album:3" {
			t.Errorf("expected album:3, got %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/album/3/content", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(tag("first"), tag("second"))
		r.Handle(http.MethodGet, "/", okHandler("root"))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second" {
			t.Errorf("expected first,second, got %v", order)
		}
	})

	t.Run("Custom Handler", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(&multiRoute{})

		for _, path := range []string{"/a", "/b"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Body.String() != "multi" {
				t.Errorf("%s: expected multi, got %q", path, rec.Body.String())
			}
		}
	})
}

type multiRoute struct{}

func (multiRoute) Routes() []string { return []string{"GET /a", "GET /b"} }

func (multiRoute) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	io.WriteString(w, "multi")
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestID", func(t *testing.T) {
		var seen string
		h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("expected generated id echoed, got %q / %q", seen, rec.Header().Get(RequestIDHeader))
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "abc" {
			t.Errorf("expected inbound id reused, got %q", seen)
		}
	})

	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		h := Logging(shared.NewLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/profile", nil))

		out := buf.String()
		for _, want := range []string{"/profile", "418", "GET"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected log to contain %q, got %s", want, out)
			}
		}
	})

	t.Run("Recover", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recover(shared.NewLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "boom") {
			t.Error("expected panic value to be logged")
		}
	})

	t.Run("RateLimit", func(t *testing.T) {
		h := RateLimit(NewLimiter(0.001, 1))(okHandler("ok"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected first request allowed, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", nil))
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", rec.Code)
		}
	})

	t.Run("RateLimit Disabled", func(t *testing.T) {
		if NewLimiter(0, 10) != nil {
			t.Fatal("expected nil limiter for zero rate")
		}
		h := RateLimit(nil)(okHandler("ok"))
		for range 5 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		}
	})
}

func TestMetrics(t *testing.T) {
	t.Run("Observer Counters", func(t *testing.T) {
		m := NewMetrics()
		m.ObserveExchange("client_credentials", "success")
		m.ObserveExchange("client_credentials", "success")
		m.ObserveRemoteCall("search", "failure")

		if got := testutil.ToFloat64(m.ExchangesTotal.WithLabelValues("client_credentials", "success")); got != 2 {
			t.Errorf("expected 2 exchanges, got %v", got)
		}
		if got := testutil.ToFloat64(m.RemoteCalls.WithLabelValues("search", "failure")); got != 1 {
			t.Errorf("expected 1 remote call, got %v", got)
		}
	})

	t.Run("Route Middleware", func(t *testing.T) {
		m := NewMetrics()
		r := NewBasicRouter()
		r.Use(m.Middleware())
		r.Handle(http.MethodGet, "/album/{id}/content", okHandler("album"))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/album/1/content", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/album/2/content", nil))

		got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET /album/{id}/content", "200"))
		if got != 2 {
			t.Errorf("expected 2 requests on pattern, got %v", got)
		}
	})

	t.Run("Exposition", func(t *testing.T) {
		m := NewMetrics()
		m.ObserveExchange("authorization_code", "failure")

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if !strings.Contains(rec.Body.String(), "soundcheck_token_exchanges_total") {
			t.Error("expected exchange counter in exposition output")
		}
	})
}

func TestServer(t *testing.T) {
	t.Run("Serve Until Cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/healthz", HealthHandler())
		srv := NewServer(shared.ServerConfig{Host: "127.0.0.1", Port: 0}, r, shared.NewLogger(io.Discard))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
			t.Errorf("unexpected health response: %d %s", resp.StatusCode, body)
		}

		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})
}
