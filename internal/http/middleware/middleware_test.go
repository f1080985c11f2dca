package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/sifan077/shortlink/internal/errors"
	"go.uber.org/zap"
)

type stubIdentity struct {
	tokens map[string]string
}

func (s stubIdentity) Identify(_ context.Context, token string) (string, error) {
	if owner, ok := s.tokens[token]; ok {
		return owner, nil
	}
	return "", apperrors.ErrUnauthenticated
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Use(RequireOwner(AuthConfig{
		Identity:   stubIdentity{tokens: map[string]string{"good": "user_1"}},
		CookieName: "__session",
		SignInURL:  "/sign-in",
	}))
	handler := func(c *fiber.Ctx) error {
		return c.SendString(OwnerID(c))
	}
	app.Get("/api/links", handler)
	app.Get("/dashboard", handler)
	return app
}

func TestRequireOwner(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name         string
		path         string
		header       string
		cookie       string
		wantStatus   int
		wantBody     string
		wantLocation string
	}{
		{name: "no session api", path: "/api/links", wantStatus: http.StatusUnauthorized},
		{name: "no session browser", path: "/dashboard", wantStatus: http.StatusFound, wantLocation: "/sign-in"},
		{name: "bad bearer api", path: "/api/links", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "bearer", path: "/api/links", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "user_1"},
		{name: "lowercase bearer", path: "/api/links", header: "bearer good", wantStatus: http.StatusOK, wantBody: "user_1"},
		{name: "cookie", path: "/dashboard", cookie: "good", wantStatus: http.StatusOK, wantBody: "user_1"},
		{name: "basic auth ignored", path: "/api/links", header: "Basic good", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "__session", Value: tt.cookie})
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantLocation != "" && resp.Header.Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, want %q", resp.Header.Get("Location"), tt.wantLocation)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	generated := resp.Header.Get(RequestIDHeader)
	if generated == "" {
		t.Fatal("expected a generated request id")
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != generated {
		t.Errorf("locals id %q does not match header %q", body, generated)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("inbound id not reused, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 100))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); len(got) > maxRequestIDLength {
		t.Errorf("oversized inbound id was kept")
	}
}

func TestRecovery(t *testing.T) {
	app := fiber.New()
	app.Use(Recovery(zap.NewNop()))
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "boom") {
		t.Error("panic value leaked to the client")
	}
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS("https://app.example.com"))
	app.Get("/api/links", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/links", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(Logger(zap.NewNop(), "/health"))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	for path, want := range map[string]int{"/health": 200, "/missing": 404} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("app.Test error: %v", err)
		}
		if resp.StatusCode != want {
			t.Errorf("%s status = %d, want %d", path, resp.StatusCode, want)
		}
	}
}
