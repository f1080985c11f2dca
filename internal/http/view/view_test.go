package view

import (
	"strings"
	"testing"
	"time"

	"github.com/sifan077/shortlink/internal/app/model"
)

func TestDashboardPageData_CountLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 links"},
		{1, "1 link"},
		{3, "3 links"},
	}
	for _, tt := range tests {
		d := DashboardPageData{Links: make([]DashboardLink, tt.n)}
		if got := d.CountLabel(); got != tt.want {
			t.Errorf("CountLabel() with %d links = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderDashboardPage(t *testing.T) {
	created := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	data := NewDashboardPageData("http://sho.rt/", []model.Link{
		{ShortCode: "abc1234", TargetURL: "https://example.com/a?x=<b>", CreatedAt: created},
	}, nil)

	html, err := RenderDashboardPage(data)
	if err != nil {
		t.Fatalf("RenderDashboardPage error: %v", err)
	}
	for _, want := range []string{
		"1 link",
		"abc1234",
		"http://sho.rt/abc1234",
		"Created 2024-03-09 at 14:05:07",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(html, "<b>") {
		t.Error("target URL was not escaped")
	}
	if strings.Contains(html, "No shortened links yet") {
		t.Error("empty state shown for a non-empty list")
	}
}

func TestRenderDashboardPage_Empty(t *testing.T) {
	html, err := RenderDashboardPage(NewDashboardPageData("http://sho.rt", nil, nil))
	if err != nil {
		t.Fatalf("RenderDashboardPage error: %v", err)
	}
	if !strings.Contains(html, "No shortened links yet") {
		t.Error("expected empty state")
	}
	if !strings.Contains(html, "0 links") {
		t.Error("expected zero count")
	}
}

func TestRenderLandingPage(t *testing.T) {
	html, err := RenderLandingPage(LandingPageData{SignInURL: "/sign-in"})
	if err != nil {
		t.Fatalf("RenderLandingPage error: %v", err)
	}
	if !strings.Contains(html, `href="/dashboard"`) || !strings.Contains(html, `href="/sign-in"`) {
		t.Error("landing page is missing its links")
	}
}

func TestShortURL(t *testing.T) {
	if got := ShortURL("http://sho.rt//", "abc"); got != "http://sho.rt/abc" {
		t.Errorf("ShortURL() = %q", got)
	}
}
