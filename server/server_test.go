package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/palatebot/palate/internal/profile"
)

func TestHealthz(t *testing.T) {
	s := NewServer(&profile.Profile{Mode: "dev"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "Service ready." {
		t.Errorf("body = %q, want %q", got, "Service ready.")
	}
}

func TestServesMiniAppPage(t *testing.T) {
	s := NewServer(&profile.Profile{Mode: "dev"}, nil)

	for _, path := range []string{"/", "/index.html"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.echoServer.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
		}
		body := rec.Body.String()
		for _, marker := range []string{"telegram-web-app.js", "fruits", "vegetables", "meat", "dairy"} {
			if !strings.Contains(body, marker) {
				t.Errorf("GET %s body missing %q", path, marker)
			}
		}
	}
}
