package internal

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/testutil"
)

func testHandler(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	src := &testutil.StaticSource{Catalog: testutil.SampleCatalog(t)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	svc, err := portfolio.NewService(src, testutil.TestDB(t), portfolio.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	return Handler(svc, cfg, nil)
}

func TestHandler_HealthIsPublic(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: "t"}
	h := testHandler(t, cfg)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["revision"] == "" {
		t.Errorf("ready body = %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("api without token = %d, want 401", w.Code)
	}
}

func TestHandler_APIMounted(t *testing.T) {
	h := testHandler(t, NewDefaultConfig())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/modules", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Vibe Coding") {
		t.Errorf("modules = %d %s", w.Code, w.Body.String())
	}
}

func TestValidateCatalog(t *testing.T) {
	cfg := NewDefaultConfig()
	cat, err := ValidateCatalog(WithConfig(cfg))
	if err != nil {
		t.Fatalf("embedded catalog should validate: %v", err)
	}
	if cat.Len() != 6 {
		t.Errorf("embedded projects = %d, want 6", cat.Len())
	}

	root := t.TempDir()
	testutil.WriteFile(t, root, "a.yaml", "projects:\n  - id: P1\n    module: M\n  - id: P1\n    module: M\n")
	cfg.Catalog.Path = root
	if _, err := ValidateCatalog(WithConfig(cfg)); err == nil {
		t.Error("duplicate ids should fail validation")
	}

	if _, err := ValidateCatalog(WithConfig(cfg), WithSource(catalog.Embedded())); err != nil {
		t.Errorf("explicit source should win over path: %v", err)
	}
}

func TestValidateCatalog_RequiresConfig(t *testing.T) {
	if _, err := ValidateCatalog(); err == nil {
		t.Error("missing config should fail")
	}
}
