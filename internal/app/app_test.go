package app

import (
	"bytes"
	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository/testutil"
	"career_compass_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "app-test-secret-app-test-secret-0000"

const valueBundle = `{
  "category": "Value",
  "version": "test",
  "features": ["q1", "q2"],
  "answer_scale": {"min": 0, "max": 10},
  "outputs": [
    {"name": "A Score", "kind": "linear", "features": ["q1"], "weights": [1]},
    {"name": "B Score", "kind": "linear", "features": ["q2"], "weights": [1]}
  ]
}`

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	models := filepath.Join(dir, "artifacts")
	if err := os.MkdirAll(models, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(models, "value.json"), []byte(valueBundle), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "app.db")},
		JWT:      config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Storage:  config.StorageConfig{Type: "local", LocalPath: filepath.Join(dir, "uploads"), ExportPrefix: "exports"},
		Models: config.ModelsConfig{
			Store:   "local",
			Dir:     models,
			Files:   map[string]string{"value": "value.json"},
			Preload: false,
		},
		Cache:     config.CacheConfig{ResultTTL: time.Minute},
		Log:       config.LogConfig{Level: "error", File: filepath.Join(dir, "app.log"), MaxSizeMB: 1},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}

	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func (a *App) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
}

func TestPublicRoutes(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"health", "/api/health", http.StatusOK},
		{"assessment types", "/api/assessment-types", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"protected without token", "/api/tests", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := a.do(t, http.MethodGet, tt.target, "", nil); w.Code != tt.want {
				t.Fatalf("GET %s = %d, want %d: %s", tt.target, w.Code, tt.want, w.Body.String())
			}
		})
	}

	var types []model.AssessmentType
	decodeData(t, a.do(t, http.MethodGet, "/api/assessment-types", "", nil), &types)
	if len(types) != len(model.AllCategories) {
		t.Fatalf("got %d assessment types, want %d", len(types), len(model.AllCategories))
	}
}

// seedValueCatalog seeds the Value dimensions and one career, and returns a
// token for a fresh user.
func (a *App) seedValueCatalog(t *testing.T) string {
	t.Helper()
	user := testutil.SeedUser(t, a.DB, "app@example.com")
	for _, n := range []string{"A", "B"} {
		testutil.SeedDimension(t, a.DB, model.CategoryValue, n, nil)
		vc := testutil.SeedValueCategory(t, a.DB, n)
		if n == "A" {
			c := testutil.SeedCareer(t, a.DB, "Architect", nil)
			testutil.LinkValueCategory(t, a.DB, c.ID, vc.ID)
		}
	}
	token, err := util.GenerateJWT(user.ID, user.UUID, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestSubmitAndReadBack(t *testing.T) {
	a := newTestApp(t)
	token := a.seedValueCatalog(t)

	w := a.do(t, http.MethodPost, "/api/assessments/value/submit", token, gin.H{
		"answers": gin.H{"q1": 8, "q2": 2},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit = %d: %s", w.Code, w.Body.String())
	}
	var submitted struct {
		TestUUID string `json:"test_uuid"`
		TestName string `json:"test_name"`
	}
	decodeData(t, w, &submitted)
	if submitted.TestName != "Test 1" || submitted.TestUUID == "" {
		t.Fatalf("unexpected submit response %+v", submitted)
	}

	if w := a.do(t, http.MethodGet, "/api/tests/"+submitted.TestUUID+"/result", token, nil); w.Code != http.StatusOK {
		t.Fatalf("result = %d: %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/tests/"+submitted.TestUUID+"/export", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != util.MimeXLSX {
		t.Fatalf("export content type = %q", ct)
	}

	if w := a.do(t, http.MethodPost, "/api/assessments/aptitude/submit", token, gin.H{"answers": gin.H{"q1": 1}}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown category = %d, want 400", w.Code)
	}

	if w := a.do(t, http.MethodDelete, "/api/tests/"+submitted.TestUUID, token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", w.Code, w.Body.String())
	}
	if w := a.do(t, http.MethodGet, "/api/tests/"+submitted.TestUUID+"/result", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("result after delete = %d, want 404", w.Code)
	}
}

func TestDraftRoutes(t *testing.T) {
	a := newTestApp(t)
	token := a.seedValueCatalog(t)

	w := a.do(t, http.MethodPost, "/api/drafts", token, gin.H{
		"category": "value",
		"answers":  gin.H{"q1": 8},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create draft = %d: %s", w.Code, w.Body.String())
	}
	var draft struct {
		UUID     string `json:"uuid"`
		TestUUID string `json:"test_uuid"`
	}
	decodeData(t, w, &draft)

	if w := a.do(t, http.MethodPatch, "/api/drafts/"+draft.UUID, token, gin.H{"extra": 1}); w.Code != http.StatusBadRequest {
		t.Fatalf("patch with unknown field = %d, want 400", w.Code)
	}
	if w := a.do(t, http.MethodPatch, "/api/drafts/"+draft.UUID, token, gin.H{"answers_merge": gin.H{"q2": 2}}); w.Code != http.StatusOK {
		t.Fatalf("patch = %d: %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, "/api/drafts/"+draft.UUID+"/submit", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit draft = %d: %s", w.Code, w.Body.String())
	}
	var submitted struct {
		TestUUID string `json:"test_uuid"`
	}
	decodeData(t, w, &submitted)
	if submitted.TestUUID != draft.TestUUID {
		t.Fatalf("submitted test %s, want the draft's test %s", submitted.TestUUID, draft.TestUUID)
	}

	if w := a.do(t, http.MethodPost, "/api/drafts/"+draft.UUID+"/submit", token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("second submit = %d, want 400", w.Code)
	}
}
