package security

import (
	"career_compass_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLimiterAllowsBurstThenRejects(t *testing.T) {
	l := NewLimiter(config.RateLimitConfig{MaxRequests: 2, WindowMinutes: 60})
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third request should be limited")
	}
	if !l.Allow("b") {
		t.Fatalf("other keys have their own bucket")
	}
}

func TestLimiterSweep(t *testing.T) {
	l := NewLimiter(config.RateLimitConfig{MaxRequests: 10, WindowMinutes: 1})
	now := time.Now()
	l.nowFunc = func() time.Time { return now }
	l.Allow("old")
	now = now.Add(10 * time.Minute)
	l.Allow("fresh")

	if got := l.Sweep(); got != 1 {
		t.Fatalf("sweep: want=1 got=%d", got)
	}
	if _, ok := l.store["fresh"]; !ok {
		t.Fatalf("fresh visitor was removed")
	}
}

func TestCORSAllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		origin string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", tc.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
			t.Fatalf("origin %s: want=%q got=%q", tc.origin, tc.want, got)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight: want=%d got=%d", http.StatusNoContent, w.Code)
	}
}
