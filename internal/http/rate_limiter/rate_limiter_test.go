package rate_limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLimiterMiddleware(t *testing.T) {
	l := New(1, 3)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		if code := send("10.0.0.1:1234"); code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the burst is spent, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusNoContent {
		t.Errorf("other clients must not be limited, got %d", code)
	}

	l.CleanupAllVisitors()
	if code := send("10.0.0.1:1234"); code != http.StatusNoContent {
		t.Errorf("expected a fresh bucket after cleanup, got %d", code)
	}
}
