package sheetdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

// fakeSheet mimics the hosted API over an in-memory slice of rows.
type fakeSheet struct {
	mu     sync.Mutex
	rows   []map[string]any
	auth   string
	status int
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = r.Header.Get("Authorization")
	if f.status != 0 {
		http.Error(w, `{"error":"quota"}`, f.status)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		json.NewEncoder(w).Encode(f.rows)
	case r.Method == http.MethodGet && r.URL.Path == "/search":
		out := []map[string]any{}
		for _, row := range f.rows {
			match := true
			for k, v := range r.URL.Query() {
				if row[k] != v[0] {
					match = false
				}
			}
			if match {
				out = append(out, row)
			}
		}
		json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPost && r.URL.Path == "/":
		var p struct {
			Data map[string]any `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&p)
		f.rows = append(f.rows, p.Data)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"created":1}`))
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/id/"):
		var p struct {
			Data map[string]any `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&p)
		id := strings.TrimPrefix(r.URL.Path, "/id/")
		n := 0
		for _, row := range f.rows {
			if row["id"] == id {
				for k, v := range p.Data {
					row[k] = v
				}
				n++
			}
		}
		json.NewEncoder(w).Encode(map[string]int{"updated": n})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/id/"):
		id := strings.TrimPrefix(r.URL.Path, "/id/")
		kept := f.rows[:0]
		for _, row := range f.rows {
			if row["id"] != id {
				kept = append(kept, row)
			}
		}
		n := len(f.rows) - len(kept)
		f.rows = kept
		json.NewEncoder(w).Encode(map[string]int{"deleted": n})
	default:
		http.NotFound(w, r)
	}
}

func TestClient_RoundTrip(t *testing.T) {
	sheet := &fakeSheet{rows: []map[string]any{
		{"id": "1", "productName": "Tools", "quantity": 7},
	}}
	srv := httptest.NewServer(sheet)
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL, WithToken("secret"), WithLimiter(NewLimiter(100, 10)))

	all, err := c.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 || all[0]["quantity"] != "7" {
		t.Fatalf("expected numeric cell stringified, got %v", all)
	}
	if sheet.auth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", sheet.auth)
	}

	if err := c.Create(ctx, repo.Row{"id": "2", "productName": "IV POLE"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := c.Search(ctx, "productName", "IV POLE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0]["id"] != "2" {
		t.Fatalf("unexpected search result %v", found)
	}

	if err := c.Update(ctx, "2", repo.Row{"quantity": "4"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := c.Update(ctx, "99", repo.Row{"quantity": "4"}); !errors.Is(err, repo.ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}

	if err := c.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "1"); !errors.Is(err, repo.ErrRowNotFound) {
		t.Errorf("expected ErrRowNotFound, got %v", err)
	}

	all, _ = c.All(ctx)
	if len(all) != 1 || all[0]["quantity"] != "4" {
		t.Fatalf("unexpected rows after writes: %v", all)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(&fakeSheet{status: http.StatusTooManyRequests})
	defer srv.Close()

	_, err := New(srv.URL).Search(context.Background(), "email", "a@x.com")

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusTooManyRequests {
		t.Fatalf("expected StatusError 429, got %v", err)
	}
	if !errors.Is(err, repo.ErrUnavailable) {
		t.Errorf("status errors should match ErrUnavailable")
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).All(context.Background())
	if !errors.Is(err, repo.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_SharedLimiter(t *testing.T) {
	srv := httptest.NewServer(&fakeSheet{rows: []map[string]any{}})
	defer srv.Close()

	l := rate.NewLimiter(rate.Every(time.Hour), 2)
	users := New(srv.URL, WithLimiter(l))
	parts := New(srv.URL, WithLimiter(l))

	ctx := context.Background()
	if _, err := users.All(ctx); err != nil {
		t.Fatalf("users: %v", err)
	}
	if _, err := parts.All(ctx); err != nil {
		t.Fatalf("parts: %v", err)
	}
	if got := l.Tokens(); got > 0.5 {
		t.Errorf("expected both sheets to draw from one budget, %.2f tokens left", got)
	}

	if NewLimiter(0, 1) != nil {
		t.Error("expected no limiter for a non-positive rate")
	}
}
