package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	handler "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/handlers"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

func TestPartsRoundTrip(t *testing.T) {
	t.Cleanup(clearAllParts)

	put := func(parts []handler.PartRequest) {
		t.Helper()
		body, _ := json.Marshal(handler.UpdatePartsRequest{Parts: parts})
		req := httptest.NewRequest(http.MethodPut, "/products/7/parts", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
		}
		state.Wait()
	}

	put([]handler.PartRequest{
		{ID: "A", Name: "M3", PartNo: "S-3", Quantity: 100},
		{ID: "B", Name: "M4", PartNo: "S-4", Quantity: 50},
		{ID: "C", Name: "M5", PartNo: "S-5", Quantity: 0},
	})
	put([]handler.PartRequest{
		{ID: "A", Name: "M3", PartNo: "S-3", Quantity: 90},
		{ID: "C", Name: "M5", PartNo: "S-5", Quantity: 4},
	})

	rows, err := parts.Search(context.Background(), "productName", "SCREWS-M")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var ids []string
	for _, row := range rows {
		ids = append(ids, row["id"]+"="+row["quantity"])
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "A=90" || ids[1] != "C=4" {
		t.Errorf("unexpected remote rows %v", ids)
	}

	// a fresh load from the database sees the same parts
	state.Load(context.Background())
	p, _ := state.Product(7)
	if len(p.Parts) != 2 {
		t.Errorf("expected 2 parts after reload, got %+v", p.Parts)
	}

	req := httptest.NewRequest(http.MethodGet, "/products/7/sync/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.SyncRunsResult
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Meta.TotalCount != 2 || resp.Data[0].Status != models.SyncOK || resp.Data[0].Deleted != 1 {
		t.Errorf("unexpected history %+v", resp)
	}
}

func TestLoginAgainstDatabase(t *testing.T) {
	if token == "" {
		t.Fatal("expected admin login to succeed")
	}

	body, _ := json.Marshal(handler.LoginRequest{Email: "admin@x.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
