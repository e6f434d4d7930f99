package handlers_test_suite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	handler "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/handlers"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

func importCSV(t *testing.T, productID, mode, csvData string) handler.ImportPartsResult {
	t.Helper()
	body, contentType := multipartCSV(csvData, "parts.csv")

	url := "/products/" + productID + "/parts/import"
	if mode != "" {
		url += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ImportPartsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestImportPartsHandler(t *testing.T) {
	t.Run("File with unique valid parts", func(t *testing.T) {
		t.Cleanup(resetParts)
		csvData := `name,part_no,quantity,vendor,is_new
Bolt,P-1,10,ACME,false
Nut,P-2,5,ACME,true`

		resp := importCSV(t, "3", "", csvData)
		if resp.ImportedPartsCount != 2 {
			t.Errorf("expected 2 imported parts, got %d", resp.ImportedPartsCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}

		state.Wait()
		rows, _ := partsTable.Search(context.Background(), "productName", "FOOT-PEDAL-V3")
		if len(rows) != 2 {
			t.Errorf("expected 2 remote rows, got %d", len(rows))
		}
	})

	t.Run("File with one invalid part", func(t *testing.T) {
		t.Cleanup(resetParts)
		csvData := `name,part_no,quantity
Bolt,P-1,10
,P-2,3
Gear,P-3,-4
Nut,P-4,many`

		resp := importCSV(t, "3", "", csvData)
		if resp.ImportedPartsCount != 1 {
			t.Errorf("expected 1 imported part, got %d", resp.ImportedPartsCount)
		}
		if len(resp.Errors) != 3 {
			t.Errorf("expected 3 errors, got %v", resp.Errors)
		}
	})

	t.Run("Skip mode keeps existing part numbers", func(t *testing.T) {
		t.Cleanup(resetParts)
		addRemotePart("a", "FOOT-PEDAL-V4", "Bolt", "P-1", "1", "false")
		state.Load(context.Background())

		resp := importCSV(t, "4", "skip", "name,part_no,quantity\nBolt v2,P-1,7\nNut,P-2,1")
		if resp.ImportedPartsCount != 1 || len(resp.Errors) != 1 {
			t.Errorf("unexpected result %+v", resp)
		}
		p, _ := state.Product(4)
		if p.Parts[0].Quantity != 1 || p.Parts[0].Name != "Bolt" {
			t.Errorf("existing part must be untouched, got %+v", p.Parts[0])
		}
	})

	t.Run("Update mode overwrites existing part numbers", func(t *testing.T) {
		t.Cleanup(resetParts)
		addRemotePart("a", "FOOT-PEDAL-V4", "Bolt", "P-1", "1", "false")
		state.Load(context.Background())

		resp := importCSV(t, "4", "update", "name,part_no,quantity\nBolt v2,P-1,7")
		if resp.ImportedPartsCount != 1 || len(resp.Errors) != 0 {
			t.Errorf("unexpected result %+v", resp)
		}

		state.Wait()
		rows, _ := partsTable.Search(context.Background(), "id", "a")
		if len(rows) != 1 || rows[0]["quantity"] != "7" || rows[0]["partName"] != "Bolt v2" {
			t.Errorf("expected row a to be updated in place, got %v", rows)
		}
	})

	t.Run("Id owned by another part number gets a new id", func(t *testing.T) {
		t.Cleanup(resetParts)
		addRemotePart("a", "FOOT-PEDAL-V4", "Bolt", "P-1", "1", "false")
		state.Load(context.Background())

		resp := importCSV(t, "4", "skip", "id,name,part_no,quantity\na,Gear,P-9,2")
		if resp.ImportedPartsCount != 1 || len(resp.Errors) != 0 {
			t.Fatalf("unexpected result %+v", resp)
		}

		p, _ := state.Product(4)
		if len(p.Parts) != 2 || p.Parts[1].ID == "a" || p.Parts[1].ID == "" {
			t.Fatalf("expected the imported part to get its own id, got %+v", p.Parts)
		}

		state.Wait()
		rows, _ := partsTable.Search(context.Background(), "id", "a")
		if len(rows) != 1 || rows[0]["partNo"] != "P-1" {
			t.Errorf("row a must still belong to P-1, got %v", rows)
		}
		if st, _ := state.SyncStatus(4); st.State != models.SyncOK {
			t.Errorf("expected sync ok, got %+v", st)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/products/3/parts/import", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
