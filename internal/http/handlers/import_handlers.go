package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// csvHeader is written by the export and understood by the import.
var csvHeader = []string{"id", "name", "part_no", "quantity", "vendor", "is_new"}

type csvRow struct {
	Line int
	Part PartRequest
	Err  error
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")] = i
	}
	if _, ok := index["partno"]; ok {
		index["part_no"] = index["partno"]
	}
	if _, ok := index["isnew"]; ok {
		index["is_new"] = index["isnew"]
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("CSV header must contain a name column")
	}

	var rows []csvRow
	line := 1 // header is line 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := csvRow{Line: line, Part: PartRequest{
			ID:     cell("id"),
			Name:   cell("name"),
			PartNo: cell("part_no"),
			Vendor: cell("vendor"),
			IsNew:  strings.EqualFold(cell("is_new"), "true"),
		}}
		if q := cell("quantity"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				row.Err = errors.New("invalid quantity")
			}
			row.Part.Quantity = n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportPartsHandler godoc
// @Summary Import parts of a product via CSV
// @Description Rows are matched to existing parts by part number. In skip mode known part numbers are reported as errors; in update mode they overwrite the existing part.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportPartsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/parts/import [post]
// @Security BearerAuth
func (s *Server) ImportPartsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	product, err := s.state.Product(id)
	if err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	parts := product.Parts
	byPartNo := make(map[string]int, len(parts))
	ownerOf := make(map[string]string, len(parts))
	for i, p := range parts {
		byPartNo[p.PartNo] = i
		ownerOf[p.ID] = p.PartNo
	}

	var imported int
	errorsList := []PartValidationError{}
	for _, rec := range records {
		rowErr := func(desc string) {
			errorsList = append(errorsList, PartValidationError{Index: rec.Line, Description: fmt.Sprintf("row %d: %s", rec.Line, desc)})
		}

		if rec.Err != nil {
			rowErr(rec.Err.Error())
			continue
		}
		if errs := validatePart(rec.Part); len(errs) > 0 {
			rowErr(errs[0].Description)
			continue
		}

		// an id already owned by another part number gets a fresh one
		if owner, taken := ownerOf[strings.TrimSpace(rec.Part.ID)]; taken && owner != strings.TrimSpace(rec.Part.PartNo) {
			rec.Part.ID = ""
		}

		converted, err := s.toParts([]PartRequest{rec.Part})
		if err != nil {
			http.Error(w, "could not assign part ids", http.StatusInternalServerError)
			return
		}
		part := converted[0]

		if i, exists := byPartNo[part.PartNo]; exists {
			if mode == "skip" {
				rowErr(fmt.Sprintf("part '%s' already exists", part.PartNo))
				continue
			}
			part.ID = parts[i].ID
			part.CreatedAt = parts[i].CreatedAt
			parts[i] = part
			imported++
			continue
		}

		byPartNo[part.PartNo] = len(parts)
		ownerOf[part.ID] = part.PartNo
		parts = append(parts, part)
		imported++
	}

	result := ImportPartsResult{ImportedPartsCount: imported, Errors: errorsList}
	if imported > 0 {
		if err := s.state.UpdateProduct(id, parts); err != nil {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		st, _ := s.state.SyncStatus(id)
		result.Sync = &st
	}

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		http.Error(w, "", http.StatusInternalServerError)
	}
}

