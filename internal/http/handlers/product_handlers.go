package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/inventory"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

// GetCatalogHandler godoc
// @Summary List the product catalog
// @Tags products
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /catalog [get]
// @Security BearerAuth
func (s *Server) GetCatalogHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, CatalogResponse{Data: s.state.Entries()})
}

// GetDashboardHandler godoc
// @Summary Dashboard totals and per-product cards
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardResponse
// @Router /dashboard [get]
// @Security BearerAuth
func (s *Server) GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	products := s.state.Products()

	resp := DashboardResponse{
		Summary:  inventory.Summarize(s.state.Entries(), products),
		Products: make([]ProductCard, len(products)),
	}
	for i, p := range products {
		resp.Products[i] = ProductCard{
			ID:       p.ID,
			Name:     p.Name,
			Icon:     p.Icon,
			HasParts: len(p.Parts) > 0,
			Stats:    inventory.ComputeStats(p.Parts),
		}
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// GetProductsHandler godoc
// @Summary List products with their parts
// @Tags products
// @Produce json
// @Param product query string false "Product name"
// @Param filter query string false "incomingStock, outOfStock or lowStock"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Unknown filter"
// @Failure 404 {string} string "Product not found"
// @Router /products [get]
// @Security BearerAuth
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("product")
	filter := r.URL.Query().Get("filter")

	products := s.state.Products()
	if name != "" {
		entry, ok := catalog.ByName(name)
		if !ok {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		p, err := s.state.Product(entry.ID)
		if err != nil {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		products = []models.Product{p}
	}

	result := ProductsSearchResult{Data: make([]ProductResponse, 0, len(products))}
	for _, p := range products {
		parts, err := inventory.FilterParts(p.Parts, filter)
		if err != nil {
			http.Error(w, "unknown filter", http.StatusBadRequest)
			return
		}
		resp := productResponse(p)
		resp.Parts = parts
		result.Data = append(result.Data, resp)
		result.Meta.TotalCount += len(parts)
	}
	_ = writeJSON(w, http.StatusOK, result)
}

// GetProductByIDHandler godoc
// @Summary Get a product with its parts and stats
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [get]
// @Security BearerAuth
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	p, err := s.state.Product(id)
	if errors.Is(err, inventory.ErrUnknownProduct) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "could not load product", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, productResponse(p))
}

// UpdatePartsHandler godoc
// @Summary Replace the parts of a product
// @Description The change is applied locally at once and written to the remote sheet in the background.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param parts body UpdatePartsRequest true "Full list of parts"
// @Success 202 {object} UpdatePartsResult
// @Failure 400 {array} PartValidationError
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/parts [put]
// @Security BearerAuth
func (s *Server) UpdatePartsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	current, err := s.state.Product(id)
	if err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	var req UpdatePartsRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateParts(req.Parts); len(errs) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	parts, err := s.toParts(req.Parts)
	if err != nil {
		http.Error(w, "could not assign part ids", http.StatusInternalServerError)
		return
	}
	keepCreatedAt(parts, current.Parts)
	s.applyParts(w, id, parts)
}

func (s *Server) applyParts(w http.ResponseWriter, id int, parts []models.Part) {
	if err := s.state.UpdateProduct(id, parts); err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	p, _ := s.state.Product(id)
	st, _ := s.state.SyncStatus(id)
	_ = writeJSON(w, http.StatusAccepted, UpdatePartsResult{Product: productResponse(p), Sync: st})
}

// GetSyncStatusHandler godoc
// @Summary Remote synchronization state of a product
// @Tags sync
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.SyncStatus
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/sync [get]
// @Security BearerAuth
func (s *Server) GetSyncStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	st, err := s.state.SyncStatus(id)
	if err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	_ = writeJSON(w, http.StatusOK, st)
}

// GetSyncHistoryHandler godoc
// @Summary Past synchronization runs of a product
// @Tags sync
// @Produce json
// @Param id path int true "Product ID"
// @Param since query string false "Runs started from this timestamp (RFC3339)"
// @Param until query string false "Runs started until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} SyncRunsResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id}/sync/history [get]
// @Security BearerAuth
func (s *Server) GetSyncHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if _, ok := catalog.ByID(id); !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	var f repo.SyncRunFilter
	if f.Since, err = timeParam(r, "since"); err != nil {
		http.Error(w, "invalid since date format", http.StatusBadRequest)
		return
	}
	if f.Until, err = timeParam(r, "until"); err != nil {
		http.Error(w, "invalid until date format", http.StatusBadRequest)
		return
	}
	if f.Limit, err = intParam(r, "limit"); err != nil {
		http.Error(w, "invalid limit format", http.StatusBadRequest)
		return
	}
	if f.Limit != nil && *f.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if f.Offset, err = intParam(r, "offset"); err != nil {
		http.Error(w, "invalid offset format", http.StatusBadRequest)
		return
	}
	if f.Offset != nil && *f.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	runs, total, err := s.history.GetByProductID(id, f)
	if err != nil {
		s.logger.Error("could not retrieve sync runs", zap.Int("product_id", id), zap.Error(err))
		http.Error(w, "could not retrieve sync runs", http.StatusInternalServerError)
		return
	}
	_ = writeJSON(w, http.StatusOK, SyncRunsResult{Data: runs, Meta: Meta{TotalCount: total}})
}

// ExportPartsHandler godoc
// @Summary Export the parts of a product
// @Tags products
// @Produce text/csv, application/json
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/parts/export [get]
// @Security BearerAuth
func (s *Server) ExportPartsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	p, err := s.state.Product(id)
	if err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	switch format {
	case "json":
		_ = writeJSON(w, http.StatusOK, p.Parts, http.Header{
			"Content-Disposition": {`attachment; filename="parts.json"`},
		})

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="parts.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write(csvHeader)
		for _, part := range p.Parts {
			_ = csvWriter.Write([]string{
				part.ID,
				part.Name,
				part.PartNo,
				strconv.Itoa(part.Quantity),
				part.Vendor,
				strconv.FormatBool(part.IsNew),
			})
		}
		csvWriter.Flush()
	}
}

// RefreshHandler godoc
// @Summary Reload every product from the remote sheet
// @Tags products
// @Produce json
// @Success 200 {object} RefreshResult
// @Failure 403 {string} string "Forbidden"
// @Router /products/refresh [post]
// @Security BearerAuth
func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	s.state.Load(ctx)
	_ = writeJSON(w, http.StatusOK, RefreshResult{
		Summary: inventory.Summarize(s.state.Entries(), s.state.Products()),
	})
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}
