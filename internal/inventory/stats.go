package inventory

import (
	"errors"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// LowStockLimit is the exclusive upper bound of a low (but non-zero) stock.
const LowStockLimit = 5

// ComputeStats summarizes one product's parts.
func ComputeStats(parts []models.Part) models.Stats {
	s := models.Stats{TotalParts: len(parts)}
	for _, p := range parts {
		s.TotalStocks += p.Quantity
		if p.IsNew {
			s.IncomingStocks++
		}
		switch {
		case p.Quantity == 0:
			s.OutOfStocks++
		case p.Quantity > 0 && p.Quantity < LowStockLimit:
			s.LowStocks++
		}
	}
	return s
}

// Summarize computes the dashboard totals across the catalog. A product is
// active when it has at least one part.
func Summarize(entries []catalog.Entry, products []models.Product) models.Summary {
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s := models.Summary{TotalProducts: len(entries)}
	for _, e := range entries {
		if p, ok := byID[e.ID]; ok && len(p.Parts) > 0 {
			s.ActiveProducts++
		}
	}
	for _, p := range products {
		s.TotalParts += len(p.Parts)
		for _, part := range p.Parts {
			s.TotalStockItems += part.Quantity
		}
	}
	return s
}

// Drill-down filters offered from the dashboard cards.
const (
	FilterAll      = ""
	FilterIncoming = "incomingStock"
	FilterOutOf    = "outOfStock"
	FilterLow      = "lowStock"
)

var ErrUnknownFilter = errors.New("unknown stock filter")

// FilterParts keeps the parts matching a drill-down filter.
func FilterParts(parts []models.Part, filter string) ([]models.Part, error) {
	var keep func(models.Part) bool
	switch filter {
	case FilterAll:
		keep = func(models.Part) bool { return true }
	case FilterIncoming:
		keep = func(p models.Part) bool { return p.IsNew }
	case FilterOutOf:
		keep = func(p models.Part) bool { return p.Quantity == 0 }
	case FilterLow:
		keep = func(p models.Part) bool { return p.Quantity > 0 && p.Quantity < LowStockLimit }
	default:
		return nil, ErrUnknownFilter
	}

	out := []models.Part{}
	for _, p := range parts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
