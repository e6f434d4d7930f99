// Package inventory joins remote part rows onto the catalog, keeps the local
// product state and reconciles edits back to the remote store.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/metrics"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
)

// Field names of the product_parts sheet.
const (
	fieldID          = "id"
	fieldProductName = "productName"
	fieldPartName    = "partName"
	fieldPartNo      = "partNo"
	fieldQuantity    = "quantity"
	fieldVendor      = "vendor"
	fieldIsNew       = "isNew"
	fieldCreatedAt   = "createdAt"
	fieldUpdatedAt   = "updatedAt"
)

var (
	// ErrIncompleteRow marks a row without id, partName or productName.
	ErrIncompleteRow = errors.New("incomplete part row")
	// ErrUnknownProduct is returned for product ids or names outside the catalog.
	ErrUnknownProduct = errors.New("unknown product")
)

// ParseError reports a cell that could not be coerced. The parsed record
// still carries the default value for that field.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("field %s: cannot parse %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PartRow is a typed product_parts row.
type PartRow struct {
	ProductName string
	Part        models.Part
}

// ParseRow turns a raw sheet row into a typed part. An ErrIncompleteRow
// result must be discarded; any other error is one or more *ParseError and
// the returned row is usable with defaulted fields.
func ParseRow(row repo.Row) (PartRow, error) {
	if row[fieldID] == "" || row[fieldPartName] == "" || row[fieldProductName] == "" {
		return PartRow{}, ErrIncompleteRow
	}

	var errs []error
	qty, err := parseQuantity(row[fieldQuantity])
	if err != nil {
		errs = append(errs, &ParseError{Field: fieldQuantity, Value: row[fieldQuantity], Err: err})
	}
	isNew, err := parseFlag(row[fieldIsNew])
	if err != nil {
		errs = append(errs, &ParseError{Field: fieldIsNew, Value: row[fieldIsNew], Err: err})
	}

	return PartRow{
		ProductName: row[fieldProductName],
		Part: models.Part{
			ID:        row[fieldID],
			Name:      row[fieldPartName],
			PartNo:    row[fieldPartNo],
			Quantity:  qty,
			Vendor:    row[fieldVendor],
			IsNew:     isNew,
			CreatedAt: row[fieldCreatedAt],
			UpdatedAt: row[fieldUpdatedAt],
		},
	}, errors.Join(errs...)
}

// parseQuantity reads the leading integer of s ("7 pcs" is 7). Anything
// without leading digits, or negative, yields 0.
func parseQuantity(s string) (int, error) {
	t := strings.TrimSpace(s)
	start := 0
	negative := false
	if start < len(t) && (t[start] == '+' || t[start] == '-') {
		negative = t[start] == '-'
		start++
	}
	end := start
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if end == start {
		return 0, errors.New("not a number")
	}

	n, err := strconv.Atoi(t[start:end])
	if err != nil {
		return 0, err
	}
	if negative && n > 0 {
		return 0, errors.New("negative quantity")
	}
	return n, nil
}

func parseFlag(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false", "":
		return false, nil
	default:
		return false, errors.New("not a boolean")
	}
}

// Aggregate builds one product per catalog entry, in catalog order, and
// attaches every usable row to its product. The first row seen for a partNo
// wins within a product.
func Aggregate(entries []catalog.Entry, rows []repo.Row) []models.Product {
	return aggregate(entries, rows, nil)
}

type skipFunc func(row repo.Row, reason error)

func aggregate(entries []catalog.Entry, rows []repo.Row, onSkip skipFunc) []models.Product {
	products := make([]models.Product, len(entries))
	index := make(map[string]int, len(entries))
	seen := make([]map[string]bool, len(entries))
	for i, e := range entries {
		products[i] = models.Product{ID: e.ID, Name: e.Name, Icon: e.Icon, Parts: []models.Part{}}
		index[e.Name] = i
		seen[i] = map[string]bool{}
	}

	skip := func(row repo.Row, reason error) {
		if onSkip != nil {
			onSkip(row, reason)
		}
	}

	for _, row := range rows {
		pr, err := ParseRow(row)
		if errors.Is(err, ErrIncompleteRow) {
			skip(row, err)
			continue
		}
		i, ok := index[pr.ProductName]
		if !ok {
			skip(row, ErrUnknownProduct)
			continue
		}
		if seen[i][pr.Part.PartNo] {
			skip(row, errDuplicatePartNo)
			continue
		}
		if err != nil {
			skip(row, err)
		}
		seen[i][pr.Part.PartNo] = true
		products[i].Parts = append(products[i].Parts, pr.Part)
	}
	return products
}

var errDuplicatePartNo = errors.New("duplicate partNo")

// EmptyProducts is the catalog with no parts, the state used when the remote
// store cannot be read.
func EmptyProducts(entries []catalog.Entry) []models.Product {
	return Aggregate(entries, nil)
}

// Loader fetches the product_parts sheet and aggregates it.
type Loader struct {
	parts   repo.Table
	entries []catalog.Entry
	logger  *zap.Logger
	metrics *metrics.Registry
}

func NewLoader(parts repo.Table, entries []catalog.Entry, logger *zap.Logger, m *metrics.Registry) *Loader {
	return &Loader{parts: parts, entries: entries, logger: logger.Named("aggregator"), metrics: m}
}

// Load never fails: if the fetch fails it returns the empty catalog.
func (l *Loader) Load(ctx context.Context) []models.Product {
	rows, err := l.parts.All(ctx)
	if err != nil {
		l.logger.Warn("failed to fetch parts, starting with empty catalog", zap.Error(err))
		if l.metrics != nil {
			l.metrics.RemoteFetchFailed.Inc()
		}
		return EmptyProducts(l.entries)
	}

	products := aggregate(l.entries, rows, func(row repo.Row, reason error) {
		l.logger.Debug("part row not used as-is",
			zap.String("id", row[fieldID]),
			zap.String("product", row[fieldProductName]),
			zap.Error(reason))
		if l.metrics != nil {
			l.metrics.RowsSkipped.WithLabelValues(skipLabel(reason)).Inc()
		}
	})

	l.logger.Info("parts aggregated", zap.Int("rows", len(rows)))
	return products
}

func skipLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrIncompleteRow):
		return "incomplete"
	case errors.Is(reason, ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(reason, errDuplicatePartNo):
		return "duplicate"
	default:
		return "coerced"
	}
}
