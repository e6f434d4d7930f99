package handlers

import (
	"fmt"
	"strings"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

type PartValidationError struct {
	Index       int    `json:"index"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description"`
}

func validatePart(p PartRequest) []PartValidationError {
	errs := []PartValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, PartValidationError{Field: "name", Description: "Name is required"})
	}
	if p.Quantity < 0 {
		errs = append(errs, PartValidationError{Field: "quantity", Description: "Quantity cannot be negative"})
	}
	return errs
}

// validateParts checks every part and rejects a partNo or id used twice in
// the same list, since the aggregator would silently keep only the first one.
func validateParts(parts []PartRequest) []PartValidationError {
	errs := []PartValidationError{}
	seen := map[string]int{}
	seenIDs := map[string]int{}
	for i, p := range parts {
		for _, e := range validatePart(p) {
			e.Index = i
			errs = append(errs, e)
		}
		if id := strings.TrimSpace(p.ID); id != "" {
			if first, dup := seenIDs[id]; dup {
				errs = append(errs, PartValidationError{
					Index:       i,
					Field:       "id",
					Description: fmt.Sprintf("Part id %q already used by part %d", id, first),
				})
			} else {
				seenIDs[id] = i
			}
		}
		partNo := strings.TrimSpace(p.PartNo)
		if first, dup := seen[partNo]; dup {
			errs = append(errs, PartValidationError{
				Index:       i,
				Field:       "part_no",
				Description: fmt.Sprintf("Part number %q already used by part %d", partNo, first),
			})
			continue
		}
		seen[partNo] = i
	}
	return errs
}

// toParts converts validated requests, assigning ids to new parts.
func (s *Server) toParts(reqs []PartRequest) ([]models.Part, error) {
	parts := make([]models.Part, len(reqs))
	for i, p := range reqs {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			var err error
			if id, err = s.newID(); err != nil {
				return nil, err
			}
		}
		parts[i] = models.Part{
			ID:        id,
			Name:      strings.TrimSpace(p.Name),
			PartNo:    strings.TrimSpace(p.PartNo),
			Quantity:  p.Quantity,
			Vendor:    strings.TrimSpace(p.Vendor),
			IsNew:     p.IsNew,
			CreatedAt: p.CreatedAt,
		}
	}
	return parts, nil
}

// keepCreatedAt copies createdAt from the current parts onto submitted parts
// with the same id that did not carry one.
func keepCreatedAt(parts, current []models.Part) {
	created := make(map[string]string, len(current))
	for _, p := range current {
		created[p.ID] = p.CreatedAt
	}
	for i := range parts {
		if parts[i].CreatedAt == "" {
			parts[i].CreatedAt = created[parts[i].ID]
		}
	}
}
