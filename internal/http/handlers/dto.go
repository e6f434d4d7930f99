package handlers

import (
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/inventory"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// NotificationDismissAfter is how long clients show a notification, in ms.
const NotificationDismissAfter = 3000

type Notification struct {
	Type           string `json:"type"` // success, error or info
	Message        string `json:"message"`
	DismissAfterMs int    `json:"dismiss_after_ms"`
}

func notify(kind, message string) Notification {
	return Notification{Type: kind, Message: message, DismissAfterMs: NotificationDismissAfter}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string         `json:"token"`
	User         models.Session `json:"user"`
	Notification Notification   `json:"notification"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// MessageResult is returned by auth endpoints that carry no data besides a
// notification, failures included.
type MessageResult struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Notification Notification `json:"notification"`
}

type ProfileResponse struct {
	User        models.Session `json:"user"`
	Permissions string         `json:"permissions"`
	CanWrite    bool           `json:"can_write"`
}

type CatalogResponse struct {
	Data []catalog.Entry `json:"data"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductResponse struct {
	ID    int           `json:"id"`
	Name  string        `json:"name"`
	Icon  string        `json:"icon"`
	Parts []models.Part `json:"parts"`
	Stats models.Stats  `json:"stats"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type ProductCard struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Icon     string       `json:"icon"`
	HasParts bool         `json:"has_parts"`
	Stats    models.Stats `json:"stats"`
}

type DashboardResponse struct {
	Summary  models.Summary `json:"summary"`
	Products []ProductCard  `json:"products"`
}

type PartRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	PartNo    string `json:"part_no"`
	Quantity  int    `json:"quantity"`
	Vendor    string `json:"vendor"`
	IsNew     bool   `json:"is_new"`
	CreatedAt string `json:"created_at,omitempty"`
}

type UpdatePartsRequest struct {
	Parts []PartRequest `json:"parts"`
}

type UpdatePartsResult struct {
	Product ProductResponse   `json:"product"`
	Sync    models.SyncStatus `json:"sync"`
}

type ImportPartsResult struct {
	ImportedPartsCount int                   `json:"imported"`
	Errors             []PartValidationError `json:"errors"`
	Sync               *models.SyncStatus    `json:"sync,omitempty"`
}

type SyncRunsResult struct {
	Data []models.SyncRun `json:"data"`
	Meta Meta             `json:"meta"`
}

type RefreshResult struct {
	Summary models.Summary `json:"summary"`
}

func productResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:    p.ID,
		Name:  p.Name,
		Icon:  p.Icon,
		Parts: p.Parts,
		Stats: inventory.ComputeStats(p.Parts),
	}
}
