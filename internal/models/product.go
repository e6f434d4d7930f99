package models

// Part is one stocked component of a product, as tracked in the product_parts sheet.
type Part struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PartNo    string `json:"part_no"`
	Quantity  int    `json:"quantity"`
	Vendor    string `json:"vendor"`
	IsNew     bool   `json:"is_new"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Product represents a catalog entry joined with its parts.
type Product struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Parts []Part `json:"parts"`
}

// Clone returns a copy whose parts slice is not shared with p.
func (p Product) Clone() Product {
	parts := make([]Part, len(p.Parts))
	copy(parts, p.Parts)
	p.Parts = parts
	return p
}

type Stats struct {
	TotalParts     int `json:"total_parts"`
	TotalStocks    int `json:"total_stocks"`
	IncomingStocks int `json:"incoming_stocks"`
	OutOfStocks    int `json:"out_of_stocks"`
	LowStocks      int `json:"low_stocks"`
}

type Summary struct {
	TotalProducts   int `json:"total_products"`
	ActiveProducts  int `json:"active_products"`
	TotalParts      int `json:"total_parts"`
	TotalStockItems int `json:"total_stock_items"`
}
