// Package catalog holds the fixed list of products whose parts are tracked.
package catalog

// Entry is one product definition of the catalog.
type Entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var entries = []Entry{
	{ID: 1, Name: "HOPE-10000", Icon: "fas fa-microscope"},
	{ID: 2, Name: "IV POLE", Icon: "fas fa-procedures"},
	{ID: 3, Name: "FOOT-PEDAL-V3", Icon: "fas fa-shoe-prints"},
	{ID: 4, Name: "FOOT-PEDAL-V4", Icon: "fas fa-shoe-prints"},
	{ID: 5, Name: "STANDALONE-LIGHTSOURCE", Icon: "fas fa-lightbulb"},
	{ID: 6, Name: "ANT_VIT", Icon: "fas fa-capsules"},
	{ID: 7, Name: "SCREWS-M", Icon: "fas fa-cogs"},
	{ID: 8, Name: "POWDER-COAT", Icon: "fas fa-paint-roller"},
	{ID: 9, Name: "Tools", Icon: "fas fa-tools"},
}

// All returns the catalog in display order. The returned slice is a copy.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func ByID(id int) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// ByName matches the product name exactly, as the parts sheet stores it.
func ByName(name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
