package inventory

import (
	"errors"
	"testing"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

func TestComputeStats(t *testing.T) {
	parts := []models.Part{
		{PartNo: "1", Quantity: 0},
		{PartNo: "2", Quantity: 4, IsNew: true},
		{PartNo: "3", Quantity: 5},
		{PartNo: "4", Quantity: 12, IsNew: true},
	}

	got := ComputeStats(parts)
	want := models.Stats{TotalParts: 4, TotalStocks: 21, IncomingStocks: 2, OutOfStocks: 1, LowStocks: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if again := ComputeStats(parts); again != got {
		t.Errorf("stats are not stable: %+v vs %+v", got, again)
	}
	if empty := ComputeStats(nil); empty != (models.Stats{}) {
		t.Errorf("expected zero stats, got %+v", empty)
	}
}

func TestSummarize(t *testing.T) {
	entries := catalog.All()
	products := EmptyProducts(entries)
	products[0].Parts = []models.Part{{PartNo: "1", Quantity: 3}, {PartNo: "2", Quantity: 4}}
	products[2].Parts = []models.Part{{PartNo: "1", Quantity: 0}}

	got := Summarize(entries, products)
	want := models.Summary{TotalProducts: len(entries), ActiveProducts: 2, TotalParts: 3, TotalStockItems: 7}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestFilterParts(t *testing.T) {
	parts := []models.Part{
		{PartNo: "out", Quantity: 0},
		{PartNo: "low", Quantity: 2},
		{PartNo: "new", Quantity: 9, IsNew: true},
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{FilterAll, []string{"out", "low", "new"}},
		{FilterIncoming, []string{"new"}},
		{FilterOutOf, []string{"out"}},
		{FilterLow, []string{"low"}},
	}
	for _, tt := range tests {
		t.Run("filter "+tt.filter, func(t *testing.T) {
			got, err := FilterParts(parts, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i].PartNo != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}

	if _, err := FilterParts(parts, "bogus"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("expected ErrUnknownFilter, got %v", err)
	}
}
