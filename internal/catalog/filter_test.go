package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []Tour {
	return []Tour{
		{ID: "t1", Title: "Du lịch Hà Nội - Sapa", Region: "Miền Bắc", BasePrice: 5000000},
		{ID: "t2", Title: "Đà Nẵng - Hội An", Region: "Miền Trung", BasePrice: 1000000},
		{ID: "t3", Title: "Phú Quốc thiên đường biển", Region: "Miền Nam", BasePrice: 3000000},
		{ID: "t4", Title: "Hà Giang mùa hoa tam giác mạch", Region: "Miền Bắc", BasePrice: 3000000},
		{ID: "t5", Title: "Miền Tây sông nước", Region: "Miền Nam", BasePrice: 2500000},
	}
}

func idsOf(tours []Tour) []string {
	ids := make([]string, len(tours))
	for i, t := range tours {
		ids[i] = t.ID
	}
	return ids
}

func TestFilterAndSort_Query(t *testing.T) {
	tours := sampleCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query matches all", query: "", want: []string{"t1", "t2", "t3", "t4", "t5"}},
		{name: "case-insensitive substring", query: "hà", want: []string{"t1", "t4"}},
		{name: "uppercase query", query: "PHÚ QUỐC", want: []string{"t3"}},
		{name: "no match", query: "nha trang", want: nil},
		{name: "whitespace trimmed", query: "  sapa  ", want: []string{"t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndSort(tours, tt.query, "", SortNone)
			assert.Equal(t, tt.want, func() []string {
				if len(got) == 0 {
					return nil
				}
				return idsOf(got)
			}())
		})
	}
}

func TestFilterAndSort_Region(t *testing.T) {
	tours := sampleCatalog()

	got := FilterAndSort(tours, "", "Miền Bắc", SortNone)
	assert.Equal(t, []string{"t1", "t4"}, idsOf(got))

	got = FilterAndSort(tours, "", "Miền Nam", SortNone)
	assert.Equal(t, []string{"t3", "t5"}, idsOf(got))

	// Region match is exact, not substring.
	got = FilterAndSort(tours, "", "Miền", SortNone)
	assert.Empty(t, got)

	// Query and region combine with AND.
	got = FilterAndSort(tours, "hà", "Miền Bắc", SortNone)
	assert.Equal(t, []string{"t1", "t4"}, idsOf(got))
	got = FilterAndSort(tours, "hà", "Miền Nam", SortNone)
	assert.Empty(t, got)
}

func TestFilterAndSort_PriceOrdering(t *testing.T) {
	tours := []Tour{
		{ID: "a", Title: "A", BasePrice: 5000},
		{ID: "b", Title: "B", BasePrice: 1000},
		{ID: "c", Title: "C", BasePrice: 3000},
	}

	asc := FilterAndSort(tours, "", "", SortPriceAscending)
	assert.Equal(t, []string{"b", "c", "a"}, idsOf(asc))

	desc := FilterAndSort(tours, "", "", SortPriceDescending)
	assert.Equal(t, []string{"a", "c", "b"}, idsOf(desc))

	// Input order is untouched.
	assert.Equal(t, []string{"a", "b", "c"}, idsOf(tours))
}

func TestFilterAndSort_Stability(t *testing.T) {
	// Equal prices keep their original relative order.
	tours := []Tour{
		{ID: "x", Title: "X", BasePrice: 2000},
		{ID: "y", Title: "Y", BasePrice: 1000},
		{ID: "z", Title: "Z", BasePrice: 2000},
	}

	once := FilterAndSort(tours, "", "", SortPriceAscending)
	assert.Equal(t, []string{"y", "x", "z"}, idsOf(once))

	// Sorting an already-sorted sequence is idempotent.
	twice := FilterAndSort(once, "", "", SortPriceAscending)
	assert.Equal(t, idsOf(once), idsOf(twice))
}

func TestFilterAndSort_PopularityDefaultsToCatalogOrder(t *testing.T) {
	// SoldCount is unset in the shipped data, so the popularity sort is a
	// stable pass-through.
	tours := sampleCatalog()
	got := FilterAndSort(tours, "", "", SortPopularity)
	assert.Equal(t, idsOf(tours), idsOf(got))

	// Once an external source populates the field the sort takes effect.
	tours[2].SoldCount = 120
	tours[0].SoldCount = 40
	got = FilterAndSort(tours, "", "", SortPopularity)
	assert.Equal(t, []string{"t3", "t1", "t2", "t4", "t5"}, idsOf(got))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceAscending, ParseSortKey("price-asc"))
	assert.Equal(t, SortPriceDescending, ParseSortKey("price-desc"))
	assert.Equal(t, SortPopularity, ParseSortKey("popularity"))
	assert.Equal(t, SortNone, ParseSortKey(""))
	assert.Equal(t, SortNone, ParseSortKey("garbage"))
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	tours := sampleCatalog()
	original := idsOf(tours)

	_ = FilterAndSort(tours, "", "", SortPriceDescending)
	require.Equal(t, original, idsOf(tours))
}
