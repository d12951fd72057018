package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Valid(t *testing.T) {
	store, err := NewStore(sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, 5, store.Len())

	tour, err := store.ByID("t3")
	require.NoError(t, err)
	assert.Equal(t, "Phú Quốc thiên đường biển", tour.Title)

	_, err = store.ByID("nope")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestNewStore_Invariants(t *testing.T) {
	tests := []struct {
		name  string
		tours []Tour
	}{
		{
			name:  "duplicate id",
			tours: []Tour{{ID: "t1", Title: "A"}, {ID: "t1", Title: "B"}},
		},
		{
			name:  "empty id",
			tours: []Tour{{ID: "", Title: "A"}},
		},
		{
			name:  "negative base price",
			tours: []Tour{{ID: "t1", Title: "A", BasePrice: -1}},
		},
		{
			name:  "rating above five",
			tours: []Tour{{ID: "t1", Title: "A", Rating: 5.1}},
		},
		{
			name: "negative departure price",
			tours: []Tour{{ID: "t1", Title: "A", Departures: []DepartureMonth{
				{MonthLabel: "10/2025", Prices: PriceTiers{Adult: -100}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.tours)
			assert.ErrorIs(t, err, ErrInvalidTour)
		})
	}
}

func TestStore_AllIsACopy(t *testing.T) {
	store, err := NewStore(sampleCatalog())
	require.NoError(t, err)

	all := store.All()
	all[0].Title = "mutated"

	again := store.All()
	assert.Equal(t, "Du lịch Hà Nội - Sapa", again[0].Title)
}

func TestStore_Regions(t *testing.T) {
	store, err := NewStore(sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"Miền Bắc", "Miền Trung", "Miền Nam"}, store.Regions())
}

func TestTour_FindDeparture(t *testing.T) {
	tour := Tour{
		ID: "t1",
		Departures: []DepartureMonth{
			{MonthLabel: "10/2025", Prices: PriceTiers{Adult: 3590000}},
			{MonthLabel: "11/2025", Prices: PriceTiers{Adult: 3790000}},
		},
	}

	assert.True(t, tour.Bookable())

	month := tour.FindDeparture("11/2025")
	require.NotNil(t, month)
	assert.Equal(t, int64(3790000), month.Prices.Adult)

	assert.Nil(t, tour.FindDeparture("99/9999"))

	empty := Tour{ID: "t2"}
	assert.False(t, empty.Bookable())
}
