package catalog

// Tour is the canonical catalog entry. External sources ship tours in a
// couple of divergent shapes; the adapter in this package normalizes all of
// them into this one type before anything else sees them.
type Tour struct {
	ID            string           `json:"id" yaml:"id"`
	Title         string           `json:"title" yaml:"title"`
	Location      string           `json:"location" yaml:"location"`
	Region        string           `json:"region" yaml:"region"`
	ImageURL      string           `json:"imageUrl" yaml:"imageUrl"`
	Description   string           `json:"description" yaml:"description"`
	DurationLabel string           `json:"durationLabel" yaml:"durationLabel"`
	Rating        float64          `json:"rating" yaml:"rating"`
	BasePrice     int64            `json:"basePrice" yaml:"basePrice"`
	IsFeatured    bool             `json:"isFeatured" yaml:"isFeatured"`
	IsBestseller  bool             `json:"isBestseller" yaml:"isBestseller"`
	SoldCount     int              `json:"soldCount" yaml:"soldCount"`
	Itinerary     []ItineraryDay   `json:"itinerary" yaml:"itinerary"`
	Departures    []DepartureMonth `json:"departures" yaml:"departures"`
}

// ItineraryDay is display-only and never enters price computation.
type ItineraryDay struct {
	Day         string `json:"day" yaml:"day"`
	Description string `json:"description" yaml:"description"`
}

// DepartureMonth is a priceable instance of a tour for a given month.
// DepartureDates entries may be sentinels like "khởi hành hàng tuần" rather
// than real dates; they are opaque display text and are never parsed.
type DepartureMonth struct {
	MonthLabel     string     `json:"monthLabel" yaml:"monthLabel"`
	DepartureDates []string   `json:"departureDates" yaml:"departureDates"`
	Prices         PriceTiers `json:"prices" yaml:"prices"`
	Promotion      string     `json:"promotion,omitempty" yaml:"promotion"`
	FamilyNote     string     `json:"familyNote,omitempty" yaml:"familyNote"`
	FlightDeal     string     `json:"flightDeal,omitempty" yaml:"flightDeal"`
	Notes          string     `json:"notes,omitempty" yaml:"notes"`
}

// PriceTiers holds per-traveler pricing for one departure month. All values
// are VND, which has no fractional subunit, so int64 is exact.
type PriceTiers struct {
	Adult            int64 `json:"adult" yaml:"adult"`
	Child            int64 `json:"child" yaml:"child"`
	Infant           int64 `json:"infant" yaml:"infant"`
	SingleSupplement int64 `json:"singleSupplement" yaml:"singleSupplement"`
}

// Bookable reports whether the tour has at least one departure month.
func (t *Tour) Bookable() bool {
	return len(t.Departures) > 0
}

// FindDeparture returns the departure month with the exact label, or nil.
func (t *Tour) FindDeparture(monthLabel string) *DepartureMonth {
	for i := range t.Departures {
		if t.Departures[i].MonthLabel == monthLabel {
			return &t.Departures[i]
		}
	}
	return nil
}
