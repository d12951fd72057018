package pricing

import (
	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
)

// TravelerCount is the user-supplied traveler breakdown. A booking always
// requires at least one adult.
type TravelerCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Validate checks the TravelerCount preconditions.
func (tc TravelerCount) Validate() error {
	if tc.Adults < 1 {
		return invalidInputf("at least one adult required")
	}
	if tc.Children < 0 || tc.Infants < 0 {
		return invalidInputf("traveler counts must not be negative")
	}
	return nil
}

// Total returns the total number of travelers.
func (tc TravelerCount) Total() int {
	return tc.Adults + tc.Children + tc.Infants
}

// LineItem is one priced row of a quote.
type LineItem struct {
	Label     string `json:"label"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// BookingQuote is the itemized, totaled result of pricing one booking
// request. It is ephemeral: handed to the checkout collaborator and
// discarded, never persisted by this package.
type BookingQuote struct {
	TourID                string        `json:"tourId"`
	DepartureMonthLabel   string        `json:"departureMonthLabel"`
	Travelers             TravelerCount `json:"travelers"`
	ApplySingleSupplement bool          `json:"applySingleSupplement"`
	AddOnIDs              []string      `json:"addOnIds"`
	LineItems             []LineItem    `json:"lineItems"`
	Total                 int64         `json:"total"`
}

// Line labels are fixed so quotes render and diff deterministically.
const (
	labelAdult            = "Người lớn"
	labelChild            = "Trẻ em"
	labelInfant           = "Em bé"
	labelSingleSupplement = "Phụ thu phòng đơn"
)

// ComputeQuote converts a tour selection, departure choice, traveler counts
// and optional add-ons into a fully itemized total.
//
// Line items appear in a fixed order: adult, child (if any), infant (if
// any), single supplement (only on explicit opt-in), then one line per
// selected add-on. The single supplement is a flat one-time charge gated
// solely by applySingleSupplement; it is never inferred from occupancy.
//
// All arithmetic is integer VND. The function is pure: identical inputs
// produce identical output, and nothing is mutated.
func ComputeQuote(tour *catalog.Tour, departureMonthLabel string, travelers TravelerCount, applySingleSupplement bool, addOns []AddOn) (*BookingQuote, error) {
	if tour == nil {
		return nil, invalidInputf("tour is required")
	}

	month := tour.FindDeparture(departureMonthLabel)
	if month == nil {
		return nil, notFoundf("departure month %q for tour %s", departureMonthLabel, tour.ID)
	}

	if err := travelers.Validate(); err != nil {
		return nil, err
	}

	quote := &BookingQuote{
		TourID:                tour.ID,
		DepartureMonthLabel:   departureMonthLabel,
		Travelers:             travelers,
		ApplySingleSupplement: applySingleSupplement,
	}

	addLine := func(label string, unitPrice int64, quantity int) {
		quote.LineItems = append(quote.LineItems, LineItem{
			Label:     label,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			Subtotal:  unitPrice * int64(quantity),
		})
	}

	addLine(labelAdult, month.Prices.Adult, travelers.Adults)
	if travelers.Children > 0 {
		addLine(labelChild, month.Prices.Child, travelers.Children)
	}
	if travelers.Infants > 0 {
		addLine(labelInfant, month.Prices.Infant, travelers.Infants)
	}
	if applySingleSupplement {
		addLine(labelSingleSupplement, month.Prices.SingleSupplement, 1)
	}
	for _, a := range addOns {
		quote.AddOnIDs = append(quote.AddOnIDs, a.ID)
		addLine(a.Name, a.Price, 1)
	}

	for _, li := range quote.LineItems {
		quote.Total += li.Subtotal
	}
	return quote, nil
}

// ResolveAddOns maps selected ids onto the add-on catalog, preserving the
// selection order. An unknown id is ErrNotFound.
func ResolveAddOns(available []AddOn, ids []string) ([]AddOn, error) {
	byID := make(map[string]AddOn, len(available))
	for _, a := range available {
		byID[a.ID] = a
	}
	var out []AddOn
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, notFoundf("add-on %q", id)
		}
		out = append(out, a)
	}
	return out, nil
}
