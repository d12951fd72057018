package catalog

import (
	"fmt"
)

// Store is the immutable in-memory tour catalog. It is populated once at
// startup and read many times; there is no ambient singleton, callers get
// a Store injected and pass it down explicitly.
type Store struct {
	tours []Tour
	byID  map[string]int
}

// NewStore validates and freezes a catalog. The input slice is copied so
// later mutation by the caller cannot leak into the store.
func NewStore(tours []Tour) (*Store, error) {
	s := &Store{
		tours: make([]Tour, len(tours)),
		byID:  make(map[string]int, len(tours)),
	}
	copy(s.tours, tours)

	for i := range s.tours {
		t := &s.tours[i]
		if t.ID == "" {
			return nil, fmt.Errorf("tour at index %d: %w: empty id", i, ErrInvalidTour)
		}
		if _, dup := s.byID[t.ID]; dup {
			return nil, fmt.Errorf("tour %q: %w: duplicate id", t.ID, ErrInvalidTour)
		}
		if t.BasePrice < 0 {
			return nil, fmt.Errorf("tour %q: %w: negative base price", t.ID, ErrInvalidTour)
		}
		if t.Rating < 0 || t.Rating > 5 {
			return nil, fmt.Errorf("tour %q: %w: rating %.1f out of range", t.ID, ErrInvalidTour, t.Rating)
		}
		for _, d := range t.Departures {
			p := d.Prices
			if p.Adult < 0 || p.Child < 0 || p.Infant < 0 || p.SingleSupplement < 0 {
				return nil, fmt.Errorf("tour %q month %q: %w: negative price", t.ID, d.MonthLabel, ErrInvalidTour)
			}
		}
		s.byID[t.ID] = i
	}
	return s, nil
}

// All returns the catalog in original order. The returned slice is a copy;
// the Tour values it holds share itinerary/departure backing arrays with the
// store, which is safe because nothing in this package mutates them.
func (s *Store) All() []Tour {
	out := make([]Tour, len(s.tours))
	copy(out, s.tours)
	return out
}

// ByID returns the tour with the given id, or ErrTourNotFound.
func (s *Store) ByID(id string) (*Tour, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("tour %q: %w", id, ErrTourNotFound)
	}
	t := s.tours[i]
	return &t, nil
}

// Len reports the number of tours in the catalog.
func (s *Store) Len() int {
	return len(s.tours)
}

// Regions returns the distinct regions present in the catalog, in first-seen
// order. Used by the handlers to populate the region filter.
func (s *Store) Regions() []string {
	seen := make(map[string]bool)
	var regions []string
	for i := range s.tours {
		r := s.tours[i].Region
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		regions = append(regions, r)
	}
	return regions
}
