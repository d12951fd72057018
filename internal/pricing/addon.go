package pricing

// AddOnKind distinguishes the two optional service catalogs.
type AddOnKind string

const (
	AddOnTransport AddOnKind = "transport"
	AddOnFlight    AddOnKind = "flight"
)

// AddOn is an optional extra service purchasable alongside a tour. Price is
// a flat per-booking charge in whole VND, not per traveler.
type AddOn struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Price int64     `json:"price" yaml:"price"`
	Kind  AddOnKind `json:"kind" yaml:"kind"`
}

// FilterByKind returns the add-ons of one kind, preserving order.
func FilterByKind(addOns []AddOn, kind AddOnKind) []AddOn {
	var out []AddOn
	for _, a := range addOns {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
