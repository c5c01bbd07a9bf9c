package car

import "strings"

// SearchFilters are the optional predicates a catalog search applies. Zero
// values mean "no constraint". The date filter is handled by the catalog
// service because it reuses the availability check.
type SearchFilters struct {
	Location      string    `json:"location,omitempty"`
	CarType       string    `json:"car_type,omitempty"`
	Seats         int       `json:"seats,omitempty"`
	PriceMinCents int64     `json:"price_min_cents,omitempty"`
	PriceMaxCents int64     `json:"price_max_cents,omitempty"`
	Features      []string  `json:"features,omitempty"`
	DateRange     *DateRange `json:"date_range,omitempty"`
}

// Matches applies every non-date predicate to the car. Filtering is pure:
// it never reorders or mutates anything.
func (c *Car) Matches(f SearchFilters) bool {
	if f.Location != "" &&
		!strings.Contains(strings.ToLower(c.location.Address), strings.ToLower(f.Location)) {
		return false
	}
	if f.CarType != "" && c.carType != f.CarType {
		return false
	}
	if f.Seats > 0 && c.seats < f.Seats {
		return false
	}
	if f.PriceMinCents > 0 && c.priceCentsPerDay < f.PriceMinCents {
		return false
	}
	if f.PriceMaxCents > 0 && c.priceCentsPerDay > f.PriceMaxCents {
		return false
	}
	for _, want := range f.Features {
		if !c.hasFeature(want) {
			return false
		}
	}
	return true
}

func (c *Car) hasFeature(name string) bool {
	for _, f := range c.features {
		if f == name {
			return true
		}
	}
	return false
}
