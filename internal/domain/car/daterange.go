package car

import (
	"time"

	"github.com/drive-share/service-rental/pkg/domain"
)

// DateRange is a half-open interval [Start, End). Two ranges that share only
// an endpoint do not overlap, so a rental ending on the 4th and one starting
// on the 4th can coexist.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange validates that start precedes end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if !start.Before(end) {
		return DateRange{}, domain.NewValidationError("end date must be after start date")
	}
	return DateRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether r and other share any instant.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Contains reports whether other lies fully within r.
func (r DateRange) Contains(other DateRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Days returns the rental length in whole days, rounding partial days up.
// A zero or negative span yields 0.
func (r DateRange) Days() int {
	d := r.End.Sub(r.Start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
