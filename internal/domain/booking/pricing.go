package booking

import (
	"time"

	"github.com/drive-share/service-rental/pkg/domain"
)

// RentalDays returns the number of billable days for [start, end), rounding
// partial days up. A span that is not positive yields 0.
func RentalDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// CalculateTotalPrice computes the booking total: billable days times the
// car's daily price. The result is deterministic for any valid input triple.
func CalculateTotalPrice(start, end time.Time, priceCentsPerDay int64) (int64, error) {
	if priceCentsPerDay <= 0 {
		return 0, domain.NewValidationError("price per day must be positive")
	}
	days := RentalDays(start, end)
	if days <= 0 {
		return 0, domain.NewValidationError("end date must be after start date")
	}
	return int64(days) * priceCentsPerDay, nil
}
