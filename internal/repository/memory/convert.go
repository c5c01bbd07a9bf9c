package memory

import (
	"github.com/drive-share/service-rental/internal/domain/booking"
	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/internal/domain/payment"
	"github.com/drive-share/service-rental/internal/domain/review"
	"github.com/drive-share/service-rental/internal/domain/user"
)

func carToRecord(c *car.Car) *CarRecord {
	return &CarRecord{
		ID:               c.ID(),
		OwnerID:          c.OwnerID(),
		Make:             c.Make(),
		Model:            c.Model(),
		Year:             c.Year(),
		Type:             c.Type(),
		Seats:            c.Seats(),
		Color:            c.Color(),
		LicensePlate:     c.LicensePlate(),
		MileageKm:        c.MileageKm(),
		PriceCentsPerDay: c.PriceCentsPerDay(),
		Description:      c.Description(),
		Features:         c.Features(),
		Images:           c.Images(),
		Location:         c.Location(),
		Windows:          c.Windows(),
		Reservations:     c.Reservations(),
		Available:        c.Available(),
		Rating:           c.Rating(),
		ReviewCount:      c.ReviewCount(),
		Version:          c.Version(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

func carFromRecord(rec *CarRecord) *car.Car {
	return car.ReconstructCar(
		rec.ID, rec.OwnerID, rec.Make, rec.Model, rec.Year, rec.Type,
		rec.Seats, rec.Color, rec.LicensePlate, rec.MileageKm,
		rec.PriceCentsPerDay, rec.Description, rec.Features, rec.Images,
		rec.Location, rec.Windows, rec.Reservations, rec.Available,
		rec.Rating, rec.ReviewCount, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
}

func bookingToRecord(b *booking.Booking) *BookingRecord {
	return &BookingRecord{
		ID:              b.ID(),
		CarID:           b.CarID(),
		RenterID:        b.RenterID(),
		Start:           b.Start(),
		End:             b.End(),
		TotalPriceCents: b.TotalPriceCents(),
		Status:          string(b.Status()),
		CancelNote:      b.CancelNote(),
		CancelledAt:     b.CancelledAt(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func bookingFromRecord(rec *BookingRecord) *booking.Booking {
	return booking.ReconstructBooking(
		rec.ID, rec.CarID, rec.RenterID, rec.Start, rec.End,
		rec.TotalPriceCents, booking.Status(rec.Status), rec.CancelNote,
		rec.CancelledAt, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
}

func transactionToRecord(t *payment.Transaction) *TransactionRecord {
	return &TransactionRecord{
		ID:          t.ID(),
		BookingID:   t.BookingID(),
		FromUserID:  t.FromUserID(),
		ToUserID:    t.ToUserID(),
		AmountCents: t.AmountCents(),
		Status:      string(t.Status()),
		CreatedAt:   t.CreatedAt(),
	}
}

func transactionFromRecord(rec *TransactionRecord) *payment.Transaction {
	return payment.ReconstructTransaction(
		rec.ID, rec.BookingID, rec.FromUserID, rec.ToUserID,
		rec.AmountCents, payment.TransactionStatus(rec.Status), rec.CreatedAt,
	)
}

func reviewToRecord(r *review.Review) *ReviewRecord {
	return &ReviewRecord{
		ID:         r.ID(),
		BookingID:  r.BookingID(),
		ReviewerID: r.ReviewerID(),
		TargetID:   r.TargetID(),
		TargetType: string(r.TargetType()),
		Rating:     r.Rating(),
		Comment:    r.Comment(),
		CreatedAt:  r.CreatedAt(),
	}
}

func reviewFromRecord(rec *ReviewRecord) *review.Review {
	return review.ReconstructReview(
		rec.ID, rec.BookingID, rec.ReviewerID, rec.TargetID,
		review.TargetType(rec.TargetType), rec.Rating, rec.Comment, rec.CreatedAt,
	)
}

func userToRecord(u *user.User) *UserRecord {
	return &UserRecord{
		ID:                u.ID(),
		Name:              u.Name(),
		Email:             u.Email(),
		BalanceCents:      u.BalanceCents(),
		IsCarOwner:        u.IsCarOwner(),
		SecurityQuestions: u.SecurityQuestions(),
		CreatedAt:         u.CreatedAt(),
	}
}

func userFromRecord(rec *UserRecord) *user.User {
	return user.ReconstructUser(
		rec.ID, rec.Name, rec.Email, rec.BalanceCents, rec.IsCarOwner,
		rec.SecurityQuestions, rec.CreatedAt,
	)
}
