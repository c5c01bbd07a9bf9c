package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/drive-share/service-rental/pkg/authx"
	"github.com/drive-share/service-rental/pkg/domain"
)

// User is the slice of an account the rental core needs: an identity with a
// balance the ledger can move, a car-owner flag, and the recovery question
// set the identity collaborator checks.
type User struct {
	id                uuid.UUID
	name              string
	email             string
	balanceCents      int64
	isCarOwner        bool
	securityQuestions []authx.SecurityQuestion
	createdAt         time.Time
}

// NewUser creates a user account with a starting balance.
func NewUser(name, email string, balanceCents int64, isCarOwner bool, questions []authx.SecurityQuestion) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if balanceCents < 0 {
		return nil, domain.NewValidationError("balance cannot be negative")
	}
	return &User{
		id:                uuid.New(),
		name:              name,
		email:             email,
		balanceCents:      balanceCents,
		isCarOwner:        isCarOwner,
		securityQuestions: questions,
		createdAt:         time.Now().UTC(),
	}, nil
}

// ReconstructUser rebuilds a User from persistence data.
func ReconstructUser(
	id uuid.UUID,
	name, email string,
	balanceCents int64,
	isCarOwner bool,
	questions []authx.SecurityQuestion,
	createdAt time.Time,
) *User {
	return &User{
		id:                id,
		name:              name,
		email:             email,
		balanceCents:      balanceCents,
		isCarOwner:        isCarOwner,
		securityQuestions: questions,
		createdAt:         createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) BalanceCents() int64  { return u.balanceCents }
func (u *User) IsCarOwner() bool     { return u.isCarOwner }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// SecurityQuestions returns the stored recovery question set.
func (u *User) SecurityQuestions() []authx.SecurityQuestion { return u.securityQuestions }

// BecomeCarOwner flips the owner flag; there is no way back.
func (u *User) BecomeCarOwner() {
	u.isCarOwner = true
}
