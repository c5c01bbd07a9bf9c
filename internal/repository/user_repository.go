package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDomain "github.com/drive-share/service-rental/internal/domain/user"
	"github.com/drive-share/service-rental/pkg/authx"
	"github.com/drive-share/service-rental/pkg/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name              string          `gorm:"not null;size:200"`
	Email             string          `gorm:"uniqueIndex;not null;size:200"`
	BalanceCents      int64           `gorm:"not null;default:0"`
	IsCarOwner        bool            `gorm:"not null;default:false"`
	SecurityQuestions json.RawMessage `gorm:"type:jsonb"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of user.Repository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ userDomain.Repository = (*GormUserRepository)(nil)

// FindByID retrieves a user by id.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toDomainUser(&model)
}

// Save persists a new user.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	questionsJSON, err := json.Marshal(u.SecurityQuestions())
	if err != nil {
		return fmt.Errorf("failed to marshal security questions: %w", err)
	}

	model := &UserModel{
		ID:                u.ID(),
		Name:              u.Name(),
		Email:             u.Email(),
		BalanceCents:      u.BalanceCents(),
		IsCarOwner:        u.IsCarOwner(),
		SecurityQuestions: questionsJSON,
		CreatedAt:         u.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Transfer moves amountCents between two balances in one transaction. Both
// rows are locked FOR UPDATE in id order so two concurrent transfers over
// the same pair cannot deadlock, and the payer's balance is checked on the
// locked row.
func (r *GormUserRepository) Transfer(ctx context.Context, fromID, toID uuid.UUID, amountCents int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second := fromID, toID
		if second.String() < first.String() {
			first, second = second, first
		}

		var locked [2]UserModel
		for i, id := range []uuid.UUID{first, second} {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", id).
				First(&locked[i]).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NewNotFoundError("user", id.String())
				}
				return fmt.Errorf("failed to lock user row: %w", err)
			}
		}

		from := &locked[0]
		if from.ID != fromID {
			from = &locked[1]
		}
		if from.BalanceCents < amountCents {
			return domain.NewInsufficientFundsError("balance is too low for this payment")
		}

		if err := tx.Model(&UserModel{}).Where("id = ?", fromID).
			Update("balance_cents", gorm.Expr("balance_cents - ?", amountCents)).Error; err != nil {
			return fmt.Errorf("failed to debit payer: %w", err)
		}
		if err := tx.Model(&UserModel{}).Where("id = ?", toID).
			Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents)).Error; err != nil {
			return fmt.Errorf("failed to credit payee: %w", err)
		}
		return nil
	})
}

func toDomainUser(m *UserModel) (*userDomain.User, error) {
	var questions []authx.SecurityQuestion
	if len(m.SecurityQuestions) > 0 {
		if err := json.Unmarshal(m.SecurityQuestions, &questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal security questions: %w", err)
		}
	}
	return userDomain.ReconstructUser(
		m.ID, m.Name, m.Email, m.BalanceCents, m.IsCarOwner, questions, m.CreatedAt,
	), nil
}
