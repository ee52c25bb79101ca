package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth providers an account can be registered under. An email is claimed by
// exactly one provider at a time.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Account represents a user record in the credential store.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Username     string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	AuthProvider string    `gorm:"not null;default:email"`
	IsActive     bool      `gorm:"not null;default:true"`
	IsVerified   bool      `gorm:"not null;default:false"`
	Image        string
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate generates a UUID if not already set.
func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
