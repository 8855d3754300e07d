package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of a signed-up guest. The ID equals the
// identity-provider user id. Created on signup and never mutated.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName  string    `json:"full_name" gorm:"type:text"`
	Email     string    `json:"email" gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName is what ends up on orders and invoices.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// Credential stores a password hash for the built-in identity provider.
type Credential struct {
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"type:text;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
