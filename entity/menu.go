package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups dishes on the menu. Static reference data.
type Category struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"type:text;not null"`
	Slug         string    `json:"slug" gorm:"type:text;uniqueIndex;not null"`
	ImageURL     string    `json:"image_url,omitempty" gorm:"type:text"`
	DisplayOrder int       `json:"display_order" gorm:"not null;index"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// MenuItem is a dish that can be reserved.
type MenuItem struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CategoryID  uuid.UUID       `json:"category_id" gorm:"type:uuid;index;not null"`
	Name        string          `json:"name" gorm:"type:text;not null;index"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"type:text"`
	// no gorm default here: a false value must be written as-is
	IsAvailable bool      `json:"is_available" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
