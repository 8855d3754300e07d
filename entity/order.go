package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus enumerates the lifecycle of a reservation order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"   // placed, awaiting the kitchen
	OrderApproved  OrderStatus = "approved"  // accepted by an admin
	OrderRejected  OrderStatus = "rejected"  // declined by an admin
	OrderCompleted OrderStatus = "completed" // guest visited and settled the balance
	OrderCancelled OrderStatus = "cancelled" // withdrawn by the guest
)

// Terminal reports whether no further transition is possible from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderRejected, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderApproved, OrderRejected, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks how much of the order total has been collected.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFullyPaid     PaymentStatus = "fully_paid"
)

// Order is a table reservation with a pre-selected set of dishes.
type Order struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:uuid;index;not null"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"type:numeric(12,2);not null"`
	VisitTime     time.Time       `json:"visit_time" gorm:"not null;index"`
	Status        OrderStatus     `json:"status" gorm:"type:text;index;not null"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:text;not null"`
	CustomerName  string          `json:"customer_name" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`
	// Relations
	Items []OrderItem `json:"order_items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Balance is the amount still due on arrival.
func (o *Order) Balance() decimal.Decimal {
	return o.TotalAmount.Sub(o.PaidAmount)
}

// OrderItem is one dish line of an order. PriceAtTime is frozen at checkout.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OrderID     uuid.UUID       `json:"order_id" gorm:"type:uuid;index;not null"`
	MenuItemID  uuid.UUID       `json:"menu_item_id" gorm:"type:uuid;index;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	PriceAtTime decimal.Decimal `json:"price_at_time" gorm:"type:numeric(12,2);not null"`
	MenuItem    *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:RESTRICT"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineTotal is PriceAtTime × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
