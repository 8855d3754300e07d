package order

import (
	"testing"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuoteAppliesDiscountAndSplitsDeposit(t *testing.T) {
	lines := []Line{
		{MenuItemID: uuid.New(), Quantity: 2, Price: dec("850")},
		{MenuItemID: uuid.New(), Quantity: 1, Price: dec("1450")},
	}
	q := DefaultPricing.Quote(lines)
	assert.True(t, q.Subtotal.Equal(dec("3150")), q.Subtotal.String())
	assert.True(t, q.Discount.Equal(dec("315")), q.Discount.String())
	assert.True(t, q.Total.Equal(dec("2835")), q.Total.String())
	assert.True(t, q.Deposit.Equal(dec("1417.5")), q.Deposit.String())
	assert.True(t, q.Balance.Equal(dec("1417.5")), q.Balance.String())
}

func TestTotalsIgnoreDiscount(t *testing.T) {
	total, paid := DefaultPricing.Totals([]Line{{Quantity: 3, Price: dec("450")}})
	assert.True(t, total.Equal(dec("1350")))
	assert.True(t, paid.Equal(dec("675")))
}

func TestValidateVisitTime(t *testing.T) {
	p := DefaultPolicy
	p.Location = time.UTC
	now := time.Date(2026, 4, 2, 15, 30, 0, 0, time.UTC)
	at := func(day, h, m int) time.Time { return time.Date(2026, 4, day, h, m, 0, 0, time.UTC) }

	cases := []struct {
		name  string
		visit time.Time
		want  error
	}{
		{"before opening", at(3, 10, 59), ErrOutsideHours},
		{"opening minute", at(3, 11, 0), nil},
		{"closing minute", at(3, 23, 0), nil},
		{"after closing", at(3, 23, 1), ErrOutsideHours},
		{"earlier today", at(2, 12, 0), ErrPastVisit},
		{"this minute", at(2, 15, 30), ErrPastVisit},
		{"later today", at(2, 15, 31), nil},
		{"yesterday", at(1, 18, 0), ErrPastVisit},
		{"outside hours wins over past", at(1, 9, 0), ErrOutsideHours},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.ValidateVisitTime(tc.visit, now)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	o := &entity.Order{Status: entity.OrderPending, VisitTime: now.Add(2 * time.Hour)}
	assert.ErrorIs(t, DefaultPolicy.CanCancel(o, now), ErrCancellationWindow)

	o.VisitTime = now.Add(3 * time.Hour)
	assert.ErrorIs(t, DefaultPolicy.CanCancel(o, now), ErrCancellationWindow)

	o.VisitTime = now.Add(3*time.Hour + time.Minute)
	assert.NoError(t, DefaultPolicy.CanCancel(o, now))

	o.Status = entity.OrderApproved
	assert.NoError(t, DefaultPolicy.CanCancel(o, now))

	o.Status = entity.OrderCompleted
	assert.ErrorIs(t, DefaultPolicy.CanCancel(o, now), ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(entity.OrderPending, entity.OrderApproved))
	assert.True(t, CanTransition(entity.OrderPending, entity.OrderRejected))
	assert.True(t, CanTransition(entity.OrderApproved, entity.OrderCompleted))
	assert.False(t, CanTransition(entity.OrderPending, entity.OrderCompleted))
	assert.False(t, CanTransition(entity.OrderRejected, entity.OrderApproved))
	assert.False(t, CanTransition(entity.OrderCancelled, entity.OrderPending))
	assert.False(t, CanTransition(entity.OrderCompleted, entity.OrderCancelled))
}
