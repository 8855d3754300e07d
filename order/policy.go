package order

import (
	"time"

	"github.com/digifood/restaurant-backend/entity"
)

// Policy holds the booking rules.
type Policy struct {
	OpenHour           int
	CloseHour          int
	CancellationWindow time.Duration
	Location           *time.Location
}

var DefaultPolicy = Policy{OpenHour: 11, CloseHour: 23, CancellationWindow: 3 * time.Hour}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// ValidateVisitTime checks opening hours first, then that the slot is ahead
// of now at minute resolution.
func (p Policy) ValidateVisitTime(visit, now time.Time) error {
	v := visit.In(p.loc())
	n := now.In(p.loc())

	minutes := v.Hour()*60 + v.Minute()
	if minutes < p.OpenHour*60 || minutes > p.CloseHour*60 {
		return ErrOutsideHours
	}

	vy, vm, vd := v.Date()
	ny, nm, nd := n.Date()
	visitDay := time.Date(vy, vm, vd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	switch {
	case visitDay.Before(today):
		return ErrPastVisit
	case visitDay.Equal(today) && minutes <= n.Hour()*60+n.Minute():
		return ErrPastVisit
	}
	return nil
}

// CanCancel reports whether the owner may still withdraw o at now.
func (p Policy) CanCancel(o *entity.Order, now time.Time) error {
	if !CanTransition(o.Status, entity.OrderCancelled) {
		return ErrInvalidTransition
	}
	if o.VisitTime.Sub(now) <= p.CancellationWindow {
		return ErrCancellationWindow
	}
	return nil
}

var transitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:  {entity.OrderApproved, entity.OrderRejected, entity.OrderCancelled},
	entity.OrderApproved: {entity.OrderCompleted, entity.OrderCancelled},
}

// CanTransition reports whether from → to is a legal move.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
