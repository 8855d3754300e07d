// Package availability enforces the per-dish daily portion cap and the
// per-cart-line portion cap.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrSoldOut   = errors.New("Sold Out: Today's ritual for this dish is complete")
	ErrLineLimit = errors.New("Limit: 5 portions per masterpiece")
)

// RemainingError is returned when raising a line quantity would exceed what
// is left of the daily cap.
type RemainingError struct {
	Left int
}

func (e *RemainingError) Error() string {
	return fmt.Sprintf("Sold Out: Only %d portions left for today across all orders.", e.Left)
}

func (e *RemainingError) Is(target error) bool { return target == ErrSoldOut }

// Limits holds the two portion caps.
type Limits struct {
	Daily   int
	PerLine int
}

var DefaultLimits = Limits{Daily: 10, PerLine: 5}

// CanAdd checks whether one more portion of a dish may go into the cart.
// ordered is today's committed count, inCart the current line quantity.
func (l Limits) CanAdd(ordered, inCart int) error {
	if ordered+inCart >= l.Daily {
		return ErrSoldOut
	}
	if inCart >= l.PerLine {
		return ErrLineLimit
	}
	return nil
}

// ChangeQuantity applies delta to a cart line and returns the new quantity,
// clamped to [1, PerLine]. Increases that would push ordered+next past the
// daily cap are rejected and leave the line untouched.
func (l Limits) ChangeQuantity(ordered, current, delta int) (int, error) {
	next := current + delta
	if next > l.PerLine {
		next = l.PerLine
	}
	if next < 1 {
		next = 1
	}
	if delta > 0 && ordered+next > l.Daily {
		return current, &RemainingError{Left: l.Remaining(ordered)}
	}
	return next, nil
}

// Remaining is the number of portions still orderable today.
func (l Limits) Remaining(ordered int) int {
	if ordered >= l.Daily {
		return 0
	}
	return l.Daily - ordered
}

// DayWindow returns [midnight, next midnight) of now's calendar day in loc.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Counter sums ordered quantities per dish over non-cancelled orders created
// in [from, to).
type Counter interface {
	DailyQuantities(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error)
}

// Service computes today's counts.
type Service struct {
	counter Counter
	limits  Limits
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

func NewService(counter Counter, limits Limits, loc *time.Location, log zerolog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		counter: counter,
		limits:  limits,
		loc:     loc,
		now:     time.Now,
		log:     log.With().Str("component", "availability").Logger(),
	}
}

func (s *Service) Limits() Limits { return s.limits }

// DailyCounts returns today's ordered quantity per dish. Dishes nobody ordered
// are absent from the map.
func (s *Service) DailyCounts(ctx context.Context) (map[uuid.UUID]int, error) {
	from, to := DayWindow(s.now(), s.loc)
	counts, err := s.counter.DailyQuantities(ctx, from, to)
	if err != nil {
		s.log.Error().Err(err).Time("from", from).Msg("failed to count today's orders")
		return nil, fmt.Errorf("count daily quantities: %w", err)
	}
	return counts, nil
}
