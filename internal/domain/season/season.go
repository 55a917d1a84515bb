package season

import (
	"context"
	"errors"
	"strings"
	"time"

	"roamvan/internal/domain/shared/daterange"
)

var (
	ErrIDRequired        = errors.New("season: id is required")
	ErrNameRequired      = errors.New("season: name is required")
	ErrInvalidDates      = errors.New("season: start must be on or before end")
	ErrInvalidMultiplier = errors.New("season: multiplier must be positive")
	ErrInvalidMinDays    = errors.New("season: minimum stay must be at least 1 day")
	ErrNotFound          = errors.New("season: not found")
)

type ID string

// Season is a pricing window: bookings whose days fall inside [Start, End]
// are charged base price times Multiplier, and a stay starting inside the
// window must cover at least MinDays days.
type Season struct {
	ID         ID
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier float64
	MinDays    int
}

type CreateParams struct {
	ID         ID
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier float64
	MinDays    int
}

func New(params CreateParams) (Season, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return Season{}, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return Season{}, ErrNameRequired
	}
	s := Season{
		ID:         params.ID,
		Name:       name,
		Start:      daterange.Day(params.Start),
		End:        daterange.Day(params.End),
		Multiplier: params.Multiplier,
		MinDays:    params.MinDays,
	}
	if err := s.Validate(); err != nil {
		return Season{}, err
	}
	return s, nil
}

func (s Season) Validate() error {
	if s.Start.IsZero() || s.End.IsZero() || s.End.Before(s.Start) {
		return ErrInvalidDates
	}
	if s.Multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	if s.MinDays < 1 {
		return ErrInvalidMinDays
	}
	return nil
}

// Contains reports whether the calendar date falls inside the season's
// inclusive [Start, End] window.
func (s Season) Contains(day time.Time) bool {
	d := daterange.Day(day)
	return !d.Before(s.Start) && !d.After(s.End)
}

// Catalog is an ordered season list. Order is significant: overlapping
// seasons are allowed, and the first season in catalog order that contains a
// date wins. Callers must not reorder a catalog they were handed.
type Catalog []Season

// ForDate returns the first season containing the date, or false when no
// season matches. No match is a normal outcome: it means base price applies
// and no season minimum-stay constraint is in force.
func (c Catalog) ForDate(day time.Time) (Season, bool) {
	for _, s := range c {
		if s.Contains(day) {
			return s, true
		}
	}
	return Season{}, false
}

// Validate checks every season in the catalog.
func (c Catalog) Validate() error {
	for _, s := range c {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Repository supplies the fully materialized catalog; the pricing engine
// never fetches seasons itself.
type Repository interface {
	List(ctx context.Context) (Catalog, error)
	ByID(ctx context.Context, id ID) (Season, error)
	Save(ctx context.Context, s Season) error
	Delete(ctx context.Context, id ID) error
}
