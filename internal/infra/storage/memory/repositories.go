package memory

import (
	"context"
	"sort"
	"sync"

	domainavailability "roamvan/internal/domain/availability"
	domainbooking "roamvan/internal/domain/booking"
	domainfleet "roamvan/internal/domain/fleet"
	domainseason "roamvan/internal/domain/season"
)

// ItemRepository is an in-memory fleet store for dev mode and tests.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[domainfleet.ItemID]*domainfleet.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[domainfleet.ItemID]*domainfleet.Item)}
}

func (r *ItemRepository) ByID(ctx context.Context, id domainfleet.ItemID) (*domainfleet.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainfleet.ErrNotFound
	}
	return item, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domainfleet.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.Version++
	r.items[item.ID] = item
	return nil
}

func (r *ItemRepository) List(ctx context.Context, filter domainfleet.ListFilter) ([]*domainfleet.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainfleet.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.OnlyActive && !item.Active {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		matches = append(matches, item)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// SeasonRepository keeps the season catalog in memory in insertion order,
// so the first-match resolution order is stable across calls.
type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[domainseason.ID]domainseason.Season
	order   []domainseason.ID
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{seasons: make(map[domainseason.ID]domainseason.Season)}
}

func (r *SeasonRepository) List(ctx context.Context) (domainseason.Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	catalog := make(domainseason.Catalog, 0, len(r.order))
	for _, id := range r.order {
		catalog = append(catalog, r.seasons[id])
	}
	return catalog, nil
}

func (r *SeasonRepository) ByID(ctx context.Context, id domainseason.ID) (domainseason.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.seasons[id]
	if !ok {
		return domainseason.Season{}, domainseason.ErrNotFound
	}
	return s, nil
}

func (r *SeasonRepository) Save(ctx context.Context, s domainseason.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seasons[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	r.seasons[s.ID] = s
	return nil
}

func (r *SeasonRepository) Delete(ctx context.Context, id domainseason.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seasons[id]; !ok {
		return domainseason.ErrNotFound
	}
	delete(r.seasons, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// AvailabilityRepository stores per-item calendars, lazily creating them.
type AvailabilityRepository struct {
	mu        sync.RWMutex
	calendars map[domainfleet.ItemID]*domainavailability.Calendar
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{calendars: make(map[domainfleet.ItemID]*domainavailability.Calendar)}
}

func (r *AvailabilityRepository) Calendar(ctx context.Context, id domainfleet.ItemID) (*domainavailability.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cal, ok := r.calendars[id]; ok {
		return cal, nil
	}
	cal := domainavailability.NewCalendar(id)
	r.calendars[id] = cal
	return cal, nil
}

func (r *AvailabilityRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	calendar.Version++
	r.calendars[calendar.ItemID] = calendar
	return nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return booking, nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter domainbooking.ListFilter) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0, len(r.items))
	for _, b := range r.items {
		if !matchesFilter(b, filter) {
			continue
		}
		matches = append(matches, b)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Range.Start.Equal(matches[j].Range.Start) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Range.Start.Before(matches[j].Range.Start)
	})
	return matches, nil
}

func matchesFilter(b *domainbooking.Booking, filter domainbooking.ListFilter) bool {
	if !filter.From.IsZero() && b.Range.End.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && b.Range.Start.After(filter.To) {
		return false
	}
	if len(filter.States) > 0 {
		found := false
		for _, state := range filter.States {
			if b.State == state {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.ItemID != "" {
		found := false
		for _, ref := range b.Items {
			if ref.ID == filter.ItemID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !filter.DeadlineBefore.IsZero() {
		if b.PaymentDeadline.IsZero() || !b.PaymentDeadline.Before(filter.DeadlineBefore) {
			return false
		}
	}
	return true
}
