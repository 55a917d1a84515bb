package fleet

import (
	"context"
	"errors"
	"strings"
	"time"

	"roamvan/internal/domain/shared/events"
	"roamvan/internal/domain/shared/money"
)

var (
	ErrIDRequired      = errors.New("fleet: id is required")
	ErrNameRequired    = errors.New("fleet: name is required")
	ErrInvalidCategory = errors.New("fleet: unknown category")
	ErrNegativePrice   = errors.New("fleet: base price must be non-negative")
	ErrInvalidMinDays  = errors.New("fleet: minimum rental days must be non-negative")
	ErrNotFound        = errors.New("fleet: item not found")
)

type ItemID string

type Category string

const (
	CategoryCampervan Category = "CAMPERVAN"
	CategoryEquipment Category = "EQUIPMENT"
)

// Item is a rentable unit of the fleet: a campervan or a piece of outdoor
// equipment. BasePricePerDay is the out-of-season daily rate; seasons scale
// it multiplicatively. MinRentalDays of zero means no item-level minimum.
type Item struct {
	ID              ItemID
	Name            string
	Category        Category
	Description     string
	BasePricePerDay money.Money
	MinRentalDays   int
	PhotoURLs       []string
	Active          bool
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ItemID) (*Item, error)
	Save(ctx context.Context, item *Item) error
	List(ctx context.Context, filter ListFilter) ([]*Item, error)
}

type ListFilter struct {
	Category   Category
	OnlyActive bool
}

type CreateParams struct {
	ID              ItemID
	Name            string
	Category        Category
	Description     string
	BasePricePerDay money.Money
	MinRentalDays   int
	PhotoURLs       []string
	Now             time.Time
}

func NewItem(params CreateParams) (*Item, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	switch params.Category {
	case CategoryCampervan, CategoryEquipment:
	default:
		return nil, ErrInvalidCategory
	}
	if params.BasePricePerDay.Amount < 0 {
		return nil, ErrNegativePrice
	}
	if params.MinRentalDays < 0 {
		return nil, ErrInvalidMinDays
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Item{
		ID:              params.ID,
		Name:            name,
		Category:        params.Category,
		Description:     strings.TrimSpace(params.Description),
		BasePricePerDay: params.BasePricePerDay,
		MinRentalDays:   params.MinRentalDays,
		PhotoURLs:       append([]string(nil), params.PhotoURLs...),
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (i *Item) Deactivate(now time.Time) {
	i.Active = false
	i.touch(now)
}

func (i *Item) Activate(now time.Time) {
	i.Active = true
	i.touch(now)
}

func (i *Item) UpdatePrice(price money.Money, now time.Time) error {
	if price.Amount < 0 {
		return ErrNegativePrice
	}
	i.BasePricePerDay = price
	i.touch(now)
	return nil
}

func (i *Item) AddPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	i.PhotoURLs = append(i.PhotoURLs, url)
	i.touch(now)
}

func (i *Item) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	i.UpdatedAt = now.UTC()
}
