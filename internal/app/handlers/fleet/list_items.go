package fleet

import (
	"context"

	"roamvan/internal/app/handlers/support"
	"roamvan/internal/app/queries"
	"roamvan/internal/app/uow"
	domainfleet "roamvan/internal/domain/fleet"
)

const (
	listItemsKey = "fleet.list"
	getItemKey   = "fleet.get"
)

type ListItemsQuery struct {
	Category    string
	IncludeIdle bool // include deactivated items; staff catalogue only
}

func (q ListItemsQuery) Key() string { return listItemsKey }

type ItemView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Description    string   `json:"description,omitempty"`
	BasePriceCents int64    `json:"base_price_cents"`
	Currency       string   `json:"currency"`
	MinRentalDays  int      `json:"min_rental_days,omitempty"`
	PhotoURLs      []string `json:"photo_urls,omitempty"`
	Active         bool     `json:"active"`
}

type ListItemsResult struct {
	Items []ItemView `json:"items"`
}

type ListItemsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListItemsHandler) Handle(ctx context.Context, q ListItemsQuery) (*ListItemsResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Fleet().List(ctx, domainfleet.ListFilter{
		Category:   domainfleet.Category(q.Category),
		OnlyActive: !q.IncludeIdle,
	})
	if err != nil {
		return nil, err
	}

	res := &ListItemsResult{Items: make([]ItemView, 0, len(items))}
	for _, item := range items {
		res.Items = append(res.Items, viewOf(item))
	}
	return res, nil
}

type GetItemQuery struct {
	ItemID string
}

func (q GetItemQuery) Key() string { return getItemKey }

type GetItemHandler struct {
	UoWFactory uow.Factory
}

func (h *GetItemHandler) Handle(ctx context.Context, q GetItemQuery) (*ItemView, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	item, err := unit.Fleet().ByID(ctx, domainfleet.ItemID(q.ItemID))
	if err != nil {
		return nil, err
	}
	view := viewOf(item)
	return &view, nil
}

func viewOf(item *domainfleet.Item) ItemView {
	return ItemView{
		ID:             string(item.ID),
		Name:           item.Name,
		Category:       string(item.Category),
		Description:    item.Description,
		BasePriceCents: item.BasePricePerDay.Amount,
		Currency:       item.BasePricePerDay.Currency,
		MinRentalDays:  item.MinRentalDays,
		PhotoURLs:      append([]string(nil), item.PhotoURLs...),
		Active:         item.Active,
	}
}

var _ queries.Handler[ListItemsQuery, *ListItemsResult] = (*ListItemsHandler)(nil)
var _ queries.Handler[GetItemQuery, *ItemView] = (*GetItemHandler)(nil)
