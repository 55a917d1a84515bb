package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roamvan/internal/app/queries"
	"roamvan/internal/app/uow"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/pricing"
	domainrange "roamvan/internal/domain/shared/daterange"

	"roamvan/internal/app/handlers/support"
)

const getQuoteKey = "quote.get"

var ErrNoItems = errors.New("quote: at least one item is required")

type GetQuoteQuery struct {
	ItemIDs []string
	Start   time.Time
	End     time.Time
}

func (q GetQuoteQuery) Key() string { return getQuoteKey }

func (q GetQuoteQuery) Validate() error {
	if len(q.ItemIDs) == 0 {
		return ErrNoItems
	}
	return nil
}

type BreakdownEntry struct {
	Day        time.Time `json:"day"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	PriceCents float64   `json:"price_cents"`
	SeasonName string    `json:"season_name,omitempty"`
}

// GetQuoteResult carries the priced range plus the minimum-stay advisory.
// A range shorter than the minimum stay still prices; MinStayMessage tells
// the caller why the range is not bookable as-is.
type GetQuoteResult struct {
	TotalCents     int64            `json:"total_cents"`
	Currency       string           `json:"currency"`
	Days           int              `json:"days"`
	Breakdown      []BreakdownEntry `json:"breakdown"`
	MinDays        int              `json:"min_days"`
	MinEndDate     time.Time        `json:"min_end_date"`
	MinStayMessage string           `json:"min_stay_message,omitempty"`
}

type GetQuoteHandler struct {
	UoWFactory uow.Factory
}

func (h *GetQuoteHandler) Handle(ctx context.Context, q GetQuoteQuery) (*GetQuoteResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	rng, err := domainrange.New(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	items := make([]*fleet.Item, 0, len(q.ItemIDs))
	for _, id := range q.ItemIDs {
		item, err := unit.Fleet().ByID(ctx, fleet.ItemID(id))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	seasons, err := unit.Seasons().List(ctx)
	if err != nil {
		return nil, err
	}

	priced := pricing.Quote(items, rng, seasons)
	minDays := pricing.MinimumDaysRequired(rng.Start, seasons, items)
	minEnd := pricing.MinimumEndDate(rng.Start, seasons, items)

	res := &GetQuoteResult{
		TotalCents: priced.TotalCents,
		Currency:   priced.Currency,
		Days:       priced.Days,
		Breakdown:  make([]BreakdownEntry, 0, len(priced.Breakdown)),
		MinDays:    minDays,
		MinEndDate: minEnd,
	}
	for _, entry := range priced.Breakdown {
		res.Breakdown = append(res.Breakdown, BreakdownEntry{
			Day:        entry.Day,
			ItemID:     string(entry.ItemID),
			ItemName:   entry.ItemName,
			PriceCents: entry.PriceCents,
			SeasonName: entry.SeasonName,
		})
	}
	if priced.Days < minDays {
		res.MinStayMessage = fmt.Sprintf("minimum stay for this start date is %d days", minDays)
	}
	return res, nil
}

var _ queries.Handler[GetQuoteQuery, *GetQuoteResult] = (*GetQuoteHandler)(nil)
