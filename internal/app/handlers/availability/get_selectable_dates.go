package availability

import (
	"context"
	"errors"
	"time"

	"roamvan/internal/app/handlers/support"
	"roamvan/internal/app/queries"
	"roamvan/internal/app/uow"
	domainavailability "roamvan/internal/domain/availability"
	"roamvan/internal/domain/fleet"
	"roamvan/internal/domain/pricing"
	domainrange "roamvan/internal/domain/shared/daterange"
)

const getSelectableDatesKey = "availability.selectable_dates"

// GetSelectableDatesQuery filters end-date candidates for a date picker. The
// caller supplies the picker's current selection and the candidates on
// display; the result says which of them may be chosen as the end date.
type GetSelectableDatesQuery struct {
	ItemIDs        []string
	SelectionStart time.Time
	SelectionEnd   time.Time
	Candidates     []time.Time
}

func (q GetSelectableDatesQuery) Key() string { return getSelectableDatesKey }

func (q GetSelectableDatesQuery) Validate() error {
	if len(q.ItemIDs) == 0 {
		return ErrItemRequired
	}
	return nil
}

type CandidateResult struct {
	Day        time.Time `json:"day"`
	Selectable bool      `json:"selectable"`
}

type GetSelectableDatesResult struct {
	MinEndDate time.Time         `json:"min_end_date"`
	Candidates []CandidateResult `json:"candidates"`
}

type GetSelectableDatesHandler struct {
	UoWFactory uow.Factory
}

func (h *GetSelectableDatesHandler) Handle(ctx context.Context, q GetSelectableDatesQuery) (*GetSelectableDatesResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items := make([]*fleet.Item, 0, len(q.ItemIDs))
	calendars := make([]*domainavailability.Calendar, 0, len(q.ItemIDs))
	for _, id := range q.ItemIDs {
		item, err := unit.Fleet().ByID(ctx, fleet.ItemID(id))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		calendar, err := unit.Availability().Calendar(ctx, item.ID)
		if err != nil {
			if !errors.Is(err, domainavailability.ErrCalendarNotFound) {
				return nil, err
			}
			calendar = domainavailability.NewCalendar(item.ID)
		}
		calendars = append(calendars, calendar)
	}

	seasons, err := unit.Seasons().List(ctx)
	if err != nil {
		return nil, err
	}

	sel := domainavailability.Selection{Start: q.SelectionStart, End: q.SelectionEnd}
	var minEnd time.Time
	if !q.SelectionStart.IsZero() {
		minEnd = pricing.MinimumEndDate(q.SelectionStart, seasons, items)
	}

	res := &GetSelectableDatesResult{
		MinEndDate: minEnd,
		Candidates: make([]CandidateResult, 0, len(q.Candidates)),
	}
	for _, candidate := range q.Candidates {
		day := domainrange.Day(candidate)
		selectable := true
		for _, calendar := range calendars {
			if !calendar.SelectableEnd(sel, day, minEnd) {
				selectable = false
				break
			}
		}
		res.Candidates = append(res.Candidates, CandidateResult{Day: day, Selectable: selectable})
	}
	return res, nil
}

var _ queries.Handler[GetSelectableDatesQuery, *GetSelectableDatesResult] = (*GetSelectableDatesHandler)(nil)
