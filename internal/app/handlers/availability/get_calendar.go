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
	domainrange "roamvan/internal/domain/shared/daterange"
)

const getCalendarKey = "availability.calendar"

var ErrItemRequired = errors.New("availability: item id is required")

type GetCalendarQuery struct {
	ItemID string
	From   time.Time
	To     time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

func (q GetCalendarQuery) Validate() error {
	if q.ItemID == "" {
		return ErrItemRequired
	}
	return nil
}

type BookedBlock struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason"`
}

type GetCalendarResult struct {
	ItemID string        `json:"item_id"`
	Blocks []BookedBlock `json:"blocks"`
}

type GetCalendarHandler struct {
	UoWFactory uow.Factory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (*GetCalendarResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	calendar, err := unit.Availability().Calendar(ctx, fleet.ItemID(q.ItemID))
	if err != nil {
		if errors.Is(err, domainavailability.ErrCalendarNotFound) {
			return &GetCalendarResult{ItemID: q.ItemID, Blocks: []BookedBlock{}}, nil
		}
		return nil, err
	}

	window, windowed := windowRange(q.From, q.To)
	res := &GetCalendarResult{ItemID: q.ItemID, Blocks: make([]BookedBlock, 0, len(calendar.Blocks))}
	for _, block := range calendar.Blocks {
		if windowed && !block.Range.Overlaps(window) {
			continue
		}
		res.Blocks = append(res.Blocks, BookedBlock{
			Start:  block.Range.Start,
			End:    block.Range.End,
			Reason: string(block.Reason),
		})
	}
	return res, nil
}

func windowRange(from, to time.Time) (domainrange.DateRange, bool) {
	if from.IsZero() || to.IsZero() {
		return domainrange.DateRange{}, false
	}
	rng, err := domainrange.New(from, to)
	if err != nil {
		return domainrange.DateRange{}, false
	}
	return rng, true
}

var _ queries.Handler[GetCalendarQuery, *GetCalendarResult] = (*GetCalendarHandler)(nil)
