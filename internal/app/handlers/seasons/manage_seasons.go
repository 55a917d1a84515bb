package seasons

import (
	"context"
	"errors"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/handlers/support"
	"roamvan/internal/app/queries"
	"roamvan/internal/app/uow"
	domainseason "roamvan/internal/domain/season"
)

const (
	listSeasonsKey  = "seasons.list"
	upsertSeasonKey = "seasons.upsert"
	deleteSeasonKey = "seasons.delete"
)

var ErrUnitOfWorkRequired = errors.New("seasons: unit of work required")

type SeasonView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Multiplier float64   `json:"multiplier"`
	MinDays    int       `json:"min_days"`
}

type ListSeasonsQuery struct{}

func (q ListSeasonsQuery) Key() string { return listSeasonsKey }

type ListSeasonsResult struct {
	Seasons []SeasonView `json:"seasons"`
}

type ListSeasonsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListSeasonsHandler) Handle(ctx context.Context, q ListSeasonsQuery) (*ListSeasonsResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	catalog, err := unit.Seasons().List(ctx)
	if err != nil {
		return nil, err
	}
	res := &ListSeasonsResult{Seasons: make([]SeasonView, 0, len(catalog))}
	for _, s := range catalog {
		res.Seasons = append(res.Seasons, SeasonView{
			ID:         string(s.ID),
			Name:       s.Name,
			Start:      s.Start,
			End:        s.End,
			Multiplier: s.Multiplier,
			MinDays:    s.MinDays,
		})
	}
	return res, nil
}

// UpsertSeasonCommand creates or replaces one season definition. Overlapping
// windows are allowed; resolution order is the stored catalog order.
type UpsertSeasonCommand struct {
	SeasonID   string
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier float64
	MinDays    int
}

func (c UpsertSeasonCommand) Key() string { return upsertSeasonKey }

type UpsertSeasonResult struct {
	SeasonID string `json:"season_id"`
}

type UpsertSeasonHandler struct {
	UoWFactory uow.Factory
}

func (h *UpsertSeasonHandler) Handle(ctx context.Context, cmd UpsertSeasonCommand) (res *UpsertSeasonResult, err error) {
	unit, finish, err := beginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer func() { err = finish(ctx, err) }()

	s, err := domainseason.New(domainseason.CreateParams{
		ID:         domainseason.ID(cmd.SeasonID),
		Name:       cmd.Name,
		Start:      cmd.Start,
		End:        cmd.End,
		Multiplier: cmd.Multiplier,
		MinDays:    cmd.MinDays,
	})
	if err != nil {
		return nil, err
	}
	if err = unit.Seasons().Save(ctx, s); err != nil {
		return nil, err
	}
	return &UpsertSeasonResult{SeasonID: string(s.ID)}, nil
}

type DeleteSeasonCommand struct {
	SeasonID string
}

func (c DeleteSeasonCommand) Key() string { return deleteSeasonKey }

type DeleteSeasonResult struct {
	SeasonID string `json:"season_id"`
}

type DeleteSeasonHandler struct {
	UoWFactory uow.Factory
}

func (h *DeleteSeasonHandler) Handle(ctx context.Context, cmd DeleteSeasonCommand) (res *DeleteSeasonResult, err error) {
	unit, finish, err := beginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer func() { err = finish(ctx, err) }()

	if err = unit.Seasons().Delete(ctx, domainseason.ID(cmd.SeasonID)); err != nil {
		return nil, err
	}
	return &DeleteSeasonResult{SeasonID: cmd.SeasonID}, nil
}

func beginWriteUnit(ctx context.Context, factory uow.Factory) (uow.UnitOfWork, func(context.Context, error) error, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, func(_ context.Context, handlerErr error) error { return handlerErr }, nil
	}
	if factory == nil {
		return nil, nil, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	finish := func(ctx context.Context, handlerErr error) error {
		if handlerErr != nil {
			_ = unit.Rollback(ctx)
			return handlerErr
		}
		return unit.Commit(ctx)
	}
	return unit, finish, nil
}

var _ queries.Handler[ListSeasonsQuery, *ListSeasonsResult] = (*ListSeasonsHandler)(nil)
var _ commands.Handler[UpsertSeasonCommand, *UpsertSeasonResult] = (*UpsertSeasonHandler)(nil)
var _ commands.Handler[DeleteSeasonCommand, *DeleteSeasonResult] = (*DeleteSeasonHandler)(nil)
