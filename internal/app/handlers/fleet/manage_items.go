package fleet

import (
	"context"
	"errors"
	"time"

	"roamvan/internal/app/commands"
	"roamvan/internal/app/uow"
	domainfleet "roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/money"
)

const (
	createItemKey    = "fleet.create"
	updatePriceKey   = "fleet.update_price"
	setItemActiveKey = "fleet.set_active"
)

var ErrUnitOfWorkRequired = errors.New("fleet: unit of work required")

type CreateItemCommand struct {
	ItemID        string
	Name          string
	Category      string
	Description   string
	PriceCents    int64
	Currency      string
	MinRentalDays int
	Now           time.Time
}

func (c CreateItemCommand) Key() string { return createItemKey }

type CreateItemResult struct {
	ItemID string `json:"item_id"`
}

type CreateItemHandler struct {
	UoWFactory uow.Factory
}

func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (res *CreateItemResult, err error) {
	unit, finish, err := beginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer func() { err = finish(ctx, err) }()

	price, err := money.New(cmd.PriceCents, cmd.Currency)
	if err != nil {
		return nil, err
	}
	item, err := domainfleet.NewItem(domainfleet.CreateParams{
		ID:              domainfleet.ItemID(cmd.ItemID),
		Name:            cmd.Name,
		Category:        domainfleet.Category(cmd.Category),
		Description:     cmd.Description,
		BasePricePerDay: price,
		MinRentalDays:   cmd.MinRentalDays,
		Now:             cmd.Now,
	})
	if err != nil {
		return nil, err
	}
	if err = unit.Fleet().Save(ctx, item); err != nil {
		return nil, err
	}
	return &CreateItemResult{ItemID: string(item.ID)}, nil
}

type UpdateItemPriceCommand struct {
	ItemID     string
	PriceCents int64
	Currency   string
	Now        time.Time
}

func (c UpdateItemPriceCommand) Key() string { return updatePriceKey }

type UpdateItemPriceHandler struct {
	UoWFactory uow.Factory
}

func (h *UpdateItemPriceHandler) Handle(ctx context.Context, cmd UpdateItemPriceCommand) (res *ItemView, err error) {
	unit, finish, err := beginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer func() { err = finish(ctx, err) }()

	item, err := unit.Fleet().ByID(ctx, domainfleet.ItemID(cmd.ItemID))
	if err != nil {
		return nil, err
	}
	price, err := money.New(cmd.PriceCents, cmd.Currency)
	if err != nil {
		return nil, err
	}
	if err = item.UpdatePrice(price, cmd.Now); err != nil {
		return nil, err
	}
	if err = unit.Fleet().Save(ctx, item); err != nil {
		return nil, err
	}
	view := viewOf(item)
	return &view, nil
}

type SetItemActiveCommand struct {
	ItemID string
	Active bool
	Now    time.Time
}

func (c SetItemActiveCommand) Key() string { return setItemActiveKey }

type SetItemActiveHandler struct {
	UoWFactory uow.Factory
}

func (h *SetItemActiveHandler) Handle(ctx context.Context, cmd SetItemActiveCommand) (res *ItemView, err error) {
	unit, finish, err := beginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer func() { err = finish(ctx, err) }()

	item, err := unit.Fleet().ByID(ctx, domainfleet.ItemID(cmd.ItemID))
	if err != nil {
		return nil, err
	}
	if cmd.Active {
		item.Activate(cmd.Now)
	} else {
		item.Deactivate(cmd.Now)
	}
	if err = unit.Fleet().Save(ctx, item); err != nil {
		return nil, err
	}
	view := viewOf(item)
	return &view, nil
}

// beginWriteUnit reuses a context unit (finish is then a passthrough, the
// outer transaction owns it) or opens a fresh one that finish commits or
// rolls back depending on the handler outcome.
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

var _ commands.Handler[CreateItemCommand, *CreateItemResult] = (*CreateItemHandler)(nil)
var _ commands.Handler[UpdateItemPriceCommand, *ItemView] = (*UpdateItemPriceHandler)(nil)
var _ commands.Handler[SetItemActiveCommand, *ItemView] = (*SetItemActiveHandler)(nil)
