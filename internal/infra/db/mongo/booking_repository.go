package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "roamvan/internal/domain/booking"
	domainfleet "roamvan/internal/domain/fleet"
	domainrange "roamvan/internal/domain/shared/daterange"
	"roamvan/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter domainbooking.ListFilter) ([]*domainbooking.Booking, error) {
	query := bson.M{}
	if !filter.From.IsZero() {
		query["range.end"] = bson.M{"$gte": filter.From.UnixMilli()}
	}
	if !filter.To.IsZero() {
		query["range.start"] = bson.M{"$lte": filter.To.UnixMilli()}
	}
	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, state := range filter.States {
			states = append(states, string(state))
		}
		query["state"] = bson.M{"$in": states}
	}
	if filter.ItemID != "" {
		query["items.id"] = string(filter.ItemID)
	}
	if !filter.DeadlineBefore.IsZero() {
		query["payment_deadline"] = bson.M{"$gt": 0, "$lt": filter.DeadlineBefore.UnixMilli()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "range.start", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type itemRefDocument struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

type guestDocument struct {
	Name string `bson:"name"`
	Age  int    `bson:"age"`
}

type driverDocument struct {
	Name          string `bson:"name"`
	LicenceNumber string `bson:"licence_number"`
}

type extraServiceDocument struct {
	Name       string `bson:"name"`
	PriceCents int64  `bson:"price_cents"`
	Quantity   int    `bson:"quantity"`
}

type checkoutDocument struct {
	Guests          []guestDocument        `bson:"guests"`
	Driver          *driverDocument        `bson:"driver,omitempty"`
	Extras          []extraServiceDocument `bson:"extras,omitempty"`
	PickupAt        int64                  `bson:"pickup_at"`
	ReturnAt        int64                  `bson:"return_at"`
	TermsAccepted   bool                   `bson:"terms_accepted"`
	PrivacyAccepted bool                   `bson:"privacy_accepted"`
	AttachedAt      int64                  `bson:"attached_at"`
}

type bookingDocument struct {
	ID              string            `bson:"_id"`
	Items           []itemRefDocument `bson:"items"`
	Range           rangeDocument     `bson:"range"`
	Days            int               `bson:"days"`
	TotalCents      int64             `bson:"total_cents"`
	Currency        string            `bson:"currency"`
	State           string            `bson:"state"`
	PaymentDeadline int64             `bson:"payment_deadline"`
	ContactName     string            `bson:"contact_name"`
	ContactEmail    string            `bson:"contact_email"`
	RequiresDriver  bool              `bson:"requires_driver"`
	Checkout        *checkoutDocument `bson:"checkout,omitempty"`
	CreatedAt       int64             `bson:"created_at"`
	UpdatedAt       int64             `bson:"updated_at"`
	Version         int64             `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:              string(b.ID),
		Items:           make([]itemRefDocument, 0, len(b.Items)),
		Range:           rangeDocument{Start: b.Range.Start.UnixMilli(), End: b.Range.End.UnixMilli()},
		Days:            b.Days,
		TotalCents:      b.Total.Amount,
		Currency:        b.Total.Currency,
		State:           string(b.State),
		ContactName:     b.ContactName,
		ContactEmail:    b.ContactEmail,
		RequiresDriver:  b.RequiresDriver,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
		Version:         b.Version,
	}
	if !b.PaymentDeadline.IsZero() {
		doc.PaymentDeadline = b.PaymentDeadline.UnixMilli()
	}
	for _, ref := range b.Items {
		doc.Items = append(doc.Items, itemRefDocument{ID: string(ref.ID), Name: ref.Name})
	}
	if b.Checkout != nil {
		doc.Checkout = newCheckoutDocument(b.Checkout)
	}
	return doc
}

func newCheckoutDocument(c *domainbooking.CheckoutDetails) *checkoutDocument {
	doc := &checkoutDocument{
		Guests:          make([]guestDocument, 0, len(c.Guests)),
		PickupAt:        c.PickupAt.UnixMilli(),
		ReturnAt:        c.ReturnAt.UnixMilli(),
		TermsAccepted:   c.TermsAccepted,
		PrivacyAccepted: c.PrivacyAccepted,
		AttachedAt:      c.AttachedAt.UnixMilli(),
	}
	for _, g := range c.Guests {
		doc.Guests = append(doc.Guests, guestDocument{Name: g.Name, Age: g.Age})
	}
	if c.Driver != nil {
		doc.Driver = &driverDocument{Name: c.Driver.Name, LicenceNumber: c.Driver.LicenceNumber}
	}
	for _, e := range c.Extras {
		doc.Extras = append(doc.Extras, extraServiceDocument{Name: e.Name, PriceCents: e.PriceCents, Quantity: e.Quantity})
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:             domainbooking.BookingID(d.ID),
		Items:          make([]domainbooking.ItemRef, 0, len(d.Items)),
		Range:          domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		Days:           d.Days,
		Total:          money.Money{Amount: d.TotalCents, Currency: d.Currency},
		State:          domainbooking.BookingState(d.State),
		ContactName:    d.ContactName,
		ContactEmail:   d.ContactEmail,
		RequiresDriver: d.RequiresDriver,
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
	if d.PaymentDeadline > 0 {
		b.PaymentDeadline = timestampToTime(d.PaymentDeadline)
	}
	for _, ref := range d.Items {
		b.Items = append(b.Items, domainbooking.ItemRef{ID: domainfleet.ItemID(ref.ID), Name: ref.Name})
	}
	if d.Checkout != nil {
		b.Checkout = d.Checkout.toDetails()
	}
	return b
}

func (d *checkoutDocument) toDetails() *domainbooking.CheckoutDetails {
	details := &domainbooking.CheckoutDetails{
		Guests:          make([]domainbooking.Guest, 0, len(d.Guests)),
		PickupAt:        timestampToTime(d.PickupAt),
		ReturnAt:        timestampToTime(d.ReturnAt),
		TermsAccepted:   d.TermsAccepted,
		PrivacyAccepted: d.PrivacyAccepted,
		AttachedAt:      timestampToTime(d.AttachedAt),
	}
	for _, g := range d.Guests {
		details.Guests = append(details.Guests, domainbooking.Guest{Name: g.Name, Age: g.Age})
	}
	if d.Driver != nil {
		details.Driver = &domainbooking.Driver{Name: d.Driver.Name, LicenceNumber: d.Driver.LicenceNumber}
	}
	for _, e := range d.Extras {
		details.Extras = append(details.Extras, domainbooking.ExtraService{Name: e.Name, PriceCents: e.PriceCents, Quantity: e.Quantity})
	}
	return details
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
