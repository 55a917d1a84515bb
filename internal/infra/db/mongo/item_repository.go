package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainfleet "roamvan/internal/domain/fleet"
	"roamvan/internal/domain/shared/money"
)

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection("agg_fleet_item")}
}

func (r *ItemRepository) ByID(ctx context.Context, id domainfleet.ItemID) (*domainfleet.Item, error) {
	var doc itemDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainfleet.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domainfleet.Item) error {
	doc := newItemDocument(item)
	filter := bson.M{"_id": doc.ID, "version": item.Version}
	doc.Version = item.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	item.Version = doc.Version
	return nil
}

func (r *ItemRepository) List(ctx context.Context, filter domainfleet.ListFilter) ([]*domainfleet.Item, error) {
	query := bson.M{}
	if filter.OnlyActive {
		query["active"] = true
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainfleet.Item
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type itemDocument struct {
	ID            string   `bson:"_id"`
	Name          string   `bson:"name"`
	Category      string   `bson:"category"`
	Description   string   `bson:"description"`
	PriceCents    int64    `bson:"price_cents"`
	Currency      string   `bson:"currency"`
	MinRentalDays int      `bson:"min_rental_days"`
	PhotoURLs     []string `bson:"photo_urls"`
	Active        bool     `bson:"active"`
	CreatedAt     int64    `bson:"created_at"`
	UpdatedAt     int64    `bson:"updated_at"`
	Version       int64    `bson:"version"`
}

func newItemDocument(item *domainfleet.Item) itemDocument {
	return itemDocument{
		ID:            string(item.ID),
		Name:          item.Name,
		Category:      string(item.Category),
		Description:   item.Description,
		PriceCents:    item.BasePricePerDay.Amount,
		Currency:      item.BasePricePerDay.Currency,
		MinRentalDays: item.MinRentalDays,
		PhotoURLs:     item.PhotoURLs,
		Active:        item.Active,
		CreatedAt:     item.CreatedAt.UnixMilli(),
		UpdatedAt:     item.UpdatedAt.UnixMilli(),
		Version:       item.Version,
	}
}

func (d itemDocument) toAggregate() *domainfleet.Item {
	return &domainfleet.Item{
		ID:              domainfleet.ItemID(d.ID),
		Name:            d.Name,
		Category:        domainfleet.Category(d.Category),
		Description:     d.Description,
		BasePricePerDay: money.Money{Amount: d.PriceCents, Currency: d.Currency},
		MinRentalDays:   d.MinRentalDays,
		PhotoURLs:       d.PhotoURLs,
		Active:          d.Active,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}
}
