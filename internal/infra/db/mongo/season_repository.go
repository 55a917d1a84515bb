package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainseason "roamvan/internal/domain/season"
)

// SeasonRepository stores season definitions with an explicit sort order so
// the catalog's first-match resolution is stable across processes.
type SeasonRepository struct {
	col *mongo.Collection
}

func NewSeasonRepository(db *mongo.Database) *SeasonRepository {
	return &SeasonRepository{col: db.Collection("cfg_season")}
}

func (r *SeasonRepository) List(ctx context.Context) (domainseason.Catalog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var catalog domainseason.Catalog
	for cursor.Next(ctx) {
		var doc seasonDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		catalog = append(catalog, doc.toSeason())
	}
	return catalog, cursor.Err()
}

func (r *SeasonRepository) ByID(ctx context.Context, id domainseason.ID) (domainseason.Season, error) {
	var doc seasonDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainseason.Season{}, domainseason.ErrNotFound
		}
		return domainseason.Season{}, err
	}
	return doc.toSeason(), nil
}

func (r *SeasonRepository) Save(ctx context.Context, s domainseason.Season) error {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"name":       s.Name,
			"start":      s.Start.UnixMilli(),
			"end":        s.End.UnixMilli(),
			"multiplier": s.Multiplier,
			"min_days":   s.MinDays,
		},
		"$setOnInsert": bson.M{"sort_order": count},
	}
	_, err = r.col.UpdateByID(ctx, string(s.ID), update, options.Update().SetUpsert(true))
	return err
}

func (r *SeasonRepository) Delete(ctx context.Context, id domainseason.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainseason.ErrNotFound
	}
	return nil
}

type seasonDocument struct {
	ID         string  `bson:"_id"`
	Name       string  `bson:"name"`
	Start      int64   `bson:"start"`
	End        int64   `bson:"end"`
	Multiplier float64 `bson:"multiplier"`
	MinDays    int     `bson:"min_days"`
	SortOrder  int64   `bson:"sort_order"`
}

func (d seasonDocument) toSeason() domainseason.Season {
	return domainseason.Season{
		ID:         domainseason.ID(d.ID),
		Name:       d.Name,
		Start:      timestampToTime(d.Start),
		End:        timestampToTime(d.End),
		Multiplier: d.Multiplier,
		MinDays:    d.MinDays,
	}
}
