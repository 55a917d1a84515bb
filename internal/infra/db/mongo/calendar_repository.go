package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "roamvan/internal/domain/availability"
	domainfleet "roamvan/internal/domain/fleet"
	domainrange "roamvan/internal/domain/shared/daterange"
)

type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_calendar")}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainfleet.ItemID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavailability.ErrCalendarNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	doc := newCalendarDocument(calendar)
	filter := bson.M{"_id": doc.ID, "version": calendar.Version}
	doc.Version = calendar.Version + 1
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
	calendar.Version = doc.Version
	return nil
}

type blockDocument struct {
	Start     int64  `bson:"start"`
	End       int64  `bson:"end"`
	Reason    string `bson:"reason"`
	Reference string `bson:"reference"`
	CreatedAt int64  `bson:"created_at"`
}

type calendarDocument struct {
	ID      string          `bson:"_id"`
	Blocks  []blockDocument `bson:"blocks"`
	Version int64           `bson:"version"`
}

func newCalendarDocument(calendar *domainavailability.Calendar) calendarDocument {
	doc := calendarDocument{
		ID:      string(calendar.ItemID),
		Blocks:  make([]blockDocument, 0, len(calendar.Blocks)),
		Version: calendar.Version,
	}
	for _, block := range calendar.Blocks {
		doc.Blocks = append(doc.Blocks, blockDocument{
			Start:     block.Range.Start.UnixMilli(),
			End:       block.Range.End.UnixMilli(),
			Reason:    string(block.Reason),
			Reference: block.Reference,
			CreatedAt: block.CreatedAt.UnixMilli(),
		})
	}
	return doc
}

func (d calendarDocument) toAggregate() *domainavailability.Calendar {
	calendar := &domainavailability.Calendar{
		ItemID:  domainfleet.ItemID(d.ID),
		Blocks:  make([]domainavailability.Block, 0, len(d.Blocks)),
		Version: d.Version,
	}
	for _, block := range d.Blocks {
		calendar.Blocks = append(calendar.Blocks, domainavailability.Block{
			Range:     domainrange.DateRange{Start: timestampToTime(block.Start), End: timestampToTime(block.End)},
			Reason:    domainavailability.BlockReason(block.Reason),
			Reference: block.Reference,
			CreatedAt: timestampToTime(block.CreatedAt),
		})
	}
	return calendar
}
