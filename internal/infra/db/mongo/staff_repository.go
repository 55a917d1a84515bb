package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainstaff "roamvan/internal/domain/staff"
)

type StaffRepository struct {
	col *mongo.Collection
}

func NewStaffRepository(db *mongo.Database) *StaffRepository {
	col := db.Collection("agg_staff")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &StaffRepository{col: col}
}

func (r *StaffRepository) ByID(ctx context.Context, id domainstaff.ID) (*domainstaff.Account, error) {
	var doc staffDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainstaff.ErrNotFound
		}
		return nil, err
	}
	return doc.toAccount(), nil
}

func (r *StaffRepository) ByEmail(ctx context.Context, email string) (*domainstaff.Account, error) {
	var doc staffDocument
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainstaff.ErrNotFound
		}
		return nil, err
	}
	return doc.toAccount(), nil
}

func (r *StaffRepository) Save(ctx context.Context, account *domainstaff.Account) error {
	doc := staffDocument{
		ID:           string(account.ID),
		Email:        account.Email,
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		Blocked:      account.Blocked,
		CreatedAt:    account.CreatedAt.UnixMilli(),
		UpdatedAt:    account.UpdatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainstaff.ErrEmailAlreadyUsed
	}
	return err
}

type staffDocument struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	Name         string `bson:"name"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Blocked      bool   `bson:"blocked"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (d staffDocument) toAccount() *domainstaff.Account {
	return &domainstaff.Account{
		ID:           domainstaff.ID(d.ID),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         domainstaff.Role(d.Role),
		Blocked:      d.Blocked,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}
