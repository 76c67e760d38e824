package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateBand(ctx context.Context, band *Band) error {
	col, err := mdb.GetCollection(ctx, BandsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	if _, err := col.InsertOne(ctx, band); err != nil {
		// relies on the unique email index from EnsureIndexes
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert band: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) FindBandByEmail(ctx context.Context, email string) (*Band, error) {
	return mdb.findBand(ctx, bson.M{"email": email})
}

func (mdb *MongodbRepo) FindBandByID(ctx context.Context, id uuid.UUID) (*Band, error) {
	return mdb.findBand(ctx, bson.M{"_id": id})
}

func (mdb *MongodbRepo) findBand(ctx context.Context, filter bson.M) (*Band, error) {
	col, err := mdb.GetCollection(ctx, BandsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var band Band
	err = col.FindOne(ctx, filter).Decode(&band)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding band: %w", err)
	}
	return &band, nil
}

// EnsureIndexes creates the unique email index on bands and the owner/date
// index that backs gig listing.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	bands, err := mdb.GetCollection(ctx, BandsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	_, err = bands.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("error creating band indexes: %w", err)
	}

	gigs, err := mdb.GetCollection(ctx, GigsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	_, err = gigs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "band_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("band_date_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating gig indexes: %w", err)
	}
	return nil
}
