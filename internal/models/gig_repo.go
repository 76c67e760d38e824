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

func (mdb *MongodbRepo) ListGigsByBand(ctx context.Context, bandID uuid.UUID) ([]*Gig, error) {
	col, err := mdb.GetCollection(ctx, GigsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"band_id": bandID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding gigs: %w", err)
	}
	defer cursor.Close(ctx)

	gigs := make([]*Gig, 0)
	if err := cursor.All(ctx, &gigs); err != nil {
		return nil, fmt.Errorf("error decoding gigs: %w", err)
	}
	return gigs, nil
}

func (mdb *MongodbRepo) InsertGig(ctx context.Context, gig *Gig) error {
	col, err := mdb.GetCollection(ctx, GigsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	if _, err := col.InsertOne(ctx, gig); err != nil {
		return fmt.Errorf("failed to insert gig: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) FindGig(ctx context.Context, bandID, gigID uuid.UUID) (*Gig, error) {
	col, err := mdb.GetCollection(ctx, GigsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var gig Gig
	err = col.FindOne(ctx, bson.M{"_id": gigID, "band_id": bandID}).Decode(&gig)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding gig: %w", err)
	}
	return &gig, nil
}

func (mdb *MongodbRepo) ReplaceGig(ctx context.Context, gig *Gig) error {
	col, err := mdb.GetCollection(ctx, GigsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.ReplaceOne(ctx, bson.M{"_id": gig.ID, "band_id": gig.BandID}, gig)
	if err != nil {
		return fmt.Errorf("failed to update gig: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) DeleteGig(ctx context.Context, bandID, gigID uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, GigsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": gigID, "band_id": bandID})
	if err != nil {
		return fmt.Errorf("failed to delete gig: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
