package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

const termsCollection = "terms_acceptances"

// TermsRepository stores one document per accepted version pair.
type TermsRepository struct {
	coll *mongo.Collection
}

func NewTermsRepository(db *mongo.Database) *TermsRepository {
	return &TermsRepository{coll: db.Collection(termsCollection)}
}

func (r *TermsRepository) HasAccepted(ctx context.Context, userID, termsVersion, privacyVersion string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id":         userID,
		"terms_version":   termsVersion,
		"privacy_version": privacyVersion,
	})
	if err != nil {
		return false, fmt.Errorf("query terms acceptance: %w", err)
	}
	return n > 0, nil
}

func (r *TermsRepository) Record(ctx context.Context, a *domain.TermsAcceptance) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert terms acceptance: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup index used by HasAccepted.
func (r *TermsRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "terms_version", Value: 1},
			{Key: "privacy_version", Value: 1},
		},
	})
	return err
}
