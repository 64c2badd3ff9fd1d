package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

const (
	collectionRequests = "service_requests"

	indexTrackingCode   = "tracking_code_unique"
	indexIdempotencyKey = "client_idempotency_key_unique"
)

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

// Create inserts a new service request document. Unique index violations
// come back as domain sentinels so the service can retry or replay.
func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, req)
	return duplicateKeyError(err)
}

func duplicateKeyError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, indexIdempotencyKey):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateIdempotencyKey, err)
	case strings.Contains(msg, indexTrackingCode):
		return fmt.Errorf("%w: %v", domain.ErrDuplicateTrackingCode, err)
	}
	return err
}

// FindByTrackingCode retrieves a request by its public tracking code.
func (r *RequestRepository) FindByTrackingCode(ctx context.Context, code string) (*domain.ServiceRequest, error) {
	return r.findOne(ctx, bson.M{"tracking_code": code})
}

// FindByIdempotencyKey retrieves the request clientID created with key.
func (r *RequestRepository) FindByIdempotencyKey(ctx context.Context, clientID, key string) (*domain.ServiceRequest, error) {
	return r.findOne(ctx, bson.M{"client_id": clientID, "idempotency_key": key})
}

// List returns requests newest first.
func (r *RequestRepository) List(ctx context.Context, f ports.ListRequestsFilter) ([]*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.ProviderID != "" {
		filter["provider_id"] = f.ProviderID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer cur.Close(ctx)

	items := []*domain.ServiceRequest{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}
	return items, nil
}

// UpdateStatus atomically sets the status and appends to status_history,
// provided the stored status is still from.
func (r *RequestRepository) UpdateStatus(ctx context.Context, code string, from domain.RequestStatus, entry domain.StatusHistoryEntry) error {
	return r.update(ctx, code, from, bson.M{
		"$set":  bson.M{"status": entry.Status},
		"$push": bson.M{"status_history": entry},
	})
}

// Assign sets provider_id together with the assigned status.
func (r *RequestRepository) Assign(ctx context.Context, code, providerID string, from domain.RequestStatus, entry domain.StatusHistoryEntry) error {
	return r.update(ctx, code, from, bson.M{
		"$set":  bson.M{"status": entry.Status, "provider_id": providerID},
		"$push": bson.M{"status_history": entry},
	})
}

// CountByStatus groups all requests by status.
func (r *RequestRepository) CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode status counts: %w", err)
	}

	counts := make(map[domain.RequestStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.RequestStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// EnsureIndexes creates necessary indexes on the service_requests collection.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tracking_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexTrackingCode),
		},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}}},
		{
			// idempotency_key is omitted when empty, so only keyed requests are constrained.
			Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(indexIdempotencyKey).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *RequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.ServiceRequest
	if err := r.col.FindOne(ctx, filter).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// update applies change only while the request is still in status from.
func (r *RequestRepository) update(ctx context.Context, code string, from domain.RequestStatus, change bson.M) error {
	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx, bson.M{"tracking_code": code, "status": from}, change)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	current, err := r.findOne(ctx, bson.M{"tracking_code": code})
	if err != nil {
		return err
	}
	return fmt.Errorf("%w (status changed from %s to %s)", domain.ErrInvalidTransition, from, current.Status)
}
