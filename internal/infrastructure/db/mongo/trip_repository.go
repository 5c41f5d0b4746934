package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

const (
	collectionTrips        = "trips"
	collectionTripRequests = "trip_requests"
)

type mongoTrip struct {
	TripID      string    `bson:"trip_id"`
	OwnerID     string    `bson:"owner_id"`
	Origin      string    `bson:"origin"`
	Destination string    `bson:"destination"`
	DepartureAt time.Time `bson:"departure_at"`
	Mode        string    `bson:"mode"`
	Seats       int       `bson:"seats"`
	Notes       string    `bson:"notes,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d mongoTrip) toDomain() *domain.Trip {
	return &domain.Trip{
		TripID:      d.TripID,
		OwnerID:     d.OwnerID,
		Origin:      d.Origin,
		Destination: d.Destination,
		DepartureAt: d.DepartureAt.UTC(),
		Mode:        domain.TravelMode(d.Mode),
		Seats:       d.Seats,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type TripRepository struct {
	col *mongo.Collection
}

func NewTripRepository(db *mongo.Database) *TripRepository {
	return &TripRepository{col: db.Collection(collectionTrips)}
}

// Create inserts a new trip document.
func (r *TripRepository) Create(ctx context.Context, t *domain.Trip) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoTrip{
		TripID:      t.TripID,
		OwnerID:     t.OwnerID,
		Origin:      t.Origin,
		Destination: t.Destination,
		DepartureAt: t.DepartureAt,
		Mode:        string(t.Mode),
		Seats:       t.Seats,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	})
	if err != nil {
		return domain.DependencyError("insert trip", err)
	}
	return nil
}

func (r *TripRepository) FindByTripID(ctx context.Context, tripID string) (*domain.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTrip
	if err := r.col.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTripNotFound
		}
		return nil, domain.DependencyError("find trip", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of trips matching filter, newest departure first, along
// with the total match count.
func (r *TripRepository) List(ctx context.Context, filter ports.ListTripsFilter) ([]*domain.Trip, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, domain.DependencyError("count trips", err)
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "departure_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, domain.DependencyError("list trips", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTrip
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, domain.DependencyError("decode trips", err)
	}
	out := make([]*domain.Trip, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *TripRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trip_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "departure_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

type mongoTripRequest struct {
	RequestID   string    `bson:"request_id"`
	TripID      string    `bson:"trip_id"`
	OwnerID     string    `bson:"owner_id"`
	RequesterID string    `bson:"requester_id"`
	Message     string    `bson:"message,omitempty"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	LastUpdated time.Time `bson:"last_updated"`
}

func (d mongoTripRequest) toDomain() *domain.TripRequest {
	return &domain.TripRequest{
		RequestID:   d.RequestID,
		TripID:      d.TripID,
		OwnerID:     d.OwnerID,
		RequesterID: d.RequesterID,
		Message:     d.Message,
		Status:      domain.TripRequestStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		LastUpdated: d.LastUpdated.UTC(),
	}
}

type TripRequestRepository struct {
	col *mongo.Collection
}

func NewTripRequestRepository(db *mongo.Database) *TripRequestRepository {
	return &TripRequestRepository{col: db.Collection(collectionTripRequests)}
}

// Create inserts req. A second request by the same requester for the same trip
// while the first is still pending or accepted becomes domain.ErrDuplicateRequest.
func (r *TripRequestRepository) Create(ctx context.Context, req *domain.TripRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoTripRequest{
		RequestID:   req.RequestID,
		TripID:      req.TripID,
		OwnerID:     req.OwnerID,
		RequesterID: req.RequesterID,
		Message:     req.Message,
		Status:      string(req.Status),
		CreatedAt:   req.CreatedAt,
		LastUpdated: req.LastUpdated,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRequest
		}
		return domain.DependencyError("insert trip request", err)
	}
	return nil
}

func (r *TripRequestRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.TripRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTripRequest
	if err := r.col.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTripRequestNotFound
		}
		return nil, domain.DependencyError("find trip request", err)
	}
	return doc.toDomain(), nil
}

// UpdateStatus moves the request from one status to another. The filter on the
// current status makes concurrent transitions safe: the loser sees
// domain.ErrInvalidTransition.
func (r *TripRequestRepository) UpdateStatus(ctx context.Context, requestID string, from, to domain.TripRequestStatus) (*domain.TripRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoTripRequest
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"request_id": requestID, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "last_updated": time.Now().UTC()}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, domain.DependencyError("update trip request", err)
	}
	return doc.toDomain(), nil
}

func (r *TripRequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, tripRequestIndexes())
	return err
}

// tripRequestIndexes allows one open request per requester and trip. Declined
// and cancelled requests fall outside the unique index so the requester can
// ask again.
func tripRequestIndexes() []mongo.IndexModel {
	open := bson.A{string(domain.RequestPending), string(domain.RequestAccepted)}
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "trip_id", Value: 1}, {Key: "requester_id", Value: 1}},
			Options: options.Index().
				SetName("trip_requester_open").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": open}}),
		},
	}
}
