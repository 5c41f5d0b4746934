package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beside-app/beside-api/internal/core/domain"
)

const collectionRegistry = "verification_registry"

// RegistryRepository reads the identity registry collection. The application
// never writes to it; cmd/seed-registry loads fixtures for development.
type RegistryRepository struct {
	col *mongo.Collection
}

func NewRegistryRepository(db *mongo.Database) *RegistryRepository {
	return &RegistryRepository{col: db.Collection(collectionRegistry)}
}

type mongoDocument struct {
	Number string `bson:"number"`
	Expiry string `bson:"expiry"`
}

type mongoRecord struct {
	FirstName string         `bson:"first_name"`
	LastName  string         `bson:"last_name"`
	DOB       string         `bson:"dob"`
	WWCC      *mongoDocument `bson:"wwcc,omitempty"`
	License   *mongoDocument `bson:"license,omitempty"`
}

func (d mongoRecord) toDomain() *domain.VerificationRecord {
	rec := &domain.VerificationRecord{FirstName: d.FirstName, LastName: d.LastName, DOB: d.DOB}
	if d.WWCC != nil {
		rec.WWCC = &domain.IdentityDocument{Number: d.WWCC.Number, Expiry: d.WWCC.Expiry}
	}
	if d.License != nil {
		rec.License = &domain.IdentityDocument{Number: d.License.Number, Expiry: d.License.Expiry}
	}
	return rec
}

func claimFilter(c domain.IdentityClaim) bson.M {
	prefix := string(c.DocumentType)
	return bson.M{
		"first_name":       c.FirstName,
		"last_name":        c.LastName,
		"dob":              c.DOB,
		prefix + ".number": c.DocumentNumber,
		prefix + ".expiry": c.DocumentExpiry,
	}
}

// FindMatch returns the record matching every field of the claim, or
// (nil, nil) when there is none. Incomplete claims never hit the database.
func (r *RegistryRepository) FindMatch(ctx context.Context, claim domain.IdentityClaim) (*domain.VerificationRecord, error) {
	if !claim.Complete() {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRecord
	if err := r.col.FindOne(ctx, claimFilter(claim)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Seed replaces the registry contents with records.
func (r *RegistryRepository) Seed(ctx context.Context, records []domain.VerificationRecord) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]any, 0, len(records))
	for _, rec := range records {
		doc := mongoRecord{FirstName: rec.FirstName, LastName: rec.LastName, DOB: rec.DOB}
		if rec.WWCC != nil {
			doc.WWCC = &mongoDocument{Number: rec.WWCC.Number, Expiry: rec.WWCC.Expiry}
		}
		if rec.License != nil {
			doc.License = &mongoDocument{Number: rec.License.Number, Expiry: rec.License.Expiry}
		}
		docs = append(docs, doc)
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (r *RegistryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "wwcc.number", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "license.number", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
