package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository is the credential store backed by the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoAddress struct {
	Street      string `bson:"street,omitempty"`
	City        string `bson:"city,omitempty"`
	State       string `bson:"state,omitempty"`
	PostalCode  string `bson:"postal_code,omitempty"`
	Country     string `bson:"country,omitempty"`
	CountryCode string `bson:"country_code,omitempty"`
}

type mongoMedia struct {
	URL   string `bson:"url"`
	RefID string `bson:"ref_id"`
}

type mongoUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id,omitempty"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	FirstName     string             `bson:"first_name,omitempty"`
	LastName      string             `bson:"last_name,omitempty"`
	MobileNumber  string             `bson:"mobile_number,omitempty"`
	Address       *mongoAddress      `bson:"address,omitempty"`
	ProfilePhoto  *mongoMedia        `bson:"profile_photo,omitempty"`
	Role          string             `bson:"role"`
	IsVerified    bool               `bson:"is_verified"`
	AccountStatus string             `bson:"account_status"`
	Availability  bool               `bson:"availability"`
	CreatedAt     time.Time          `bson:"created_at"`
	LastUpdated   time.Time          `bson:"last_updated"`
}

func toMongoUser(u *domain.User) mongoUser {
	doc := mongoUser{
		UserID:        u.UserID,
		Username:      u.Username,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		MobileNumber:  u.MobileNumber,
		Address:       toMongoAddress(u.Address),
		ProfilePhoto:  toMongoMedia(u.ProfilePhoto),
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		AccountStatus: string(u.AccountStatus),
		Availability:  u.Availability,
		CreatedAt:     u.CreatedAt,
		LastUpdated:   u.LastUpdated,
	}
	return doc
}

func toMongoAddress(a *domain.Address) *mongoAddress {
	if a == nil {
		return nil
	}
	return &mongoAddress{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		CountryCode: a.CountryCode,
	}
}

func toMongoMedia(m *domain.MediaRef) *mongoMedia {
	if m == nil {
		return nil
	}
	return &mongoMedia{URL: m.URL, RefID: m.RefID}
}

func (d mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Username:      d.Username,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		MobileNumber:  d.MobileNumber,
		Role:          d.Role,
		IsVerified:    d.IsVerified,
		AccountStatus: domain.AccountStatus(d.AccountStatus),
		Availability:  d.Availability,
		CreatedAt:     d.CreatedAt.UTC(),
		LastUpdated:   d.LastUpdated.UTC(),
	}
	if a := d.Address; a != nil {
		u.Address = &domain.Address{
			Street:      a.Street,
			City:        a.City,
			State:       a.State,
			PostalCode:  a.PostalCode,
			Country:     a.Country,
			CountryCode: a.CountryCode,
		}
	}
	if m := d.ProfilePhoto; m != nil {
		u.ProfilePhoto = &domain.MediaRef{URL: m.URL, RefID: m.RefID}
	}
	return u
}

// Create inserts user and writes the generated id back into it. A unique index
// violation on username or email becomes domain.ErrDuplicateIdentity.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentity
		}
		return domain.DependencyError("insert user", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

// FindByID returns (nil, nil) when id is unknown or not a valid object id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, domain.DependencyError("find user", err)
	}
	return doc.toDomain(), nil
}

// UpdateFields applies the non-nil fields of patch and stamps last_updated.
// The derived user id is only written when the stored document has none, so
// concurrent profile updates cannot overwrite it.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	if patch.UserID != nil {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": oid, "user_id": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"user_id": *patch.UserID, "last_updated": now}},
		)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrDuplicateIdentity
			}
			return nil, domain.DependencyError("set user id", err)
		}
	}

	set := patchDocument(patch)
	set["last_updated"] = now

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, domain.DependencyError("update user", err)
	}
	return doc.toDomain(), nil
}

func patchDocument(p ports.UserPatch) bson.M {
	set := bson.M{}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.MobileNumber != nil {
		set["mobile_number"] = *p.MobileNumber
	}
	if p.Address != nil {
		set["address"] = toMongoAddress(p.Address)
	}
	if p.ProfilePhoto != nil {
		set["profile_photo"] = toMongoMedia(p.ProfilePhoto)
	}
	if p.PasswordHash != nil {
		set["password_hash"] = *p.PasswordHash
	}
	if p.IsVerified != nil {
		set["is_verified"] = *p.IsVerified
	}
	if p.AccountStatus != nil {
		set["account_status"] = string(*p.AccountStatus)
	}
	if p.Availability != nil {
		set["availability"] = *p.Availability
	}
	return set
}

// EnsureIndexes creates the unique indexes the credential store relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
