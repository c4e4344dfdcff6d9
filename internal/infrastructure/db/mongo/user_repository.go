package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/senbank/backoffice/internal/core/domain"
)

const (
	usersCollection = "users"

	indexUserEmail     = "uniq_email"
	indexUserNumCompte = "uniq_numCompte"
	indexUserNumTel    = "uniq_numTel"
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Nom          string             `bson:"nom"`
	Prenom       string             `bson:"prenom"`
	Email        string             `bson:"email"`
	MotDePasse   string             `bson:"motDePasse,omitempty"`
	Role         string             `bson:"role"`
	NumCompte    string             `bson:"numCompte,omitempty"`
	NumTel       string             `bson:"numTel,omitempty"`
	Telephone    string             `bson:"telephone,omitempty"`
	Photo        string             `bson:"photo,omitempty"`
	Bloquer      bool               `bson:"bloquer"`
	Archived     bool               `bson:"archived"`
	ArchivedAt   *time.Time         `bson:"archivedAt,omitempty"`
	DateCreation time.Time          `bson:"dateCreation"`
	UpdateDate   time.Time          `bson:"updatedate"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Nom:          user.Nom,
		Prenom:       user.Prenom,
		Email:        user.Email,
		MotDePasse:   user.PasswordHash,
		Role:         user.Role,
		NumCompte:    user.NumCompte,
		NumTel:       user.NumTel,
		Photo:        user.Photo,
		Bloquer:      user.Bloquer,
		Archived:     user.Archived,
		DateCreation: user.DateCreation,
		UpdateDate:   user.UpdateDate,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, userDuplicateError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return toDomainUser(&doc), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(&mu), nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, excluding(bson.M{"email": email}, excludeID))
}

func (r *UserRepository) PhoneTaken(ctx context.Context, phone, excludeID string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"numTel": phone},
		bson.M{"telephone": phone},
	}}
	return r.exists(ctx, excluding(filter, excludeID))
}

func (r *UserRepository) AccountNumberTaken(ctx context.Context, numCompte string) (bool, error) {
	return r.exists(ctx, bson.M{"numCompte": numCompte})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// excluding adds an _id != excludeID clause when excludeID is a valid ObjectID.
func excluding(filter bson.M, excludeID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	return r.updateOne(ctx, oid, profileUpdateDoc(update, at))
}

// profileUpdateDoc builds the $set/$unset document for a profile edit.
func profileUpdateDoc(update domain.ProfileUpdate, at time.Time) bson.M {
	set := bson.M{
		"nom":        update.Nom,
		"prenom":     update.Prenom,
		"email":      update.Email,
		"updatedate": at,
	}
	unset := bson.M{}
	if update.NumTel != nil {
		// An empty phone is removed rather than stored so the partial unique
		// index on numTel never sees it. The legacy telephone field is dropped
		// either way so it no longer shows through or blocks other users.
		unset["telephone"] = ""
		if *update.NumTel == "" {
			unset["numTel"] = ""
		} else {
			set["numTel"] = *update.NumTel
		}
	}
	if update.Photo != nil {
		set["photo"] = *update.Photo
	}

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}
	return doc
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{"motDePasse": hash, "updatedate": at}})
}

func (r *UserRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userDuplicateError(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Archive(ctx context.Context, ids []string, at time.Time) (int64, int64, error) {
	return r.updateMany(ctx, ids, bson.M{"$set": bson.M{
		"archived":   true,
		"archivedAt": at,
		"updatedate": at,
	}})
}

func (r *UserRepository) SetBlocked(ctx context.Context, ids []string, blocked bool, at time.Time) (int64, int64, error) {
	return r.updateMany(ctx, ids, bson.M{"$set": bson.M{
		"bloquer":    blocked,
		"updatedate": at,
	}})
}

func (r *UserRepository) updateMany(ctx context.Context, ids []string, update bson.M) (int64, int64, error) {
	oids, err := toObjectIDs(ids)
	if err != nil {
		return 0, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, update)
	if err != nil {
		return 0, 0, fmt.Errorf("update users: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"motDePasse": 0})
	cur, err := r.coll.Find(ctx, bson.M{"archived": bson.M{"$ne": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, toDomainUser(&docs[i]))
	}
	return users, nil
}

// EnsureIndexes creates the unique indexes that make user creation a single
// conditional insert. numCompte and numTel are optional, so their indexes are
// partial and skip empty strings left by older records. Each index is built
// on its own so that one failing on legacy data does not prevent the others.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	nonEmpty := func(field string) bson.M {
		return bson.M{field: bson.M{"$type": "string", "$gt": ""}}
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexUserEmail).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "numCompte", Value: 1}},
			Options: options.Index().SetName(indexUserNumCompte).SetUnique(true).SetPartialFilterExpression(nonEmpty("numCompte")),
		},
		{
			Keys:    bson.D{{Key: "numTel", Value: 1}},
			Options: options.Index().SetName(indexUserNumTel).SetUnique(true).SetPartialFilterExpression(nonEmpty("numTel")),
		},
		{Keys: bson.D{{Key: "telephone", Value: 1}}},
		{Keys: bson.D{{Key: "archived", Value: 1}}},
	}

	var errs []error
	for _, idx := range indexes {
		if _, err := r.coll.Indexes().CreateOne(ctx, idx); err != nil {
			errs = append(errs, fmt.Errorf("index %v: %w", idx.Keys, err))
		}
	}
	return errors.Join(errs...)
}

// userDuplicateError maps a duplicate key error to the domain error of the
// index that rejected the write.
func userDuplicateError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, indexUserEmail):
		return domain.ErrEmailTaken
	case strings.Contains(msg, indexUserNumCompte):
		return domain.ErrAccountNumberTaken
	case strings.Contains(msg, indexUserNumTel):
		return domain.ErrPhoneTaken
	}
	return fmt.Errorf("write user: %w", err)
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid user id %q", domain.ErrValidation, id)
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func toDomainUser(mu *mongoUser) *domain.User {
	phone := mu.NumTel
	if phone == "" {
		phone = mu.Telephone
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Nom:          mu.Nom,
		Prenom:       mu.Prenom,
		Email:        mu.Email,
		PasswordHash: mu.MotDePasse,
		Role:         mu.Role,
		NumCompte:    mu.NumCompte,
		NumTel:       phone,
		Photo:        mu.Photo,
		Bloquer:      mu.Bloquer,
		Archived:     mu.Archived,
		ArchivedAt:   mu.ArchivedAt,
		DateCreation: mu.DateCreation,
		UpdateDate:   mu.UpdateDate,
	}
}
