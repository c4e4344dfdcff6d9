package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/senbank/backoffice/internal/core/domain"
)

const revocationsCollection = "token_blacklist"

// RevocationStore implements ports.RevocationStore on a MongoDB collection.
// A TTL index on expiresAt lets the server purge entries once the token they
// deny could no longer be presented anyway.
type RevocationStore struct {
	coll *mongo.Collection
}

func NewRevocationStore(db *mongo.Database) *RevocationStore {
	return &RevocationStore{coll: db.Collection(revocationsCollection)}
}

// Revoke upserts the entry for r.JTI.
func (s *RevocationStore) Revoke(ctx context.Context, r domain.Revocation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var userID any
	if oid, err := primitive.ObjectIDFromHex(r.UserID); err == nil {
		userID = oid
	} else if r.UserID != "" {
		userID = r.UserID
	}
	var role any
	if r.Role != "" {
		role = r.Role
	}

	update := bson.M{"$set": bson.M{
		"jti":       r.JTI,
		"userId":    userID,
		"role":      role,
		"createdAt": r.CreatedAt,
		"expiresAt": r.ExpiresAt,
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"jti": r.JTI}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, bson.M{"jti": jti}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("lookup revocation: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the unique jti index and the TTL index on expiresAt.
func (s *RevocationStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "jti", Value: 1}},
			Options: options.Index().SetName("jti_1").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expiresAt_1").SetExpireAfterSeconds(0),
		},
	}

	_, err := s.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
