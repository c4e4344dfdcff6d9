package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/senbank/backoffice/internal/core/domain"
)

const (
	transactionsCollection = "transactions"

	indexTransactionID = "uniq_idTransaction"
)

// TransactionRepository implements ports.TransactionRepository using MongoDB.
type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(transactionsCollection)}
}

type mongoTransaction struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	IDTransaction         string             `bson:"idTransaction,omitempty"`
	Type                  string             `bson:"type"`
	Montant               float64            `bson:"montant"`
	NumCompteSource       string             `bson:"numCompteSource,omitempty"`
	NumCompteDestinataire string             `bson:"numCompteDestinataire,omitempty"`
	DateTransaction       time.Time          `bson:"dateTransaction"`
	Etat                  string             `bson:"etat"`
	CreatedAt             time.Time          `bson:"createdAt"`
}

// Create inserts a new transaction document.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoTransaction{
		IDTransaction:         tx.IDTransaction,
		Type:                  string(tx.Type),
		Montant:               tx.Montant,
		NumCompteSource:       tx.NumCompteSource,
		NumCompteDestinataire: tx.NumCompteDestinataire,
		DateTransaction:       tx.DateTransaction,
		Etat:                  string(tx.Etat),
		CreatedAt:             tx.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTransactionExists
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid.Hex()
	}
	return nil
}

// ListByDateDesc returns all transactions, newest dateTransaction first.
// Documents written before idTransaction existed expose their _id instead;
// the value is not written back.
func (r *TransactionRepository) ListByDateDesc(ctx context.Context) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "dateTransaction", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]*domain.Transaction, 0, len(docs))
	for i := range docs {
		out = append(out, toDomainTransaction(&docs[i]))
	}
	return out, nil
}

// toDomainTransaction maps a stored document. Older records have no
// idTransaction, so their ObjectID stands in for it.
func toDomainTransaction(d *mongoTransaction) *domain.Transaction {
	id := d.IDTransaction
	if id == "" {
		id = d.ID.Hex()
	}
	return &domain.Transaction{
		ID:                    d.ID.Hex(),
		IDTransaction:         id,
		Type:                  domain.TransactionType(d.Type),
		Montant:               d.Montant,
		NumCompteSource:       d.NumCompteSource,
		NumCompteDestinataire: d.NumCompteDestinataire,
		DateTransaction:       d.DateTransaction,
		Etat:                  domain.TransactionState(d.Etat),
		CreatedAt:             d.CreatedAt,
	}
}

// Cancel sets etat to annule on the first transaction matching id whose
// current state allows it. The state clause in the filter makes a repeated
// cancel a no-op without any locking.
func (r *TransactionRepository) Cancel(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	or := bson.A{bson.M{"idTransaction": id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		// legacy rows: idTransaction stored as ObjectID, or absent and
		// displayed as _id
		or = append(or, bson.M{"idTransaction": oid}, bson.M{"_id": oid})
	}

	from := domain.StatesTransitioningTo(domain.StateAnnule)
	states := make(bson.A, 0, len(from))
	for _, s := range from {
		states = append(states, string(s))
	}

	filter := bson.M{"$or": or, "etat": bson.M{"$in": states}}
	update := bson.M{"$set": bson.M{"etat": string(domain.StateAnnule)}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("cancel transaction: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// EnsureIndexes creates necessary indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "idTransaction", Value: 1}},
			Options: options.Index().
				SetName(indexTransactionID).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idTransaction": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "dateTransaction", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
