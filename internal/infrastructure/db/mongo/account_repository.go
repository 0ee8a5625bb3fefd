package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

// ServerAccountRepository implements ports.ServerAccountRepository using MongoDB.
type ServerAccountRepository struct {
	col *mongo.Collection
}

func NewServerAccountRepository(db *mongo.Database) *ServerAccountRepository {
	return &ServerAccountRepository{col: db.Collection(collectionAccounts)}
}

type mongoAccount struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	RequestID string             `bson:"request_id"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	CreatedAt int64              `bson:"created_at"`
}

func (m mongoAccount) toDomain() *domain.ServerAccount {
	return &domain.ServerAccount{
		ID:        m.ID.Hex(),
		OwnerID:   m.OwnerID,
		RequestID: m.RequestID,
		Username:  m.Username,
		Password:  m.Password,
		CreatedAt: millisToTime(m.CreatedAt),
	}
}

func (r *ServerAccountRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.ServerAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.col.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find server account: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ServerAccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count server accounts: %w", err)
	}
	return n > 0, nil
}

func (r *ServerAccountRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]*domain.ServerAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"owner_id": bson.M{"$in": ownerIDs}},
		options.Find().SetSort(bson.D{{Key: "username", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list server accounts: %w", err)
	}

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode server accounts: %w", err)
	}
	out := make([]*domain.ServerAccount, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
