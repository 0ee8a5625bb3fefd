package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/polstat/server-provisioning/internal/core/domain"
	"github.com/polstat/server-provisioning/internal/core/ports"
)

var requestSortFields = map[string]string{
	"id":        "_id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"status":    "status",
}

// ServerRequestRepository implements ports.ServerRequestRepository using MongoDB.
type ServerRequestRepository struct {
	client   *mongo.Client
	col      *mongo.Collection
	accounts *mongo.Collection
}

func NewServerRequestRepository(db *mongo.Database) *ServerRequestRepository {
	return &ServerRequestRepository{
		client:   db.Client(),
		col:      db.Collection(collectionRequests),
		accounts: db.Collection(collectionAccounts),
	}
}

type mongoRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	Purpose   string             `bson:"purpose"`
	Status    string             `bson:"status"`
	Reason    string             `bson:"reason,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at,omitempty"`
	Version   int64              `bson:"version"`
}

func (m mongoRequest) toDomain() *domain.ServerRequest {
	return &domain.ServerRequest{
		ID:        m.ID.Hex(),
		OwnerID:   m.OwnerID,
		Purpose:   m.Purpose,
		Status:    domain.RequestStatus(m.Status),
		Reason:    m.Reason,
		CreatedAt: millisToTime(m.CreatedAt),
		UpdatedAt: millisToTime(m.UpdatedAt),
		Version:   m.Version,
	}
}

// Create inserts a new request document.
func (r *ServerRequestRepository) Create(ctx context.Context, req *domain.ServerRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoRequest{
		OwnerID:   req.OwnerID,
		Purpose:   req.Purpose,
		Status:    string(req.Status),
		CreatedAt: timeToMillis(req.CreatedAt),
		Version:   req.Version,
	})
	if err != nil {
		return fmt.Errorf("insert server request: %w", err)
	}
	req.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *ServerRequestRepository) FindByID(ctx context.Context, id string) (*domain.ServerRequest, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find server request: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ServerRequestRepository) List(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.ServerRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.OwnerID != "" {
		q["owner_id"] = filter.OwnerID
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count server requests: %w", err)
	}

	field, ok := requestSortFields[filter.SortBy]
	if !ok {
		field = "_id"
	}
	cur, err := r.col.Find(ctx, q, findPage(field, filter.Descending, filter.Page, filter.Size))
	if err != nil {
		return nil, 0, fmt.Errorf("list server requests: %w", err)
	}

	var docs []mongoRequest
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode server requests: %w", err)
	}
	out := make([]*domain.ServerRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// Save applies the request's mutable fields under a version condition. When an
// account is given, the update and the account insert share a transaction.
func (r *ServerRequestRepository) Save(ctx context.Context, req *domain.ServerRequest, expectedVersion int64, account *domain.ServerAccount) error {
	oid, ok := objectID(req.ID)
	if !ok {
		return domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"purpose":    req.Purpose,
		"status":     string(req.Status),
		"reason":     req.Reason,
		"updated_at": timeToMillis(req.UpdatedAt),
	}
	apply := func(ctx context.Context) error {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"_id": oid, "version": expectedVersion},
			bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		)
		if err != nil {
			return fmt.Errorf("update server request: %w", err)
		}
		if res.MatchedCount == 0 {
			return r.missOrConflict(ctx, oid)
		}
		if account == nil {
			return nil
		}

		ins, err := r.accounts.InsertOne(ctx, mongoAccount{
			OwnerID:   account.OwnerID,
			RequestID: account.RequestID,
			Username:  account.Username,
			Password:  account.Password,
			CreatedAt: timeToMillis(account.CreatedAt),
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return duplicateAccountError(err)
			}
			return fmt.Errorf("insert server account: %w", err)
		}
		account.ID = ins.InsertedID.(primitive.ObjectID).Hex()
		return nil
	}

	var err error
	if account == nil {
		err = apply(ctx)
	} else {
		err = withTransaction(ctx, r.client, apply)
	}
	if err != nil {
		return err
	}
	req.Version = expectedVersion + 1
	return nil
}

// Delete removes the request and its account in one transaction.
func (r *ServerRequestRepository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return withTransaction(ctx, r.client, func(ctx context.Context) error {
		res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "version": expectedVersion})
		if err != nil {
			return fmt.Errorf("delete server request: %w", err)
		}
		if res.DeletedCount == 0 {
			return r.missOrConflict(ctx, oid)
		}
		if _, err := r.accounts.DeleteMany(ctx, bson.M{"request_id": id}); err != nil {
			return fmt.Errorf("delete server account: %w", err)
		}
		return nil
	})
}

// missOrConflict tells a vanished request from one whose version moved.
func (r *ServerRequestRepository) missOrConflict(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("check server request: %w", err)
	}
	if n == 0 {
		return domain.ErrRequestNotFound
	}
	return domain.ErrConcurrentUpdate
}

func duplicateAccountError(err error) error {
	if strings.Contains(err.Error(), "request_id") {
		return domain.ErrAccountExists
	}
	return domain.ErrUsernameTaken
}
