package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doable/dashboard/internal/core/domain"
)

const collectionProfiles = "profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err, domain.ErrProfileNotFound)
	}
	return &p, nil
}

func (r *ProfileRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// ListByRole returns profiles with role, oldest first.
func (r *ProfileRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	return r.find(ctx, bson.M{"role": string(role)}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *ProfileRepository) UpdateFullName(ctx context.Context, id, fullName string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p domain.Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"full_name": fullName}}, opts).Decode(&p)
	if err != nil {
		return nil, notFound(err, domain.ErrProfileNotFound)
	}
	return &p, nil
}

func (r *ProfileRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	out := make([]*domain.Profile, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return out, nil
}

func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
