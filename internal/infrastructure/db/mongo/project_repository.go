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

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err, domain.ErrProjectNotFound)
	}
	return &p, nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// List returns all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProjectRepository) Count(ctx context.Context, createdBefore time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if !createdBefore.IsZero() {
		filter["created_at"] = bson.M{"$lt": createdBefore.UTC()}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// Update replaces the editable fields; created_at is never touched.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":         p.Name,
		"description":  p.Description,
		"status":       p.Status,
		"client_name":  p.ClientName,
		"client_email": p.ClientEmail,
		"budget":       p.Budget,
		"deadline":     p.Deadline.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	out := make([]*domain.Project, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return out, nil
}

func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}})
	return err
}
