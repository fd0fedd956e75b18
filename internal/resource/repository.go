package resource

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "resources"

var ErrNotFound = errors.New("resource not found")

type Repository interface {
	GetAll(ctx context.Context, limit int64) ([]Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	// Search runs a case-insensitive prefix query against the title,
	// delegated to the store.
	Search(ctx context.Context, prefix string, limit int64) ([]Resource, error)
}

type repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{
		coll: db.Collection(collectionName),
	}
}

func (r *repository) GetAll(ctx context.Context, limit int64) ([]Resource, error) {
	opts := options.Find().SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	resources := []Resource{}
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Resource, error) {
	res := new(Resource)
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *repository) Search(ctx context.Context, prefix string, limit int64) ([]Resource, error) {
	filter := bson.M{"title": bson.M{
		"$regex": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"},
	}}

	opts := options.Find().SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	resources := []Resource{}
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}
