package enrollment

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "enrollments"

type Repository interface {
	Create(ctx context.Context, e *Enrollment) (*Enrollment, error)
	GetAll(ctx context.Context) ([]Enrollment, error)
	GetByID(ctx context.Context, id string) (*Enrollment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	// Watch emits a tick for every change to the collection. The channel is
	// closed when ctx is cancelled or the underlying stream ends.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

type repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{
		coll: db.Collection(collectionName),
	}
}

func (r *repository) Create(ctx context.Context, e *Enrollment) (*Enrollment, error) {
	// The identifier and timestamp are assigned here, never by the submitting
	// client, so ordering is consistent across clients with skewed clocks.
	e.ID = primitive.NewObjectID().Hex()
	e.EnrolledAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return nil, mapStoreError(err)
	}
	return e, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer cursor.Close(ctx)

	enrollments := []Enrollment{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, mapStoreError(err)
	}
	return enrollments, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Enrollment, error) {
	e := new(Enrollment)
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return e, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return mapStoreError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapStoreError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Watch(ctx context.Context) (<-chan struct{}, error) {
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, mapStoreError(err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			// Coalesce bursts: a pending tick already forces a re-read.
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}()
	return changes, nil
}

// mapStoreError converts provider errors into the package's error taxonomy so
// no raw driver error reaches a caller.
func mapStoreError(err error) error {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 13 {
		return ErrPermissionDenied
	}
	return err
}
