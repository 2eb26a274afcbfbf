package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findSpec carries the ordering and paging window of a find-many call.
type findSpec struct {
	Sort  bson.D
	Skip  int64
	Limit int64 // 0 = no limit
}

// documentStore is the narrow query/command surface repositories depend on.
// FindOne returns mongo.ErrNoDocuments when nothing matches.
type documentStore interface {
	FindOne(ctx context.Context, filter bson.M, out any) error
	Find(ctx context.Context, filter bson.M, spec findSpec, out any) error
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	InsertOne(ctx context.Context, doc any) (any, error)
	UpdateByID(ctx context.Context, id string, update bson.M) (matched int64, err error)
	DeleteByID(ctx context.Context, id string) (deleted int64, err error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error
	CreateIndexes(ctx context.Context, models []mongo.IndexModel) error
}

// collectionStore implements documentStore on a MongoDB collection.
type collectionStore struct {
	col *mongo.Collection
}

func newCollectionStore(col *mongo.Collection) *collectionStore {
	return &collectionStore{col: col}
}

func (s *collectionStore) FindOne(ctx context.Context, filter bson.M, out any) error {
	return s.col.FindOne(ctx, filter).Decode(out)
}

func (s *collectionStore) Find(ctx context.Context, filter bson.M, spec findSpec, out any) error {
	opts := options.Find().SetSkip(spec.Skip)
	if len(spec.Sort) > 0 {
		opts.SetSort(spec.Sort)
	}
	if spec.Limit > 0 {
		opts.SetLimit(spec.Limit)
	}

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *collectionStore) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	return s.col.CountDocuments(ctx, filter)
}

func (s *collectionStore) InsertOne(ctx context.Context, doc any) (any, error) {
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (s *collectionStore) UpdateByID(ctx context.Context, id string, update bson.M) (int64, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s *collectionStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *collectionStore) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *collectionStore) CreateIndexes(ctx context.Context, models []mongo.IndexModel) error {
	_, err := s.col.Indexes().CreateMany(ctx, models)
	return err
}

// insertedID converts the identifier returned by an insert back to a string.
func insertedID(v any) (string, error) {
	id, ok := v.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("unexpected inserted id %v (%T)", v, v)
	}
	return id, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
