package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLifecycleStore implements the soft-delete contract for one
// collection. The state guard is part of every update filter, so checking
// the partition and changing it is a single atomic operation.
type MongoLifecycleStore[T any] struct {
	coll       *mongo.Collection
	restoreSet bson.M
}

func NewMongoLifecycleStore[T any](coll *mongo.Collection) *MongoLifecycleStore[T] {
	return &MongoLifecycleStore[T]{coll: coll}
}

// WithRestoreSet forces extra field values whenever an entity is restored.
// Products use this to come back unpublished.
func (s *MongoLifecycleStore[T]) WithRestoreSet(set bson.M) *MongoLifecycleStore[T] {
	s.restoreSet = set
	return s
}

func (s *MongoLifecycleStore[T]) ListActive(ctx context.Context) ([]T, error) {
	return s.list(ctx, bson.M{"deletedAt": nil})
}

func (s *MongoLifecycleStore[T]) ListDeleted(ctx context.Context) ([]T, error) {
	return s.list(ctx, bson.M{"deletedAt": bson.M{"$ne": nil}})
}

func (s *MongoLifecycleStore[T]) list(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.coll.Name(), err)
	}

	entities := []T{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.coll.Name(), err)
	}
	return entities, nil
}

func (s *MongoLifecycleStore[T]) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "deletedAt": nil}
	update := bson.M{"$set": bson.M{"deletedAt": at}}

	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to soft delete from %s: %w", s.coll.Name(), err)
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoLifecycleStore[T]) Restore(ctx context.Context, id primitive.ObjectID) (bool, error) {
	set := bson.M{"deletedAt": nil}
	for field, value := range s.restoreSet {
		set[field] = value
	}

	filter := bson.M{"_id": id, "deletedAt": bson.M{"$ne": nil}}
	result, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to restore in %s: %w", s.coll.Name(), err)
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoLifecycleStore[T]) HardDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to hard delete from %s: %w", s.coll.Name(), err)
	}
	return result.DeletedCount > 0, nil
}
