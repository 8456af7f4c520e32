package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LifecycleStore persists the soft-delete state of one entity type. The
// mutating methods report whether a document in the required partition was
// matched, so the partition check and the state change are one atomic
// operation.
type LifecycleStore[T any] interface {
	ListActive(ctx context.Context) ([]T, error)
	ListDeleted(ctx context.Context) ([]T, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	Restore(ctx context.Context, id primitive.ObjectID) (bool, error)
	HardDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Lifecycle applies the shared soft-delete/restore contract to one entity
// type: an entity is either active (deletedAt null) or deleted, the two
// listings partition all stored entities, soft delete and restore move an
// entity between the partitions, and hard delete removes it from either.
type Lifecycle[T any] struct {
	entity string
	store  LifecycleStore[T]
	now    func() time.Time
}

func NewLifecycle[T any](entity string, store LifecycleStore[T]) *Lifecycle[T] {
	return &Lifecycle[T]{entity: entity, store: store, now: time.Now}
}

func (l *Lifecycle[T]) ListActive(ctx context.Context) ([]T, error) {
	return l.store.ListActive(ctx)
}

func (l *Lifecycle[T]) ListDeleted(ctx context.Context) ([]T, error) {
	return l.store.ListDeleted(ctx)
}

// SoftDelete marks an active entity deleted. Deleting an entity that is
// absent or already deleted fails, so double submissions surface instead
// of silently succeeding.
func (l *Lifecycle[T]) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	matched, err := l.store.SoftDelete(ctx, id, l.now())
	if err != nil {
		return err
	}
	if !matched {
		return &NotFoundError{Resource: "active " + l.entity}
	}
	return nil
}

// Restore moves a deleted entity back to the active partition.
func (l *Lifecycle[T]) Restore(ctx context.Context, id primitive.ObjectID) error {
	matched, err := l.store.Restore(ctx, id)
	if err != nil {
		return err
	}
	if !matched {
		return &NotFoundError{Resource: "deleted " + l.entity}
	}
	return nil
}

// HardDelete permanently removes an entity from either partition.
func (l *Lifecycle[T]) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	matched, err := l.store.HardDelete(ctx, id)
	if err != nil {
		return err
	}
	if !matched {
		return &NotFoundError{Resource: l.entity}
	}
	return nil
}
