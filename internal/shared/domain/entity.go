// Package domain holds the small set of identity primitives shared by every
// schedule domain type. It carries only what generate() actually needs:
// scheduling is a pure, single-call computation with no event sourcing or
// optimistic-concurrency versioning, so BaseAggregateRoot's domain-event
// machinery from this codebase's ancestry has no consumer here and is not
// reproduced (see DESIGN.md).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity represents a domain entity with identity.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	Equals(other Entity) bool
}

// BaseEntity provides common identity fields for task/schedule aggregates.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
}

// NewBaseEntity creates a new entity with a generated ID and the current timestamp.
func NewBaseEntity() BaseEntity {
	return BaseEntity{id: uuid.New(), createdAt: time.Now().UTC()}
}

// NewBaseEntityWithID creates a new entity with a caller-supplied ID.
func NewBaseEntityWithID(id uuid.UUID) BaseEntity {
	return BaseEntity{id: id, createdAt: time.Now().UTC()}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }

// Equals checks if two entities share identity.
func (e BaseEntity) Equals(other Entity) bool {
	if other == nil {
		return false
	}
	return e.id == other.ID()
}
