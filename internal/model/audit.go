package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a booking mutation.
type AuditLog struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	EntityType string     `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID  `db:"entity_id" json:"entity_id"`
	Action     string     `db:"action" json:"action"`
	ActorID    *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	Changes    JSONMap    `db:"changes" json:"changes,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
