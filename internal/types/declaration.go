package types

import (
  "time"
  "github.com/google/uuid"
)

// Declaration backs the pseudo-document kinds that have no version history:
// compliance only asks whether the row exists for the actor.
type Declaration struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  ActorID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_declaration_actor_kind;column:actor_id" json:"actor_id"`
  ActorKind   string      `gorm:"not null;uniqueIndex:idx_declaration_actor_kind;column:actor_kind" json:"actor_kind"`
  Kind        string      `gorm:"not null;uniqueIndex:idx_declaration_actor_kind;column:kind" json:"kind"`
  DeclaredAt  time.Time   `gorm:"not null;column:declared_at" json:"declared_at"`
  CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
}

func (Declaration) TableName() string {
  return "declaration"
}
