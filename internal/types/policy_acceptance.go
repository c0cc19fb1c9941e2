package types

import (
  "time"
  "github.com/google/uuid"
)

// PolicyAcceptance is append-only: rows are created once per actor action and
// never updated. The unique index makes a retried accept a no-op, and the
// "current state" answer is always the max accepted_at row per
// (actor, document kind).
type PolicyAcceptance struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  ActorID       uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_acceptance_triple;column:actor_id" json:"actor_id"`
  ActorKind     string      `gorm:"not null;uniqueIndex:idx_acceptance_triple;column:actor_kind" json:"actor_kind"`
  DocumentKind  string      `gorm:"not null;uniqueIndex:idx_acceptance_triple;column:document_kind" json:"document_kind"`
  Version       string      `gorm:"not null;uniqueIndex:idx_acceptance_triple;column:version" json:"version"`
  Checksum      string      `gorm:"column:checksum" json:"checksum"`
  AcceptedAt    time.Time   `gorm:"not null;column:accepted_at" json:"accepted_at"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}

func (PolicyAcceptance) TableName() string {
  return "policy_acceptance"
}
