package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type Notification struct {
  ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
  ActorID          uuid.UUID        `gorm:"type:uuid;not null;index;column:actor_id" json:"actor_id"`
  ActorKind        string           `gorm:"not null;column:actor_kind" json:"actor_kind"`
  CampaignID       string           `gorm:"index;column:campaign_id" json:"campaign_id"`
  Title            string           `gorm:"not null;column:title" json:"title"`
  Message          string           `gorm:"column:message" json:"message"`
  DocumentKinds    datatypes.JSON   `gorm:"column:document_kinds;type:jsonb" json:"document_kinds"`
  VersionSnapshot  datatypes.JSON   `gorm:"column:version_snapshot;type:jsonb" json:"version_snapshot"`
  RequiresAction   bool             `gorm:"not null;default:false;column:requires_action" json:"requires_action"`
  ReadAt           *time.Time       `gorm:"column:read_at" json:"read_at,omitempty"`
  CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
  UpdatedAt        time.Time        `gorm:"not null" json:"updated_at"`
}

func (Notification) TableName() string {
  return "notification"
}
