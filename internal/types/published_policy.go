package types

import (
  "time"
  "github.com/google/uuid"
)

// PublishedPolicy records that a specific version of a document kind is live.
// At most one row per document kind carries is_active=true; rotation happens
// inside a single transaction in the policy service.
type PublishedPolicy struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  DocumentKind  string      `gorm:"not null;uniqueIndex:idx_policy_kind_version;column:document_kind" json:"document_kind"`
  Version       string      `gorm:"not null;uniqueIndex:idx_policy_kind_version;column:version" json:"version"`
  Title         string      `gorm:"column:title" json:"title"`
  URL           string      `gorm:"column:url" json:"url"`
  Checksum      string      `gorm:"column:checksum" json:"checksum"`
  IsRequired    bool        `gorm:"not null;default:false;column:is_required" json:"is_required"`
  IsActive      bool        `gorm:"not null;default:false;index;column:is_active" json:"is_active"`
  PublishedAt   time.Time   `gorm:"not null;column:published_at" json:"published_at"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func (PublishedPolicy) TableName() string {
  return "published_policy"
}
