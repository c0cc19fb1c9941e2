package types

import (
  "time"
  "github.com/google/uuid"
)

type Vendor struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  Email         string      `gorm:"uniqueIndex;not null;column:email" json:"email"`
  DisplayName   string      `gorm:"not null;column:display_name" json:"display_name"`
  LegalName     string      `gorm:"column:legal_name" json:"legal_name"`
  Status        string      `gorm:"not null;default:'active';column:status" json:"status"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func (Vendor) TableName() string {
  return "vendor"
}
