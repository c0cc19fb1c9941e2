package types

import (
  "time"
  "github.com/google/uuid"
)

// MailJob is the durable record that an outbound email was queued. Delivery
// happens in a separate pipeline; this engine only guarantees the queue write.
type MailJob struct {
  ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  CampaignID   string      `gorm:"index;column:campaign_id" json:"campaign_id"`
  ActorID      uuid.UUID   `gorm:"type:uuid;not null;column:actor_id" json:"actor_id"`
  ActorKind    string      `gorm:"not null;column:actor_kind" json:"actor_kind"`
  Email        string      `gorm:"not null;column:email" json:"email"`
  Subject      string      `gorm:"not null;column:subject" json:"subject"`
  Body         string      `gorm:"column:body" json:"body"`
  Status       string      `gorm:"not null;default:'queued';column:status" json:"status"`
  CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (MailJob) TableName() string {
  return "mail_job"
}
