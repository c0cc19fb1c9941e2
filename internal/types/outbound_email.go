package types

import "github.com/google/uuid"

// OutboundEmail is the payload handed to the mail queue. The durable record
// is the MailJob row; this is only the broker message.
type OutboundEmail struct {
  JobID       uuid.UUID   `json:"job_id"`
  CampaignID  string      `json:"campaign_id"`
  Email       string      `json:"email"`
  Subject     string      `json:"subject"`
  Body        string      `json:"body"`
}
