package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type MailJobRepo interface {
  CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.MailJob) ([]*types.MailJob, error)
  CountByCampaign(ctx context.Context, tx *gorm.DB, campaignID string) (int64, error)
}

type mailJobRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMailJobRepo(db *gorm.DB, baseLog *logger.Logger) MailJobRepo {
  repoLog := baseLog.With("repo", "MailJobRepo")
  return &mailJobRepo{db: db, log: repoLog}
}

func (mr *mailJobRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.MailJob) ([]*types.MailJob, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  if len(rows) == 0 {
    return []*types.MailJob{}, nil
  }
  for _, row := range rows {
    if row.ID == uuid.Nil {
      row.ID = uuid.New()
    }
  }

  if err := transaction.WithContext(ctx).CreateInBatches(&rows, 500).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (mr *mailJobRepo) CountByCampaign(ctx context.Context, tx *gorm.DB, campaignID string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.MailJob{}).
    Where("campaign_id = ?", campaignID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
