package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type NotificationRepo interface {
  CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error)
  ListForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind string, limit int) ([]*types.Notification, error)
  MarkRead(ctx context.Context, tx *gorm.DB, notificationID, actorID uuid.UUID) (bool, error)
  CountByCampaign(ctx context.Context, tx *gorm.DB, campaignID string) (int64, error)
}

type notificationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
  repoLog := baseLog.With("repo", "NotificationRepo")
  return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.Notification) ([]*types.Notification, error) {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }

  if len(rows) == 0 {
    return []*types.Notification{}, nil
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

func (nr *notificationRepo) ListForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind string, limit int) ([]*types.Notification, error) {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }

  var results []*types.Notification
  q := transaction.WithContext(ctx).
    Where("actor_id = ? AND actor_kind = ?", actorID, actorKind).
    Order("created_at DESC")
  if limit > 0 {
    q = q.Limit(limit)
  }
  if err := q.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, actorID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }

  now := time.Now().UTC()
  result := transaction.WithContext(ctx).
    Model(&types.Notification{}).
    Where("id = ? AND actor_id = ? AND read_at IS NULL", notificationID, actorID).
    Update("read_at", &now)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected > 0, nil
}

func (nr *notificationRepo) CountByCampaign(ctx context.Context, tx *gorm.DB, campaignID string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = nr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Notification{}).
    Where("campaign_id = ?", campaignID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
