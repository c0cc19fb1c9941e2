package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type PublishedPolicyRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, policy *types.PublishedPolicy) (*types.PublishedPolicy, error)
  DeactivateOthers(ctx context.Context, tx *gorm.DB, documentKind, keepVersion string) error
  GetActiveByKinds(ctx context.Context, tx *gorm.DB, documentKinds []string) ([]*types.PublishedPolicy, error)
  GetByKindVersion(ctx context.Context, tx *gorm.DB, documentKind, version string) (*types.PublishedPolicy, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.PublishedPolicy, error)
}

type publishedPolicyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPublishedPolicyRepo(db *gorm.DB, baseLog *logger.Logger) PublishedPolicyRepo {
  repoLog := baseLog.With("repo", "PublishedPolicyRepo")
  return &publishedPolicyRepo{db: db, log: repoLog}
}

func (pr *publishedPolicyRepo) Upsert(ctx context.Context, tx *gorm.DB, policy *types.PublishedPolicy) (*types.PublishedPolicy, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if policy.ID == uuid.Nil {
    policy.ID = uuid.New()
  }

  // On conflict with an existing (document_kind, version) row, overwrite the
  // publication fields and leave the original id in place.
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "document_kind"}, {Name: "version"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "title", "url", "checksum", "is_required", "is_active", "published_at", "updated_at",
      }),
    }).
    Create(policy).Error; err != nil {
    return nil, err
  }
  return policy, nil
}

func (pr *publishedPolicyRepo) DeactivateOthers(ctx context.Context, tx *gorm.DB, documentKind, keepVersion string) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.PublishedPolicy{}).
    Where("document_kind = ? AND version <> ? AND is_active = ?", documentKind, keepVersion, true).
    Update("is_active", false).Error
}

func (pr *publishedPolicyRepo) GetActiveByKinds(ctx context.Context, tx *gorm.DB, documentKinds []string) ([]*types.PublishedPolicy, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.PublishedPolicy
  if len(documentKinds) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("document_kind IN ? AND is_active = ?", documentKinds, true).
    Order("published_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *publishedPolicyRepo) GetByKindVersion(ctx context.Context, tx *gorm.DB, documentKind, version string) (*types.PublishedPolicy, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var result types.PublishedPolicy
  err := transaction.WithContext(ctx).
    Where("document_kind = ? AND version = ?", documentKind, version).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (pr *publishedPolicyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.PublishedPolicy, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.PublishedPolicy
  if err := transaction.WithContext(ctx).
    Order("document_kind ASC, published_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
