package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type VendorRepo interface {
  Create(ctx context.Context, tx *gorm.DB, vendors []*types.Vendor) ([]*types.Vendor, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, vendorIDs []uuid.UUID) ([]*types.Vendor, error)
  List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Vendor, error)
}

type vendorRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewVendorRepo(db *gorm.DB, baseLog *logger.Logger) VendorRepo {
  repoLog := baseLog.With("repo", "VendorRepo")
  return &vendorRepo{db: db, log: repoLog}
}

func (vr *vendorRepo) Create(ctx context.Context, tx *gorm.DB, vendors []*types.Vendor) ([]*types.Vendor, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  if len(vendors) == 0 {
    return []*types.Vendor{}, nil
  }
  for _, v := range vendors {
    if v.ID == uuid.Nil {
      v.ID = uuid.New()
    }
  }

  if err := transaction.WithContext(ctx).Create(&vendors).Error; err != nil {
    return nil, err
  }

  return vendors, nil
}

func (vr *vendorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, vendorIDs []uuid.UUID) ([]*types.Vendor, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  var results []*types.Vendor

  if len(vendorIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", vendorIDs).
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}

func (vr *vendorRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Vendor, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }

  var results []*types.Vendor

  q := transaction.WithContext(ctx).Order("created_at ASC")
  if limit > 0 {
    q = q.Limit(limit)
  }
  if err := q.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
