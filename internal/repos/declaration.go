package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type DeclarationRepo interface {
  CreateIgnoreDuplicate(ctx context.Context, tx *gorm.DB, row *types.Declaration) (bool, error)
  ExistsForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind, kind string) (bool, error)
  ActorIDsWithDeclaration(ctx context.Context, tx *gorm.DB, actorIDs []uuid.UUID, actorKind, kind string) (map[uuid.UUID]struct{}, error)
}

type declarationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDeclarationRepo(db *gorm.DB, baseLog *logger.Logger) DeclarationRepo {
  repoLog := baseLog.With("repo", "DeclarationRepo")
  return &declarationRepo{db: db, log: repoLog}
}

func (dr *declarationRepo) CreateIgnoreDuplicate(ctx context.Context, tx *gorm.DB, row *types.Declaration) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }

  result := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "actor_id"}, {Name: "actor_kind"}, {Name: "kind"}},
      DoNothing: true,
    }).
    Create(row)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected > 0, nil
}

func (dr *declarationRepo) ExistsForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind, kind string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Declaration{}).
    Where("actor_id = ? AND actor_kind = ? AND kind = ?", actorID, actorKind, kind).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (dr *declarationRepo) ActorIDsWithDeclaration(ctx context.Context, tx *gorm.DB, actorIDs []uuid.UUID, actorKind, kind string) (map[uuid.UUID]struct{}, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  out := map[uuid.UUID]struct{}{}
  if len(actorIDs) == 0 {
    return out, nil
  }

  var rows []*types.Declaration
  if err := transaction.WithContext(ctx).
    Where("actor_id IN ? AND actor_kind = ? AND kind = ?", actorIDs, actorKind, kind).
    Find(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    out[row.ActorID] = struct{}{}
  }
  return out, nil
}
