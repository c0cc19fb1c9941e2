package repos

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type PolicyAcceptanceRepo interface {
  // CreateIgnoreDuplicate appends an acceptance row; returns false when the
  // (actor, actor kind, document kind, version) triple already exists.
  CreateIgnoreDuplicate(ctx context.Context, tx *gorm.DB, row *types.PolicyAcceptance) (bool, error)
  LatestForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind, documentKind string) (*types.PolicyAcceptance, error)
  LatestPerKindForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind string, documentKinds []string) (map[string]*types.PolicyAcceptance, error)
  AcceptedPairs(ctx context.Context, tx *gorm.DB, actorIDs []uuid.UUID, actorKind string, documentKinds []string) (map[uuid.UUID]map[string]struct{}, error)
}

type policyAcceptanceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPolicyAcceptanceRepo(db *gorm.DB, baseLog *logger.Logger) PolicyAcceptanceRepo {
  repoLog := baseLog.With("repo", "PolicyAcceptanceRepo")
  return &policyAcceptanceRepo{db: db, log: repoLog}
}

// PairKey is the membership key used by the compliance diff: "kind::version".
func PairKey(documentKind, version string) string {
  return fmt.Sprintf("%s::%s", documentKind, version)
}

func (ar *policyAcceptanceRepo) CreateIgnoreDuplicate(ctx context.Context, tx *gorm.DB, row *types.PolicyAcceptance) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }

  result := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{
        {Name: "actor_id"}, {Name: "actor_kind"}, {Name: "document_kind"}, {Name: "version"},
      },
      DoNothing: true,
    }).
    Create(row)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected > 0, nil
}

func (ar *policyAcceptanceRepo) LatestForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind, documentKind string) (*types.PolicyAcceptance, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var result types.PolicyAcceptance
  err := transaction.WithContext(ctx).
    Where("actor_id = ? AND actor_kind = ? AND document_kind = ?", actorID, actorKind, documentKind).
    Order("accepted_at DESC").
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (ar *policyAcceptanceRepo) LatestPerKindForActor(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, actorKind string, documentKinds []string) (map[string]*types.PolicyAcceptance, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  out := map[string]*types.PolicyAcceptance{}
  if len(documentKinds) == 0 {
    return out, nil
  }

  var rows []*types.PolicyAcceptance
  if err := transaction.WithContext(ctx).
    Where("actor_id = ? AND actor_kind = ? AND document_kind IN ?", actorID, actorKind, documentKinds).
    Order("accepted_at DESC").
    Find(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    if _, seen := out[row.DocumentKind]; !seen {
      out[row.DocumentKind] = row
    }
  }
  return out, nil
}

func (ar *policyAcceptanceRepo) AcceptedPairs(ctx context.Context, tx *gorm.DB, actorIDs []uuid.UUID, actorKind string, documentKinds []string) (map[uuid.UUID]map[string]struct{}, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  out := map[uuid.UUID]map[string]struct{}{}
  if len(actorIDs) == 0 || len(documentKinds) == 0 {
    return out, nil
  }

  // Full history, not just the latest row: the diff asks "has this actor ever
  // accepted version V of document D".
  var rows []*types.PolicyAcceptance
  if err := transaction.WithContext(ctx).
    Where("actor_id IN ? AND actor_kind = ? AND document_kind IN ?", actorIDs, actorKind, documentKinds).
    Find(&rows).Error; err != nil {
    return nil, err
  }
  for _, row := range rows {
    set, ok := out[row.ActorID]
    if !ok {
      set = map[string]struct{}{}
      out[row.ActorID] = set
    }
    set[PairKey(row.DocumentKind, row.Version)] = struct{}{}
  }
  return out, nil
}
