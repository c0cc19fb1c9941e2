package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/repos"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

type PublishPolicyInput struct {
	DocumentKind string    `json:"document_kind"`
	Version      string    `json:"version"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Checksum     string    `json:"checksum"`
	IsRequired   bool      `json:"is_required"`
	IsActive     bool      `json:"is_active"`
	PublishedAt  time.Time `json:"published_at"`
}

type PolicyService interface {
	Publish(ctx context.Context, input PublishPolicyInput) (*types.PublishedPolicy, error)
	// LatestActivePerKind returns the single active row per requested kind.
	// If the one-active invariant is ever violated, the most recently
	// published row wins and the violation is logged, never errored.
	LatestActivePerKind(ctx context.Context, tx *gorm.DB, documentKinds []string) (map[string]*types.PublishedPolicy, error)
	GetByKindVersion(ctx context.Context, documentKind, version string) (*types.PublishedPolicy, error)
	List(ctx context.Context) ([]*types.PublishedPolicy, error)
}

type policyService struct {
	db         *gorm.DB
	log        *logger.Logger
	policyRepo repos.PublishedPolicyRepo
}

func NewPolicyService(db *gorm.DB, log *logger.Logger, policyRepo repos.PublishedPolicyRepo) PolicyService {
	serviceLog := log.With("service", "PolicyService")
	return &policyService{db: db, log: serviceLog, policyRepo: policyRepo}
}

func (ps *policyService) Publish(ctx context.Context, input PublishPolicyInput) (*types.PublishedPolicy, error) {
	kind := strings.TrimSpace(input.DocumentKind)
	version := strings.TrimSpace(input.Version)
	if kind == "" || version == "" {
		return nil, fmt.Errorf("document kind and version are required")
	}
	publishedAt := input.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	row := &types.PublishedPolicy{
		DocumentKind: kind,
		Version:      version,
		Title:        input.Title,
		URL:          input.URL,
		Checksum:     input.Checksum,
		IsRequired:   input.IsRequired,
		IsActive:     input.IsActive,
		PublishedAt:  publishedAt,
	}

	// Upsert and rotation run in one transaction so readers never observe
	// zero or two active rows for the kind.
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.policyRepo.Upsert(ctx, tx, row); err != nil {
			return fmt.Errorf("upsert policy: %w", err)
		}
		if row.IsActive {
			if err := ps.policyRepo.DeactivateOthers(ctx, tx, kind, version); err != nil {
				return fmt.Errorf("deactivate prior versions: %w", err)
			}
		}
		return nil
	}); err != nil {
		ps.log.Warn("Publish transaction error", "document_kind", kind, "version", version, "error", err)
		return nil, err
	}

	ps.log.Info("Published policy version", "document_kind", kind, "version", version, "required", row.IsRequired, "active", row.IsActive)
	return row, nil
}

func (ps *policyService) LatestActivePerKind(ctx context.Context, tx *gorm.DB, documentKinds []string) (map[string]*types.PublishedPolicy, error) {
	rows, err := ps.policyRepo.GetActiveByKinds(ctx, tx, documentKinds)
	if err != nil {
		return nil, fmt.Errorf("load active policies: %w", err)
	}

	out := map[string]*types.PublishedPolicy{}
	for _, row := range rows {
		existing, ok := out[row.DocumentKind]
		if !ok {
			out[row.DocumentKind] = row
			continue
		}
		// Two active rows for one kind: invariant violation. Rows arrive
		// ordered by published_at DESC, so the kept row is the newer one.
		ps.log.Warn("Multiple active policy rows for kind, keeping most recent",
			"document_kind", row.DocumentKind,
			"kept_version", existing.Version,
			"dropped_version", row.Version)
	}
	return out, nil
}

func (ps *policyService) GetByKindVersion(ctx context.Context, documentKind, version string) (*types.PublishedPolicy, error) {
	return ps.policyRepo.GetByKindVersion(ctx, nil, documentKind, version)
}

func (ps *policyService) List(ctx context.Context) ([]*types.PublishedPolicy, error) {
	return ps.policyRepo.List(ctx, nil)
}
