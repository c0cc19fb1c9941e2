package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketbridge-backend/internal/apierr"
	"github.com/yungbote/marketbridge-backend/internal/legaldocs"
	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/repos"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

// Pseudo-document kinds: no version history, compliance is a pure existence
// check on the declaration table.
var declarationKinds = map[string]struct{}{
	"VENDOR_DECLARATION": {},
}

func IsDeclarationKind(kind string) bool {
	_, ok := declarationKinds[kind]
	return ok
}

type AcceptanceItem struct {
	Type     string `json:"type"`
	Version  string `json:"version,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

type AcceptanceItemResult struct {
	Type string `json:"type"`
	OK   bool   `json:"ok"`
	Code string `json:"code"`
}

const (
	AcceptCodeAccepted        = "accepted"
	AcceptCodeAlreadyAccepted = "already_accepted"
	AcceptCodeUnknownType     = "unknown_type"
	AcceptCodeDocNotFound     = "doc_not_found"
)

type AcceptanceService interface {
	// Accept records each item; duplicates are idempotent successes.
	Accept(ctx context.Context, actorID uuid.UUID, actorKind string, items []AcceptanceItem) ([]AcceptanceItemResult, error)
	LatestPerKind(ctx context.Context, actorID uuid.UUID, actorKind string, documentKinds []string) (map[string]*types.PolicyAcceptance, error)
}

type acceptanceService struct {
	db              *gorm.DB
	log             *logger.Logger
	acceptanceRepo  repos.PolicyAcceptanceRepo
	declarationRepo repos.DeclarationRepo
	policyService   PolicyService
	renderer        *legaldocs.Renderer
}

func NewAcceptanceService(db *gorm.DB, log *logger.Logger, acceptanceRepo repos.PolicyAcceptanceRepo, declarationRepo repos.DeclarationRepo, policyService PolicyService, renderer *legaldocs.Renderer) AcceptanceService {
	serviceLog := log.With("service", "AcceptanceService")
	return &acceptanceService{
		db:              db,
		log:             serviceLog,
		acceptanceRepo:  acceptanceRepo,
		declarationRepo: declarationRepo,
		policyService:   policyService,
		renderer:        renderer,
	}
}

func (as *acceptanceService) Accept(ctx context.Context, actorID uuid.UUID, actorKind string, items []AcceptanceItem) ([]AcceptanceItemResult, error) {
	results := make([]AcceptanceItemResult, 0, len(items))
	for _, item := range items {
		results = append(results, as.acceptOne(ctx, actorID, actorKind, item))
	}
	return results, nil
}

func (as *acceptanceService) acceptOne(ctx context.Context, actorID uuid.UUID, actorKind string, item AcceptanceItem) AcceptanceItemResult {
	kind := strings.TrimSpace(item.Type)
	if kind == "" {
		return AcceptanceItemResult{Type: item.Type, OK: false, Code: AcceptCodeUnknownType}
	}

	if IsDeclarationKind(kind) {
		created, err := as.declarationRepo.CreateIgnoreDuplicate(ctx, nil, &types.Declaration{
			ActorID:    actorID,
			ActorKind:  actorKind,
			Kind:       kind,
			DeclaredAt: time.Now().UTC(),
		})
		if err != nil {
			as.log.Warn("Declaration write failed", "kind", kind, "error", err)
			return AcceptanceItemResult{Type: kind, OK: false, Code: "write_failed"}
		}
		if !created {
			return AcceptanceItemResult{Type: kind, OK: true, Code: AcceptCodeAlreadyAccepted}
		}
		return AcceptanceItemResult{Type: kind, OK: true, Code: AcceptCodeAccepted}
	}

	version, checksum, code := as.resolveTarget(ctx, kind, item)
	if code != "" {
		return AcceptanceItemResult{Type: kind, OK: false, Code: code}
	}

	created, err := as.acceptanceRepo.CreateIgnoreDuplicate(ctx, nil, &types.PolicyAcceptance{
		ActorID:      actorID,
		ActorKind:    actorKind,
		DocumentKind: kind,
		Version:      version,
		Checksum:     checksum,
		AcceptedAt:   time.Now().UTC(),
	})
	if err != nil {
		as.log.Warn("Acceptance write failed", "kind", kind, "version", version, "error", err)
		return AcceptanceItemResult{Type: kind, OK: false, Code: "write_failed"}
	}
	if !created {
		return AcceptanceItemResult{Type: kind, OK: true, Code: AcceptCodeAlreadyAccepted}
	}
	return AcceptanceItemResult{Type: kind, OK: true, Code: AcceptCodeAccepted}
}

// resolveTarget fills in the version/checksum the acceptance row should carry.
// An explicit version must match a published policy row; an omitted version
// resolves to the active policy for the kind, falling back to the rendered
// current document when nothing was published yet.
func (as *acceptanceService) resolveTarget(ctx context.Context, kind string, item AcceptanceItem) (version, checksum, code string) {
	if v := strings.TrimSpace(item.Version); v != "" {
		policy, err := as.policyService.GetByKindVersion(ctx, kind, v)
		if err != nil {
			as.log.Warn("Policy lookup failed", "kind", kind, "version", v, "error", err)
			return "", "", AcceptCodeDocNotFound
		}
		if policy == nil {
			return "", "", AcceptCodeDocNotFound
		}
		checksum = strings.TrimSpace(item.Checksum)
		if checksum == "" {
			checksum = policy.Checksum
		}
		return v, checksum, ""
	}

	active, err := as.policyService.LatestActivePerKind(ctx, nil, []string{kind})
	if err == nil {
		if policy, ok := active[kind]; ok {
			return policy.Version, policy.Checksum, ""
		}
	}

	doc, err := as.renderer.Render(kind, "")
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) && ae.Code == "unknown_type" {
			return "", "", AcceptCodeUnknownType
		}
		return "", "", AcceptCodeDocNotFound
	}
	return doc.Version, doc.Checksum, ""
}

func (as *acceptanceService) LatestPerKind(ctx context.Context, actorID uuid.UUID, actorKind string, documentKinds []string) (map[string]*types.PolicyAcceptance, error) {
	return as.acceptanceRepo.LatestPerKindForActor(ctx, nil, actorID, actorKind, documentKinds)
}
