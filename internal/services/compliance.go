package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/repos"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

type Scope string

const (
	ScopeUsers   Scope = "USERS"
	ScopeVendors Scope = "VENDORS"
)

func (s Scope) ActorKind() string {
	if s == ScopeVendors {
		return types.ActorKindVendor
	}
	return types.ActorKindUser
}

type ComplianceTarget struct {
	ActorID uuid.UUID `json:"actor_id"`
	Email   string    `json:"email,omitempty"`
}

type ComplianceDiff struct {
	Targets          []ComplianceTarget `json:"targets"`
	VersionsSnapshot map[string]string  `json:"versions_snapshot"`
}

type ActorDocumentStatus struct {
	DocumentKind    string `json:"document_kind"`
	Required        bool   `json:"required"`
	RequiredVersion string `json:"required_version,omitempty"`
	AcceptedVersion string `json:"accepted_version,omitempty"`
	UpToDate        bool   `json:"up_to_date"`
}

type ComplianceService interface {
	// FindOutdatedActors computes which actors in scope lack an acceptance
	// matching the currently required version of the given kinds. Read-only;
	// safe to invoke repeatedly for previews.
	FindOutdatedActors(ctx context.Context, scope Scope, documentKinds []string) (*ComplianceDiff, error)
	ActorStatus(ctx context.Context, actorID uuid.UUID, actorKind string, documentKinds []string) ([]ActorDocumentStatus, error)
}

type complianceService struct {
	db              *gorm.DB
	log             *logger.Logger
	policyService   PolicyService
	acceptanceRepo  repos.PolicyAcceptanceRepo
	declarationRepo repos.DeclarationRepo
	userRepo        repos.UserRepo
	vendorRepo      repos.VendorRepo
	populationCap   int
}

func NewComplianceService(db *gorm.DB, log *logger.Logger, policyService PolicyService, acceptanceRepo repos.PolicyAcceptanceRepo, declarationRepo repos.DeclarationRepo, userRepo repos.UserRepo, vendorRepo repos.VendorRepo, populationCap int) ComplianceService {
	serviceLog := log.With("service", "ComplianceService")
	if populationCap <= 0 {
		populationCap = 10000
	}
	return &complianceService{
		db:              db,
		log:             serviceLog,
		policyService:   policyService,
		acceptanceRepo:  acceptanceRepo,
		declarationRepo: declarationRepo,
		userRepo:        userRepo,
		vendorRepo:      vendorRepo,
		populationCap:   populationCap,
	}
}

func (cs *complianceService) FindOutdatedActors(ctx context.Context, scope Scope, documentKinds []string) (*ComplianceDiff, error) {
	ordinary := make([]string, 0, len(documentKinds))
	pseudo := make([]string, 0, 1)
	for _, kind := range documentKinds {
		if IsDeclarationKind(kind) {
			pseudo = append(pseudo, kind)
		} else {
			ordinary = append(ordinary, kind)
		}
	}

	var (
		activeByKind map[string]*types.PublishedPolicy
		actors       []ComplianceTarget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activeByKind, err = cs.policyService.LatestActivePerKind(gctx, nil, ordinary)
		return err
	})
	g.Go(func() error {
		var err error
		actors, err = cs.loadPopulation(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Snapshot records every requested kind with an active row, required or
	// not, so a campaign can say exactly what it was notifying about.
	snapshot := map[string]string{}
	requiredKinds := make([]string, 0, len(ordinary))
	for _, kind := range ordinary {
		policy, ok := activeByKind[kind]
		if !ok {
			continue
		}
		snapshot[kind] = policy.Version
		if policy.IsRequired {
			requiredKinds = append(requiredKinds, kind)
		}
	}

	actorIDs := make([]uuid.UUID, 0, len(actors))
	for _, a := range actors {
		actorIDs = append(actorIDs, a.ActorID)
	}

	acceptedByActor, err := cs.acceptanceRepo.AcceptedPairs(ctx, nil, actorIDs, scope.ActorKind(), ordinary)
	if err != nil {
		return nil, fmt.Errorf("load acceptance history: %w", err)
	}
	declaredByKind := map[string]map[uuid.UUID]struct{}{}
	for _, kind := range pseudo {
		declared, err := cs.declarationRepo.ActorIDsWithDeclaration(ctx, nil, actorIDs, scope.ActorKind(), kind)
		if err != nil {
			return nil, fmt.Errorf("load declarations for %s: %w", kind, err)
		}
		declaredByKind[kind] = declared
	}

	targets := make([]ComplianceTarget, 0)
	for _, actor := range actors {
		accepted := acceptedByActor[actor.ActorID]
		outdated := false
		for _, kind := range requiredKinds {
			key := repos.PairKey(kind, activeByKind[kind].Version)
			if _, ok := accepted[key]; !ok {
				// First missing required kind settles it for this actor.
				outdated = true
				break
			}
		}
		if !outdated {
			for _, kind := range pseudo {
				if _, ok := declaredByKind[kind][actor.ActorID]; !ok {
					outdated = true
					break
				}
			}
		}
		if outdated {
			targets = append(targets, actor)
		}
	}

	cs.log.Debug("Compliance scan complete",
		"scope", scope,
		"population", len(actors),
		"targets", len(targets),
		"required_kinds", len(requiredKinds))
	return &ComplianceDiff{Targets: targets, VersionsSnapshot: snapshot}, nil
}

// loadPopulation loads at most populationCap actors for the scope. A larger
// population is truncated, not paginated.
func (cs *complianceService) loadPopulation(ctx context.Context, scope Scope) ([]ComplianceTarget, error) {
	switch scope {
	case ScopeVendors:
		vendors, err := cs.vendorRepo.List(ctx, nil, cs.populationCap)
		if err != nil {
			return nil, fmt.Errorf("load vendor population: %w", err)
		}
		out := make([]ComplianceTarget, 0, len(vendors))
		for _, v := range vendors {
			out = append(out, ComplianceTarget{ActorID: v.ID, Email: v.Email})
		}
		return out, nil
	case ScopeUsers:
		users, err := cs.userRepo.List(ctx, nil, cs.populationCap)
		if err != nil {
			return nil, fmt.Errorf("load user population: %w", err)
		}
		out := make([]ComplianceTarget, 0, len(users))
		for _, u := range users {
			out = append(out, ComplianceTarget{ActorID: u.ID, Email: u.Email})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}
}

func (cs *complianceService) ActorStatus(ctx context.Context, actorID uuid.UUID, actorKind string, documentKinds []string) ([]ActorDocumentStatus, error) {
	ordinary := make([]string, 0, len(documentKinds))
	for _, kind := range documentKinds {
		if !IsDeclarationKind(kind) {
			ordinary = append(ordinary, kind)
		}
	}
	activeByKind, err := cs.policyService.LatestActivePerKind(ctx, nil, ordinary)
	if err != nil {
		return nil, err
	}
	latest, err := cs.acceptanceRepo.LatestPerKindForActor(ctx, nil, actorID, actorKind, ordinary)
	if err != nil {
		return nil, err
	}

	out := make([]ActorDocumentStatus, 0, len(documentKinds))
	for _, kind := range documentKinds {
		if IsDeclarationKind(kind) {
			exists, err := cs.declarationRepo.ExistsForActor(ctx, nil, actorID, actorKind, kind)
			if err != nil {
				return nil, err
			}
			out = append(out, ActorDocumentStatus{
				DocumentKind: kind,
				Required:     true,
				UpToDate:     exists,
			})
			continue
		}

		status := ActorDocumentStatus{DocumentKind: kind, UpToDate: true}
		if acceptance, ok := latest[kind]; ok {
			status.AcceptedVersion = acceptance.Version
		}
		if policy, ok := activeByKind[kind]; ok {
			status.Required = policy.IsRequired
			status.RequiredVersion = policy.Version
			if policy.IsRequired {
				accepted, err := cs.acceptanceRepo.AcceptedPairs(ctx, nil, []uuid.UUID{actorID}, actorKind, []string{kind})
				if err != nil {
					return nil, err
				}
				_, ok := accepted[actorID][repos.PairKey(kind, policy.Version)]
				status.UpToDate = ok
			}
		}
		out = append(out, status)
	}
	return out, nil
}
