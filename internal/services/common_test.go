package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/marketbridge-backend/internal/legaldocs"
	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/repos"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Vendor{},
		&types.PublishedPolicy{},
		&types.PolicyAcceptance{},
		&types.Declaration{},
		&types.Notification{},
		&types.MailJob{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

const harnessManifest = `VENDOR_TERMS:
  title: Vendor Terms
  current: 1
  files:
    1:
      path: vendor_terms_v1.md
      vars: 1
`

const harnessVars = `company:
  name: "Marketbridge"
`

const harnessTerms = `---
title: "{{company.name}} Vendor Terms"
version: "1.0"
---
Terms body.
`

func newTestRenderer(t *testing.T) *legaldocs.Renderer {
	t.Helper()
	src := legaldocs.NewMapSource()
	mod := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	src.Put("legal/manifest.yaml", []byte(harnessManifest), mod)
	src.Put("legal/vars_v1.yaml", []byte(harnessVars), mod)
	src.Put("legal/vendor_terms_v1.md", []byte(harnessTerms), mod)
	store := legaldocs.NewStore(newTestLogger(t), src, "legal", "legal/manifest.yaml")
	return legaldocs.NewRenderer(newTestLogger(t), store)
}

type fakeMailQueue struct {
	sent []types.OutboundEmail
}

func (f *fakeMailQueue) Enqueue(ctx context.Context, email types.OutboundEmail) error {
	f.sent = append(f.sent, email)
	return nil
}

// harness wires the whole service stack over one sqlite database.
type harness struct {
	db                *gorm.DB
	userRepo          repos.UserRepo
	vendorRepo        repos.VendorRepo
	acceptanceRepo    repos.PolicyAcceptanceRepo
	declarationRepo   repos.DeclarationRepo
	notificationRepo  repos.NotificationRepo
	mailJobRepo       repos.MailJobRepo
	policyService     PolicyService
	acceptanceService AcceptanceService
	complianceService ComplianceService
	campaignService   CampaignService
	mailQueue         *fakeMailQueue
}

func newHarness(t *testing.T, populationCap int) *harness {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	renderer := newTestRenderer(t)

	userRepo := repos.NewUserRepo(db, log)
	vendorRepo := repos.NewVendorRepo(db, log)
	policyRepo := repos.NewPublishedPolicyRepo(db, log)
	acceptanceRepo := repos.NewPolicyAcceptanceRepo(db, log)
	declarationRepo := repos.NewDeclarationRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)
	mailJobRepo := repos.NewMailJobRepo(db, log)

	policyService := NewPolicyService(db, log, policyRepo)
	acceptanceService := NewAcceptanceService(db, log, acceptanceRepo, declarationRepo, policyService, renderer)
	complianceService := NewComplianceService(db, log, policyService, acceptanceRepo, declarationRepo, userRepo, vendorRepo, populationCap)
	mailQueue := &fakeMailQueue{}
	campaignService := NewCampaignService(db, log, complianceService, notificationRepo, mailJobRepo, mailQueue)

	return &harness{
		db:                db,
		userRepo:          userRepo,
		vendorRepo:        vendorRepo,
		acceptanceRepo:    acceptanceRepo,
		declarationRepo:   declarationRepo,
		notificationRepo:  notificationRepo,
		mailJobRepo:       mailJobRepo,
		policyService:     policyService,
		acceptanceService: acceptanceService,
		complianceService: complianceService,
		campaignService:   campaignService,
		mailQueue:         mailQueue,
	}
}

func (h *harness) createVendor(t *testing.T, email string) *types.Vendor {
	t.Helper()
	vendors, err := h.vendorRepo.Create(context.Background(), nil, []*types.Vendor{
		{Email: email, DisplayName: strings.Split(email, "@")[0]},
	})
	if err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	return vendors[0]
}

func (h *harness) createUser(t *testing.T, email string) *types.User {
	t.Helper()
	users, err := h.userRepo.Create(context.Background(), nil, []*types.User{
		{Email: email, Password: "x"},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return users[0]
}

func (h *harness) publish(t *testing.T, kind, version string, required, active bool) *types.PublishedPolicy {
	t.Helper()
	policy, err := h.policyService.Publish(context.Background(), PublishPolicyInput{
		DocumentKind: kind,
		Version:      version,
		Title:        kind + " " + version,
		IsRequired:   required,
		IsActive:     active,
	})
	if err != nil {
		t.Fatalf("publish %s %s: %v", kind, version, err)
	}
	return policy
}

func (h *harness) accept(t *testing.T, actor *types.Vendor, kind, version string) {
	t.Helper()
	results, err := h.acceptanceService.Accept(context.Background(), actor.ID, types.ActorKindVendor, []AcceptanceItem{
		{Type: kind, Version: version},
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !results[0].OK {
		t.Fatalf("accept %s %s failed: %+v", kind, version, results[0])
	}
}

func targetIDs(diff *ComplianceDiff) map[string]bool {
	out := map[string]bool{}
	for _, target := range diff.Targets {
		out[target.ActorID.String()] = true
	}
	return out
}
