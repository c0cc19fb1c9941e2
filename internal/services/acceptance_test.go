package services

import (
	"context"
	"testing"

	"github.com/yungbote/marketbridge-backend/internal/types"
)

func TestAcceptIsIdempotent(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	vendor := h.createVendor(t, "acme@vendors.test")
	h.publish(t, "VENDOR_TERMS", "1.0", true, true)

	first, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_TERMS", Version: "1.0"}})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !first[0].OK || first[0].Code != AcceptCodeAccepted {
		t.Fatalf("first accept result=%+v", first[0])
	}

	second, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_TERMS", Version: "1.0"}})
	if err != nil {
		t.Fatalf("accept again: %v", err)
	}
	if !second[0].OK || second[0].Code != AcceptCodeAlreadyAccepted {
		t.Fatalf("second accept result=%+v, want idempotent success", second[0])
	}

	var count int64
	if err := h.db.Model(&types.PolicyAcceptance{}).Where("actor_id = ?", vendor.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("acceptance rows=%d, want duplicate swallowed", count)
	}
}

func TestAcceptUnknownKind(t *testing.T) {
	h := newHarness(t, 0)
	vendor := h.createVendor(t, "acme@vendors.test")

	results, err := h.acceptanceService.Accept(context.Background(), vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "NOT_A_DOCUMENT"}})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if results[0].OK || results[0].Code != AcceptCodeUnknownType {
		t.Fatalf("result=%+v, want unknown_type", results[0])
	}
}

func TestAcceptExplicitVersionMustBePublished(t *testing.T) {
	h := newHarness(t, 0)
	vendor := h.createVendor(t, "acme@vendors.test")

	results, err := h.acceptanceService.Accept(context.Background(), vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_TERMS", Version: "9.9"}})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if results[0].OK || results[0].Code != AcceptCodeDocNotFound {
		t.Fatalf("result=%+v, want doc_not_found", results[0])
	}
}

func TestAcceptOmittedVersionResolvesActivePolicy(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	vendor := h.createVendor(t, "acme@vendors.test")

	_, err := h.policyService.Publish(ctx, PublishPolicyInput{
		DocumentKind: "VENDOR_TERMS",
		Version:      "2.0",
		Title:        "Vendor Terms",
		Checksum:     "abc123",
		IsRequired:   true,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	results, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_TERMS"}})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !results[0].OK {
		t.Fatalf("result=%+v", results[0])
	}

	latest, err := h.acceptanceService.LatestPerKind(ctx, vendor.ID, types.ActorKindVendor, []string{"VENDOR_TERMS"})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	row := latest["VENDOR_TERMS"]
	if row == nil || row.Version != "2.0" {
		t.Fatalf("recorded row=%+v, want version from active policy", row)
	}
	if row.Checksum != "abc123" {
		t.Fatalf("checksum=%q, want policy checksum carried onto the row", row.Checksum)
	}
}

func TestAcceptFallsBackToRenderedDocument(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	vendor := h.createVendor(t, "acme@vendors.test")

	// Nothing published for the kind, but the manifest knows it. The current
	// rendered document supplies version and checksum.
	results, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_TERMS"}})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !results[0].OK || results[0].Code != AcceptCodeAccepted {
		t.Fatalf("result=%+v", results[0])
	}

	latest, err := h.acceptanceService.LatestPerKind(ctx, vendor.ID, types.ActorKindVendor, []string{"VENDOR_TERMS"})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	row := latest["VENDOR_TERMS"]
	if row == nil || row.Version != "1.0" {
		t.Fatalf("recorded row=%+v, want version from rendered document", row)
	}
	if row.Checksum == "" {
		t.Fatalf("checksum empty, want raw-source hash")
	}
}

func TestAcceptDeclarationKind(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	vendor := h.createVendor(t, "acme@vendors.test")

	first, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_DECLARATION"}})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !first[0].OK || first[0].Code != AcceptCodeAccepted {
		t.Fatalf("first result=%+v", first[0])
	}
	second, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{{Type: "VENDOR_DECLARATION"}})
	if err != nil {
		t.Fatalf("accept again: %v", err)
	}
	if !second[0].OK || second[0].Code != AcceptCodeAlreadyAccepted {
		t.Fatalf("second result=%+v", second[0])
	}

	exists, err := h.declarationRepo.ExistsForActor(ctx, nil, vendor.ID, types.ActorKindVendor, "VENDOR_DECLARATION")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("declaration row missing")
	}
}

func TestAcceptMixedBatchReportsPerItem(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	vendor := h.createVendor(t, "acme@vendors.test")
	h.publish(t, "VENDOR_TERMS", "1.0", true, true)

	results, err := h.acceptanceService.Accept(ctx, vendor.ID, types.ActorKindVendor, []AcceptanceItem{
		{Type: "VENDOR_TERMS", Version: "1.0"},
		{Type: "NOT_A_DOCUMENT"},
		{Type: "VENDOR_DECLARATION"},
	})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results=%d, want one per item", len(results))
	}
	if !results[0].OK || results[1].OK || !results[2].OK {
		t.Fatalf("per-item outcomes wrong: %+v", results)
	}
}
