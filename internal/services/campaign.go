package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/repos"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

// MailQueue hands a queued email job to the outbound broker. The MailJob row
// is the durability guarantee; a broker enqueue failure is logged, not fatal.
type MailQueue interface {
	Enqueue(ctx context.Context, email types.OutboundEmail) error
}

type InAppContent struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type EmailContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type DispatchInput struct {
	Scope          Scope         `json:"scope"`
	Documents      []string      `json:"documents"`
	RequiresAction bool          `json:"requires_action"`
	InApp          InAppContent  `json:"in_app"`
	Email          *EmailContent `json:"email,omitempty"`
}

type DispatchResult struct {
	CampaignID  string `json:"campaign_id,omitempty"`
	TargetCount int    `json:"target_count"`
	CreatedCount int   `json:"created_count"`
	EmailQueued int    `json:"email_queued"`
}

type CampaignService interface {
	// Dispatch turns a compliance diff into notification rows and queued
	// email jobs. No dedup against earlier campaigns: re-invoking re-notifies
	// the same actors, and the returned counts make that visible.
	Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error)
}

type campaignService struct {
	db                *gorm.DB
	log               *logger.Logger
	complianceService ComplianceService
	notificationRepo  repos.NotificationRepo
	mailJobRepo       repos.MailJobRepo
	mailQueue         MailQueue
}

func NewCampaignService(db *gorm.DB, log *logger.Logger, complianceService ComplianceService, notificationRepo repos.NotificationRepo, mailJobRepo repos.MailJobRepo, mailQueue MailQueue) CampaignService {
	serviceLog := log.With("service", "CampaignService")
	return &campaignService{
		db:                db,
		log:               serviceLog,
		complianceService: complianceService,
		notificationRepo:  notificationRepo,
		mailJobRepo:       mailJobRepo,
		mailQueue:         mailQueue,
	}
}

func (cs *campaignService) Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	if len(input.Documents) == 0 {
		return nil, fmt.Errorf("at least one document kind is required")
	}

	diff, err := cs.complianceService.FindOutdatedActors(ctx, input.Scope, input.Documents)
	if err != nil {
		return nil, fmt.Errorf("compliance scan: %w", err)
	}
	if len(diff.Targets) == 0 {
		cs.log.Info("Campaign dispatch found no targets", "scope", input.Scope, "documents", input.Documents)
		return &DispatchResult{}, nil
	}

	// Time-based id: unique enough for human correlation across the
	// notification and mail job tables.
	campaignID := fmt.Sprintf("legal-%s", time.Now().UTC().Format("20060102-150405"))

	kindsJSON, err := json.Marshal(input.Documents)
	if err != nil {
		return nil, fmt.Errorf("encode document kinds: %w", err)
	}
	snapshotJSON, err := json.Marshal(diff.VersionsSnapshot)
	if err != nil {
		return nil, fmt.Errorf("encode version snapshot: %w", err)
	}

	actorKind := input.Scope.ActorKind()
	notifications := make([]*types.Notification, 0, len(diff.Targets))
	mailJobs := make([]*types.MailJob, 0)
	for _, target := range diff.Targets {
		notifications = append(notifications, &types.Notification{
			ActorID:         target.ActorID,
			ActorKind:       actorKind,
			CampaignID:      campaignID,
			Title:           input.InApp.Title,
			Message:         input.InApp.Message,
			DocumentKinds:   datatypes.JSON(kindsJSON),
			VersionSnapshot: datatypes.JSON(snapshotJSON),
			RequiresAction:  input.RequiresAction,
		})
		if input.Email != nil && target.Email != "" {
			// Targets without an email are skipped, not failed.
			mailJobs = append(mailJobs, &types.MailJob{
				CampaignID: campaignID,
				ActorID:    target.ActorID,
				ActorKind:  actorKind,
				Email:      target.Email,
				Subject:    input.Email.Subject,
				Body:       input.Email.Body,
				Status:     "queued",
			})
		}
	}

	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.notificationRepo.CreateBatch(ctx, tx, notifications); err != nil {
			return fmt.Errorf("create notifications: %w", err)
		}
		if _, err := cs.mailJobRepo.CreateBatch(ctx, tx, mailJobs); err != nil {
			return fmt.Errorf("create mail jobs: %w", err)
		}
		return nil
	}); err != nil {
		cs.log.Warn("Campaign dispatch transaction error", "campaign_id", campaignID, "error", err)
		return nil, err
	}

	if cs.mailQueue != nil {
		for _, job := range mailJobs {
			if err := cs.mailQueue.Enqueue(ctx, types.OutboundEmail{
				JobID:      job.ID,
				CampaignID: job.CampaignID,
				Email:      job.Email,
				Subject:    job.Subject,
				Body:       job.Body,
			}); err != nil {
				cs.log.Warn("Mail queue enqueue failed, job remains queued in db", "job_id", job.ID, "error", err)
			}
		}
	}

	cs.log.Info("Campaign dispatched",
		"campaign_id", campaignID,
		"scope", input.Scope,
		"targets", len(diff.Targets),
		"notifications", len(notifications),
		"emails_queued", len(mailJobs))
	return &DispatchResult{
		CampaignID:   campaignID,
		TargetCount:  len(diff.Targets),
		CreatedCount: len(notifications),
		EmailQueued:  len(mailJobs),
	}, nil
}
