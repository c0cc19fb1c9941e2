package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/repos"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

type NotificationService interface {
	ListForActor(ctx context.Context, actorID uuid.UUID, actorKind string, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID, actorID uuid.UUID) (bool, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{db: db, log: serviceLog, notificationRepo: notificationRepo}
}

func (ns *notificationService) ListForActor(ctx context.Context, actorID uuid.UUID, actorKind string, limit int) ([]*types.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return ns.notificationRepo.ListForActor(ctx, nil, actorID, actorKind, limit)
}

func (ns *notificationService) MarkRead(ctx context.Context, notificationID, actorID uuid.UUID) (bool, error) {
	return ns.notificationRepo.MarkRead(ctx, nil, notificationID, actorID)
}
