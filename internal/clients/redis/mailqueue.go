package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/marketbridge-backend/internal/logger"
	"github.com/yungbote/marketbridge-backend/internal/types"
)

// MailQueue pushes outbound email jobs onto a redis list consumed by the
// delivery pipeline. Queued is the only guarantee this side makes.
type MailQueue struct {
	log   *logger.Logger
	rdb   *goredis.Client
	queue string
}

func NewMailQueue(log *logger.Logger) (*MailQueue, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	queue := strings.TrimSpace(os.Getenv("REDIS_MAIL_QUEUE"))
	if queue == "" {
		queue = "mail:outbound"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &MailQueue{
		log:   log.With("client", "RedisMailQueue"),
		rdb:   rdb,
		queue: queue,
	}, nil
}

func (q *MailQueue) Enqueue(ctx context.Context, email types.OutboundEmail) error {
	if q == nil || q.rdb == nil {
		return fmt.Errorf("redis mail queue not initialized")
	}
	raw, err := json.Marshal(email)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.queue, raw).Err()
}

func (q *MailQueue) Close() error {
	if q == nil || q.rdb == nil {
		return nil
	}
	return q.rdb.Close()
}
