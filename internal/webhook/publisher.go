package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

const (
	webhookQueueKey = "safety_webhook_events"
)

// RedisBroadcaster публикует события в канал Redis для подписанных клиентов служб
// и ставит их в очередь для доставки вебхуком
type RedisBroadcaster struct {
	redisClient redis.Cmdable
	channel     string
	queue       bool
}

// NewRedisBroadcaster создает RedisBroadcaster; при queueWebhooks=false событие только публикуется в канал
func NewRedisBroadcaster(client redis.Cmdable, channel string, queueWebhooks bool) *RedisBroadcaster {
	return &RedisBroadcaster{
		redisClient: client,
		channel:     channel,
		queue:       queueWebhooks,
	}
}

// Publish отправляет событие одним конвейером: PUBLISH в канал и LPUSH в очередь вебхуков
func (p *RedisBroadcaster) Publish(ctx context.Context, event models.BroadcastEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast event: %w", err)
	}

	_, err = p.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, payload)
		if p.queue {
			// LPUSH в левую часть, воркер забирает справа
			pipe.LPush(ctx, webhookQueueKey, payload)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event to Redis: %w", event.Type, err)
	}
	return nil
}
