package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-booking/internal/model"
	"event-booking/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "bookings:stream"
	ConsumerGroupName  = "booking-workers"
	ConsumerNamePrefix = "worker"

	bookingField = "booking"
)

// RedisStreamBookingQueueConfig 可注入的逾時與重試設定；零值時使用預設。
type RedisStreamBookingQueueConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration
}

func defaultRedisStreamConfig() RedisStreamBookingQueueConfig {
	return RedisStreamBookingQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

// RedisClientProvider hands out the shared Redis client, connecting lazily.
type RedisClientProvider interface {
	Acquire(ctx context.Context) (*redis.Client, error)
}

type RedisStreamBookingQueueImpl struct {
	clients      RedisClientProvider
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamBookingQueueConfig
}

// NewRedisStreamBookingQueue 建立 Redis Stream 版 BookingQueue。consumerID 為空時自動產生。
func NewRedisStreamBookingQueue(ctx context.Context, clients RedisClientProvider, consumerID string, config *RedisStreamBookingQueueConfig) (BookingQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}
	q := &RedisStreamBookingQueueImpl{
		clients:      clients,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
	}
	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamBookingQueueImpl) ensureConsumerGroup(ctx context.Context) error {
	client, err := q.clients.Acquire(ctx)
	if err != nil {
		return err
	}
	err = client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (q *RedisStreamBookingQueueImpl) PublishBooking(ctx context.Context, booking *model.Booking) error {
	client, err := q.clients.Acquire(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("marshal booking: %w", err)
	}
	_, err = client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     "*",
		Values: map[string]interface{}{bookingField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamBookingQueueImpl) SubscribeBookings(ctx context.Context) (<-chan Delivery, error) {
	client, err := q.clients.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		done := make(chan struct{})
		go func() {
			defer close(done)
			q.runAutoClaim(ctx, client, out)
		}()
		q.runReadLoop(ctx, client, out)
		<-done
	}()
	return out, nil
}

func (q *RedisStreamBookingQueueImpl) runReadLoop(ctx context.Context, client *redis.Client, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, client, out)
		}
	}
}

// readAndDeliver 只讀 ">"（新訊息）；已投遞過的 Pending 訊息由 XAUTOCLAIM 超時後領回重試。
func (q *RedisStreamBookingQueueImpl) readAndDeliver(ctx context.Context, client *redis.Client, out chan<- Delivery) {
	streams, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			d := q.newDelivery(ctx, client, msg)
			if d == nil {
				continue
			}
			select {
			case out <- *d:
			case <-ctx.Done():
				return
			}
		}
	}
}

// shouldRetry 判斷領回的訊息是否已超過重試上限（毒藥消息）
func (q *RedisStreamBookingQueueImpl) shouldRetry(ctx context.Context, client *redis.Client, messageID string) bool {
	n, err := q.retryCount(ctx, client, messageID)
	if err != nil {
		logger.WithComponent("mq").Warn("retryCount failed", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	if n >= q.cfg.MaxRetryCount {
		logger.WithComponent("mq").Warn("discard poison message",
			zap.String("message_id", messageID), zap.Int("retries", n), zap.Int("max_retries", q.cfg.MaxRetryCount))
		_ = client.XAck(ctx, q.streamKey, q.groupName, messageID).Err()
		return false
	}
	return true
}

func (q *RedisStreamBookingQueueImpl) retryCount(ctx context.Context, client *redis.Client, messageID string) (int, error) {
	pending, err := client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

// runAutoClaim 定時用 XAUTOCLAIM 領取超時未 Ack 的消息
func (q *RedisStreamBookingQueueImpl) runAutoClaim(ctx context.Context, client *redis.Client, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && !errors.Is(err, redis.Nil) {
				if ctx.Err() != nil {
					return
				}
				logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if !q.shouldRetry(ctx, client, msg.ID) {
					continue
				}
				d := q.newDelivery(ctx, client, msg)
				if d == nil {
					continue
				}
				select {
				case out <- *d:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// newDelivery 從 Redis 消息組裝 Delivery；無法解析的訊息直接 Ack 丟棄
func (q *RedisStreamBookingQueueImpl) newDelivery(ctx context.Context, client *redis.Client, msg redis.XMessage) *Delivery {
	log := logger.WithComponent("mq").With(zap.String("message_id", msg.ID))
	raw, ok := msg.Values[bookingField].(string)
	if !ok {
		log.Warn("invalid message: missing booking field")
		_ = client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil
	}
	var booking model.Booking
	if err := json.Unmarshal([]byte(raw), &booking); err != nil {
		log.Warn("unmarshal booking failed", zap.Error(err))
		_ = client.XAck(ctx, q.streamKey, q.groupName, msg.ID).Err()
		return nil
	}
	msgID := msg.ID
	return &Delivery{
		Data: &booking,
		Ack: func() {
			if err := client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				log.Error("XAck failed", zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 留在 PEL，等 ClaimMinIdleTime 後由 XAUTOCLAIM 領取，形成延遲重試
				log.Info("message nack(requeue), will retry", zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime))
				return
			}
			if err := client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				log.Error("XAck discard failed", zap.Error(err))
			}
		},
	}
}
