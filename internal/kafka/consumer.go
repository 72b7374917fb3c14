package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	"github.com/nguyentranbao-ct/catalog/internal/models"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog/pkg/util"
)

// ErrInvalidEvent marks messages that could not be decoded into an event.
var ErrInvalidEvent = errors.New("invalid catalog event")

type kafkaConsumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler *groupHandler
	backoff time.Duration
	wg      sync.WaitGroup
}

// NewConsumer creates a consumer group reading the catalog event topic.
func NewConsumer(cfg *config.KafkaConfig, handler EventHandler) (Consumer, error) {
	if !cfg.Enabled {
		return &noopConsumer{}, nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	if cfg.FromOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("init kafka consumer group: %w", err)
	}

	h, err := newGroupHandler(handler, cfg.GroupID, cfg.ConsumeTimeout)
	if err != nil {
		_ = group.Close()
		return nil, err
	}

	return &kafkaConsumer{
		group:   group,
		topic:   cfg.Topic,
		handler: h,
		backoff: cfg.RetryBackoff,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Starting Kafka consumer for topic: %s", c.topic)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			log.Errorw(ctx, "kafka consumer group error", "error", err)
		}
	}()

	for ctx.Err() == nil {
		// Consume returns on every rebalance
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Errorw(ctx, "Error consuming topic", "topic", c.topic, "error", err, "retry_in", c.backoff)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
		}
	}
	return nil
}

func (c *kafkaConsumer) Stop(ctx context.Context) error {
	log.Infof(ctx, "Stopping Kafka consumer")
	err := c.group.Close()
	c.wg.Wait()
	return err
}

// groupHandler implements sarama.ConsumerGroupHandler.
type groupHandler struct {
	handler        EventHandler
	groupID        string
	consumeTimeout time.Duration
	metrics        *prometheus.HistogramVec
}

func newGroupHandler(handler EventHandler, groupID string, timeout time.Duration) (*groupHandler, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_consumed", "status", "topic", "group")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &groupHandler{
		handler:        handler,
		groupID:        groupID,
		consumeTimeout: timeout,
		metrics:        metrics,
	}, nil
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.processMessage(ctx, msg)
			sess.MarkMessage(msg, "")
		}
	}
}

func (h *groupHandler) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) {
	start := time.Now()
	lagMs := start.Sub(msg.Timestamp).Milliseconds()

	duration, err := h.handle(ctx, msg)

	status := statusOf(err)
	args := []any{
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"lag_ms", lagMs,
		"key", string(msg.Key),
	}
	switch status {
	case "ok":
		log.Infow(ctx, "catalog event consumed", args...)
	case "invalid":
		log.Warnw(ctx, "catalog event skipped", append(args, "error", err, "value", json.RawMessage(msg.Value))...)
	default:
		log.Errorw(ctx, "Error processing catalog event", append(args, "error", err)...)
	}

	h.metrics.
		WithLabelValues(status, msg.Topic, h.groupID).
		Observe(duration.Seconds())
}

func (h *groupHandler) handle(msgCtx context.Context, msg *sarama.ConsumerMessage) (duration time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
	}()

	start := time.Now()
	defer func() {
		duration = time.Since(start)
	}()

	var event models.CatalogEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.Type == "" {
		return 0, fmt.Errorf("%w: missing type", ErrInvalidEvent)
	}

	ctx, cancel := context.WithTimeout(msgCtx, h.consumeTimeout)
	defer cancel()

	return 0, h.handler.HandleEvent(ctx, event)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidEvent):
		return "invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// noopConsumer is used when Kafka is disabled
type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Kafka consumer is disabled")
	return nil
}

func (n *noopConsumer) Stop(ctx context.Context) error {
	return nil
}
