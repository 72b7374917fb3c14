package events

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	"github.com/nguyentranbao-ct/catalog/internal/models"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
)

// Publisher emits catalog change events.
type Publisher interface {
	Publish(ctx context.Context, event models.CatalogEvent) error
	Close() error
}

// NewPublisher returns a Kafka backed publisher, or a no-op one when Kafka is
// disabled.
func NewPublisher(lc fx.Lifecycle, cfg *config.Config) (Publisher, error) {
	if !cfg.Kafka.Enabled {
		return noopPublisher{}, nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = cfg.Kafka.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("init kafka producer: %w", err)
	}

	p := NewKafkaPublisher(producer, cfg.Kafka.Topic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
	return p, nil
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event models.CatalogEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Key()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	log.Debugw(ctx, "catalog event published",
		"type", event.Type,
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.CatalogEvent) error { return nil }
func (noopPublisher) Close() error                                       { return nil }
