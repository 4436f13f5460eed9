package repository

import (
	"context"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	pkgkafka "github.com/Bean0-0/tli-strategy-app/pkg/kafka"
)

// KafkaPublisher publishes completed evaluations for downstream consumers.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ repository.Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a Kafka evaluation publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishEvaluation(ctx context.Context, rec *models.EvaluationRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Symbol), rec)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher is used when Kafka is disabled in config.
type NoopPublisher struct{}

var _ repository.Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishEvaluation(ctx context.Context, rec *models.EvaluationRecord) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
