package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"salonly/internal/cancellation"
)

// Publisher interface defines the contract for publishing cancellation notices
type Publisher interface {
	PublishCancellationNotice(ctx context.Context, notice cancellation.Notice) error
	Close() error
}

// PublisherConfig contains configuration for the Kafka notice publisher
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	TimeoutMs    int
	RequiredAcks sarama.RequiredAcks
}

// DefaultPublisherConfig returns a default publisher configuration
func DefaultPublisherConfig(brokers []string, topic string) *PublisherConfig {
	return &PublisherConfig{
		Brokers:      brokers,
		Topic:        topic,
		RetryMax:     3,
		TimeoutMs:    10000,
		RequiredAcks: sarama.WaitForAll,
	}
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	config   *PublisherConfig
}

// NewKafkaPublisher creates a new Kafka cancellation-notice publisher
func NewKafkaPublisher(config *PublisherConfig) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &kafkaPublisher{producer: producer, config: config}, nil
}

func (p *kafkaPublisher) PublishCancellationNotice(ctx context.Context, notice cancellation.Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal cancellation notice: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		// Key by salon so one salon's notices stay ordered on one partition.
		Key:   sarama.StringEncoder(notice.SalonID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("booking_id"), Value: []byte(notice.BookingID.String())},
			{Key: []byte("producer"), Value: []byte("salonly-cancellations")},
		},
		Timestamp: notice.CancelledAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to send cancellation notice to Kafka: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka publisher: %w", err)
		}
	}
	return nil
}
