package refunds

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// Producer interface defines the contract for publishing refund messages
type Producer interface {
	PublishRefund(msg *Message) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka refund producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a new Kafka refund producer. Idempotent writes
// plus the dispatch-id key keep the payment side from double-refunding on
// retries.
func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{producer: producer, config: config}, nil
}

func (p *kafkaProducer) PublishRefund(msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal refund message: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		// Key by booking so all messages for one booking land on one
		// partition, preserving order for the consumer.
		Key:   sarama.StringEncoder(msg.BookingID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("dispatch_id"), Value: []byte(msg.DispatchID.String())},
			{Key: []byte("booking_ref"), Value: []byte(msg.BookingRef)},
			{Key: []byte("producer"), Value: []byte("salonly-refunds")},
		},
		Timestamp: msg.RequestedAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to send refund message to Kafka: %w", err)
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
