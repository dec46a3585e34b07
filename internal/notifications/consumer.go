package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"salonly/internal/cancellation"
	"salonly/pkg/logger"
)

// ContactResolver looks up whom to notify about a salon's cancelled booking
type ContactResolver interface {
	SalonContact(ctx context.Context, salonID uuid.UUID) (*SalonContact, error)
}

// SalonContact is the notification target for one salon
type SalonContact struct {
	SalonName  string
	OwnerName  string
	OwnerEmail string
}

// Consumer interface defines the contract for the cancellation-notice consumer
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerConfig contains configuration for the notice consumer
type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topic            string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          brokers,
		GroupID:          groupID,
		Topic:            topic,
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
	}
}

type kafkaConsumer struct {
	group    sarama.ConsumerGroup
	config   *ConsumerConfig
	contacts ContactResolver
	sender   EmailSender
	cancel   context.CancelFunc
}

// NewKafkaConsumer creates a new cancellation-notice consumer
func NewKafkaConsumer(config *ConsumerConfig, contacts ContactResolver, sender EmailSender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:    group,
		config:   config,
		contacts: contacts,
		sender:   sender,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go func() {
		for err := range c.group.Errors() {
			logger.GetDefault().ErrorWithContext(runCtx, "consumer group error", err, nil)
		}
	}()

	go func() {
		handler := &noticeHandler{contacts: c.contacts, sender: c.sender}
		for {
			if err := c.group.Consume(runCtx, []string{c.config.Topic}, handler); err != nil {
				logger.GetDefault().ErrorWithContext(runCtx, "error consuming cancellation notices", err, nil)
				time.Sleep(time.Second)
			}
			if runCtx.Err() != nil {
				return
			}
		}
	}()

	logger.GetDefault().InfoWithContext(ctx, "cancellation notice consumer started", map[string]interface{}{
		"topic": c.config.Topic,
		"group": c.config.GroupID,
	})
	return nil
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

// noticeHandler implements sarama.ConsumerGroupHandler for cancellation notices
type noticeHandler struct {
	contacts ContactResolver
	sender   EmailSender
}

func (h *noticeHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *noticeHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *noticeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *noticeHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	var notice cancellation.Notice
	if err := json.Unmarshal(message.Value, &notice); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to decode cancellation notice", err, map[string]interface{}{
			"offset": message.Offset,
		})
		return
	}

	contact, err := h.contacts.SalonContact(ctx, notice.SalonID)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to resolve salon contact", err, map[string]interface{}{
			"salon_id": notice.SalonID.String(),
		})
		return
	}

	subject, body := buildNoticeEmail(contact, notice)
	if err := h.sender.Send(ctx, contact.OwnerEmail, subject, body); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to send cancellation notice email", err, map[string]interface{}{
			"booking_id": notice.BookingID.String(),
		})
	}
}

func buildNoticeEmail(contact *SalonContact, notice cancellation.Notice) (subject, body string) {
	subject = fmt.Sprintf("Booking %s was cancelled", notice.BookingRef)

	body = fmt.Sprintf(
		"Hi %s,\n\n"+
			"Booking %s at %s was cancelled by the %s on %s.\n"+
			"Reason: %s\n"+
			"Refund to the customer: %.2f INR\n\n"+
			"No action is needed; the slot is available for new bookings.\n",
		contact.OwnerName,
		notice.BookingRef,
		contact.SalonName,
		notice.CancelledBy,
		notice.CancelledAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		notice.ReasonCode,
		float64(notice.RefundPaisa)/100,
	)
	return subject, body
}
