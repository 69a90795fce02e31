package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitbook/internal/reservations"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// KafkaProducerConfig contains configuration for the Kafka event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "reservation-events",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaEventProducer publishes reservation lifecycle events to Kafka.
// It implements the reservations.EventPublisher interface.
type KafkaEventProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaEventProducer creates a new Kafka event producer
func NewKafkaEventProducer(config *KafkaProducerConfig) (*KafkaEventProducer, error) {
	saramaConfig := sarama.NewConfig()

	// Producer configuration
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Idempotent writes require a single in-flight request
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one class's events on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka reservation event producer created successfully")
	return &KafkaEventProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishReservationConfirmed publishes a confirmation event
func (p *KafkaEventProducer) PublishReservationConfirmed(ctx context.Context, reservation *reservations.Reservation) error {
	return p.publish(eventFromReservation(ReservationEventConfirmed, reservation))
}

// PublishReservationCancelled publishes a cancellation event
func (p *KafkaEventProducer) PublishReservationCancelled(ctx context.Context, reservation *reservations.Reservation) error {
	return p.publish(eventFromReservation(ReservationEventCancelled, reservation))
}

func (p *KafkaEventProducer) publish(event *ReservationEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal reservation event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send reservation event to Kafka: %w", err)
	}

	log.Printf("📤 Reservation event published - Topic: %s, Partition: %d, Offset: %d, Type: %s",
		p.config.Topic, partition, offset, event.Type)

	return nil
}

// createHeaders creates Kafka headers for reservation events
func (p *KafkaEventProducer) createHeaders(event *ReservationEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("reservation_id"), Value: []byte(event.ReservationID.String())},
		{Key: []byte("class_id"), Value: []byte(event.ClassID.String())},
		{Key: []byte("recipient_email"), Value: []byte(event.RecipientEmail)},
		{Key: []byte("producer"), Value: []byte("fitbook-reservations")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
}

// Close closes the Kafka producer
func (p *KafkaEventProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka reservation event producer closed")
	}
	return nil
}

// HealthCheck validates the producer is configured and serializable
func (p *KafkaEventProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}
	if p.config.Topic == "" {
		return fmt.Errorf("health check failed - topic not configured")
	}
	return nil
}

func eventFromReservation(eventType ReservationEventType, reservation *reservations.Reservation) *ReservationEvent {
	return &ReservationEvent{
		ID:             uuid.New(),
		Type:           eventType,
		ReservationID:  reservation.ID,
		ClassID:        reservation.ClassID,
		UserID:         reservation.UserID,
		UserName:       reservation.UserName,
		RecipientEmail: reservation.UserEmail,
		ClassName:      reservation.ClassName,
		ClassDate:      reservation.ClassDate,
		ClassTime:      reservation.ClassTime,
		OccurredAt:     time.Now().UTC(),
	}
}
