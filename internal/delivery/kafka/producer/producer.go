package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	kafka "github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

type Producer interface {
	PublishQueueJoined(ctx context.Context, event kafka.QueueJoinedEvent) error
	PublishQueueLeft(ctx context.Context, event kafka.QueueLeftEvent) error
	PublishQueueAdmitted(ctx context.Context, event kafka.QueueAdmittedEvent) error
	PublishReservationCreated(ctx context.Context, event kafka.ReservationCreatedEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishQueueJoined(ctx context.Context, event kafka.QueueJoinedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicQueueJoined, event.UserID, event)
}

func (p *implProducer) PublishQueueLeft(ctx context.Context, event kafka.QueueLeftEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicQueueLeft, event.UserID, event)
}

func (p *implProducer) PublishQueueAdmitted(ctx context.Context, event kafka.QueueAdmittedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicQueueAdmitted, kafka.TopicQueueAdmitted, event)
}

func (p *implProducer) PublishReservationCreated(ctx context.Context, event kafka.ReservationCreatedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, kafka.TopicReservationCreated, event.TicketID, event)
}

func (p *implProducer) publish(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.publish: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	_, _, err = p.prod.SendMessage(msg)
	return err
}

func (p *implProducer) Close() error {
	if err := p.prod.Close(); err != nil {
		return err
	}

	return nil
}
