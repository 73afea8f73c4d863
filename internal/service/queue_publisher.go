// Package queue_publisher publishes domain notifications to RabbitMQ.
// Publishing is fire-and-forget from the caller's point of view: errors
// are logged and returned so request handlers can ignore them without
// failing the committed write.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	q "github.com/glampway/yurt-reservation/internal/queue"
)

// PublishBookingCreated enqueues a booking confirmation notification.
func PublishBookingCreated(ctx context.Context, ev q.BookingCreatedEvent) error {
	return publish(ctx, q.Envelope{Kind: q.KindBookingCreated, BookingCreated: &ev})
}

// PublishBookingReminder enqueues a same-day reminder notification.
func PublishBookingReminder(ctx context.Context, ev q.BookingReminderEvent) error {
	return publish(ctx, q.Envelope{Kind: q.KindBookingReminder, BookingReminder: &ev})
}

// PublishEmailVerify enqueues a verification email notification.
func PublishEmailVerify(ctx context.Context, ev q.EmailVerifyEvent) error {
	return publish(ctx, q.Envelope{Kind: q.KindEmailVerify, EmailVerify: &ev})
}

// publish opens a short-lived connection, declares the durable queue
// (idempotent) and publishes one persistent message.
func publish(ctx context.Context, env q.Envelope) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.NotificationQueue, true, false, false, false, nil); err != nil {
		logrus.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: marshal envelope failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", q.NotificationQueue, false, false, pub); err != nil {
		logrus.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
