// Package queue defines message payloads exchanged over the message broker.
package queue

// Notification kinds carried on the booking.notifications queue.  Every
// message is an envelope whose Kind selects the payload shape.
const (
	KindBookingCreated  = "booking.created"
	KindBookingReminder = "booking.reminder"
	KindEmailVerify     = "email.verify"
)

// Envelope wraps a notification payload with its kind so the consumer
// can dispatch without guessing at field sets.
type Envelope struct {
	Kind            string                `json:"kind"`
	BookingCreated  *BookingCreatedEvent  `json:"booking_created,omitempty"`
	BookingReminder *BookingReminderEvent `json:"booking_reminder,omitempty"`
	EmailVerify     *EmailVerifyEvent     `json:"email_verify,omitempty"`
}

// BookingCreatedEvent is published right after a booking row is
// committed.  It carries enough for downstream consumers to notify the
// guest without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	UserEmail   string `json:"user_email"`
	YurtID      uint64 `json:"yurt_id"`
	YurtName    string `json:"yurt_name"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// BookingReminderEvent is published by the daily reminder sweep for
// each active booking scheduled for the target date.
type BookingReminderEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserEmail   string `json:"user_email"`
	UserPhone   string `json:"user_phone"`
	YurtName    string `json:"yurt_name"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
	Status      string `json:"status"`
}

// EmailVerifyEvent asks the notification worker to send a verification
// link for a freshly registered account.
type EmailVerifyEvent struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
