// Package notifier tells the owner of a new booking about it. Delivery is best
// effort: callers run it detached from the request and only log failures.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/kafka"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/middleware"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"
)

const (
	EventBookingCreated = "booking.created"
	SchemaVersion       = "1"
	Source              = "hotel-booking-server"
)

type Notifier interface {
	NotifyBookingCreated(ctx context.Context, user *model.User, booking *model.Booking) error
}

// BookingCreatedEvent is the payload of a booking.created message.
type BookingCreatedEvent struct {
	BookingID    string    `json:"bookingId"`
	HotelID      string    `json:"hotelId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	UserEmail    string    `json:"userEmail"`
	BookingDate  time.Time `json:"bookingDate"`
	CheckoutDate time.Time `json:"checkoutDate"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewBookingCreatedEvent(user *model.User, booking *model.Booking) BookingCreatedEvent {
	return BookingCreatedEvent{
		BookingID:    booking.ID,
		HotelID:      booking.HotelID,
		UserID:       user.ID,
		UserName:     user.Name,
		UserEmail:    user.Email,
		BookingDate:  booking.BookingDate,
		CheckoutDate: booking.CheckoutDate,
		CreatedAt:    booking.CreatedAt,
	}
}

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes booking events keyed by booking id, so every event for
// one booking lands on the same partition.
type KafkaNotifier struct {
	publisher Publisher
	log       *logger.Logger
}

func NewKafkaNotifier(publisher Publisher, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: publisher,
		log:       log,
	}
}

func (n *KafkaNotifier) NotifyBookingCreated(ctx context.Context, user *model.User, booking *model.Booking) error {
	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(NewBookingCreatedEvent(user, booking)).
		WithEventType(EventBookingCreated).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("build booking event: %w", err)
	}

	if err := n.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish booking event %s: %w", msg.EventID(), err)
	}

	n.log.Debug("Booking event published",
		"event_id", msg.EventID(),
		"booking_id", booking.ID,
	)
	return nil
}

// LogNotifier records the notification instead of sending it. Used when no
// broker is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyBookingCreated(_ context.Context, user *model.User, booking *model.Booking) error {
	n.log.Info("Booking confirmation",
		"booking_id", booking.ID,
		"hotel_id", booking.HotelID,
		"user_id", user.ID,
		"email", user.Email,
		"booking_date", booking.BookingDate.Format(model.DateLayout),
		"checkout_date", booking.CheckoutDate.Format(model.DateLayout),
	)
	return nil
}
