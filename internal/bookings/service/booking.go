package service

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "github.com/ReawEiEi/hotel-booking-server/internal/bookings/errors"
	"github.com/ReawEiEi/hotel-booking-server/internal/bookings/notifier"
	"github.com/ReawEiEi/hotel-booking-server/internal/bookings/repository"
	"github.com/ReawEiEi/hotel-booking-server/internal/bookings/validator"
	hotelserrors "github.com/ReawEiEi/hotel-booking-server/internal/hotels/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/access"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	"github.com/ReawEiEi/hotel-booking-server/pkg/dispatch"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"
)

const (
	MsgCheckoutAfterBooking = "The checkout date should be after the booking date."
	MsgBookingDateNotBefore = "Cannot change booking date to be after or same as checkout date."
	MsgCheckoutDateNotAfter = "Cannot change checkout date to be before or same as booking date."
	MsgTooManyNights        = "Sorry, You can only book up to 3 nights."

	notificationTaskName = "booking.created"
	bookingResource      = "booking"
	hotelResource        = "hotel"
)

type HotelFinder interface {
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Submitter interface {
	Submit(parent context.Context, name string, task dispatch.Task) bool
}

type BookingService interface {
	List(ctx context.Context, actor access.Actor, hotelID string) ([]*model.BookingView, error)
	GetByID(ctx context.Context, actor access.Actor, id string) (*model.BookingView, error)
	Create(ctx context.Context, actor access.Actor, hotelID string, booking *model.Booking) error
	Update(ctx context.Context, actor access.Actor, id string, update *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, actor access.Actor, id string) error
}

type bookingService struct {
	repo       repository.BookingRepository
	hotels     HotelFinder
	users      UserFinder
	validator  *validator.BookingValidator
	notifier   notifier.Notifier
	dispatcher Submitter
	metrics    *metrics.Metrics
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	hotels HotelFinder,
	users UserFinder,
	validator *validator.BookingValidator,
	notifier notifier.Notifier,
	dispatcher Submitter,
	m *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		hotels:     hotels,
		users:      users,
		validator:  validator,
		notifier:   notifier,
		dispatcher: dispatcher,
		metrics:    m,
		cfg:        cfg,
	}
}

// List returns every booking for admins and only the actor's own bookings
// otherwise. hotelID narrows either listing when set.
func (s *bookingService) List(ctx context.Context, actor access.Actor, hotelID string) ([]*model.BookingView, error) {
	filter := model.BookingFilter{HotelID: hotelID}
	if actor.IsAdmin() {
		filter.IncludeUser = true
	} else {
		filter.UserID = actor.ID
	}

	views, err := s.repo.FindViews(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings",
			"actor_id", actor.ID,
			"hotel_id", hotelID,
			"error", err,
		)
		return nil, apperrors.Persistence("Cannot find Booking", err)
	}
	return views, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor access.Actor, id string) (*model.BookingView, error) {
	if _, err := s.authorize(ctx, actor, id, access.Read); err != nil {
		return nil, err
	}

	view, err := s.repo.FindView(ctx, id, true)
	if err != nil {
		return nil, s.translate(err, id, "Cannot find Booking")
	}
	return view, nil
}

func (s *bookingService) Create(ctx context.Context, actor access.Actor, hotelID string, booking *model.Booking) error {
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		if errors.Is(err, hotelserrors.ErrNotFound) || errors.Is(err, hotelserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID(hotelResource, hotelID)
		}
		s.cfg.Log.Error("Failed to look up hotel for booking",
			"hotel_id", hotelID,
			"error", err,
		)
		return apperrors.Persistence("Cannot create Booking", err)
	}

	booking.HotelID = hotelID
	booking.UserID = actor.ID

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"hotel_id", hotelID,
			"user_id", actor.ID,
			"error", err,
		)
		return fieldsError(err)
	}

	check := validator.ValidateStay(booking.BookingDate, booking.CheckoutDate)
	if err := stayError(check, MsgCheckoutAfterBooking); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"hotel_id", hotelID,
			"user_id", actor.ID,
			"error", err,
		)
		return apperrors.Persistence("Cannot create Booking", err)
	}

	s.metrics.BookingCreated()
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"hotel_id", hotelID,
		"user_id", actor.ID,
	)

	s.notify(ctx, *booking)
	return nil
}

// Update changes only the booking and checkout dates. A missing side is taken
// from the stored booking before the stay is checked.
func (s *bookingService) Update(ctx context.Context, actor access.Actor, id string, update *model.BookingUpdate) (*model.Booking, error) {
	existing, err := s.authorize(ctx, actor, id, access.Update)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return existing, nil
	}

	bookingDate, checkoutDate := existing.BookingDate, existing.CheckoutDate
	orderingMessage := MsgCheckoutAfterBooking
	switch {
	case update.BookingDate != nil && update.CheckoutDate != nil:
		bookingDate, checkoutDate = *update.BookingDate, *update.CheckoutDate
	case update.BookingDate != nil:
		bookingDate = *update.BookingDate
		orderingMessage = MsgBookingDateNotBefore
	default:
		checkoutDate = *update.CheckoutDate
		orderingMessage = MsgCheckoutDateNotAfter
	}

	if err := stayError(validator.ValidateStay(bookingDate, checkoutDate), orderingMessage); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateDates(ctx, id, bookingDate, checkoutDate)
	if err != nil {
		return nil, s.translate(err, id, "Cannot update Booking")
	}

	s.cfg.Log.Info("Booking updated successfully",
		"id", id,
		"actor_id", actor.ID,
	)
	return updated, nil
}

func (s *bookingService) Delete(ctx context.Context, actor access.Actor, id string) error {
	if _, err := s.authorize(ctx, actor, id, access.Delete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "Cannot delete Booking")
	}

	s.cfg.Log.Info("Booking deleted successfully",
		"id", id,
		"actor_id", actor.ID,
	)
	return nil
}

// authorize loads the booking and checks actor may perform op on it. A missing
// booking is reported before any ownership failure.
func (s *bookingService) authorize(ctx context.Context, actor access.Actor, id string, op access.Operation) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Cannot find Booking")
	}

	if !access.CanAccess(actor, booking.UserID, op) {
		s.cfg.Log.Warn("Booking access denied",
			"id", id,
			"actor_id", actor.ID,
			"operation", string(op),
		)
		return nil, apperrors.Unauthorized(fmt.Sprintf("User %s is not authorized to %s this booking", actor.ID, op))
	}
	return booking, nil
}

func (s *bookingService) notify(ctx context.Context, booking model.Booking) {
	accepted := s.dispatcher.Submit(ctx, notificationTaskName, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, booking.UserID)
		if err != nil {
			return fmt.Errorf("load user %s: %w", booking.UserID, err)
		}
		return s.notifier.NotifyBookingCreated(ctx, user, &booking)
	})
	if !accepted {
		s.cfg.Log.Warn("Booking notification dropped", "id", booking.ID)
	}
}

func (s *bookingService) translate(err error, id, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound), errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.NotFoundWithID(bookingResource, id)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Persistence(message, err)
	}
}

func stayError(check validator.StayCheck, orderingMessage string) error {
	if !check.BookBeforeCheckout {
		return apperrors.Validation(orderingMessage, map[string]any{"reason": apperrors.ReasonOrdering})
	}
	if !check.NotMoreThanThreeNights {
		return apperrors.Validation(MsgTooManyNights, map[string]any{"reason": apperrors.ReasonDuration})
	}
	return nil
}

func fieldsError(err error) error {
	details := map[string]any{"reason": apperrors.ReasonFields}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details["fields"] = fieldErrs
	}
	return apperrors.Validation(err.Error(), details)
}
