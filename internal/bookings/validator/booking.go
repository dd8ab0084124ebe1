package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/go-playground/validator/v10"
)

// MaxNights is the longest stay a single booking may cover.
const MaxNights = 3

const night = 24 * time.Hour

// StayCheck is the result of ValidateStay. NotMoreThanThreeNights is only
// meaningful when BookBeforeCheckout holds.
type StayCheck struct {
	BookBeforeCheckout     bool
	NotMoreThanThreeNights bool
}

func (c StayCheck) OK() bool {
	return c.BookBeforeCheckout && c.NotMoreThanThreeNights
}

// ValidateStay checks the ordering of the two dates and, when ordered, that the
// stay rounds up to at most MaxNights nights.
func ValidateStay(bookingDate, checkoutDate time.Time) StayCheck {
	check := StayCheck{
		BookBeforeCheckout:     bookingDate.Before(checkoutDate),
		NotMoreThanThreeNights: true,
	}
	if !check.BookBeforeCheckout {
		return check
	}

	check.NotMoreThanThreeNights = Nights(bookingDate, checkoutDate) <= MaxNights
	return check
}

// Nights counts started 24 hour periods between two ordered dates.
func Nights(bookingDate, checkoutDate time.Time) int64 {
	diff := checkoutDate.Sub(bookingDate)
	if diff < 0 {
		diff = bookingDate.Sub(checkoutDate)
	}
	// Sub saturates, so round up without adding to diff.
	n := int64(diff / night)
	if diff%night != 0 {
		n++
	}
	return n
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, ", ")
}

var messages = map[string]string{
	"HotelID.required":      "Please add a hotel",
	"HotelID.mongodb":       "Please add a valid hotel id",
	"UserID.required":       "Please add a user",
	"UserID.mongodb":        "Please add a valid user id",
	"BookingDate.required":  "Please add a booking date",
	"CheckoutDate.required": "Please add a checkout date",
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log,
	}
}

// Validate checks the presence and shape of booking fields. Date ordering and
// duration are left to ValidateStay so callers can phrase those failures.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message, ok := messages[err.Field()+"."+err.Tag()]
		if !ok {
			message = fmt.Sprintf("%s is invalid (%s)", err.Field(), err.Tag())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
