package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/go-playground/validator/v10"
)

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

// Messages keyed by "<Field>.<tag>". Clients match on these strings.
var messages = map[string]string{
	"Name.required":       "Please add a name",
	"Name.max":            "Name cannot be more than 50 characters",
	"Address.required":    "Please add an address",
	"District.required":   "Please add a district",
	"Province.required":   "Please add a province",
	"PostalCode.required": "Please add a postalcode",
	"PostalCode.max":      "Postalcode cannot be more than 5 digits",
	"Picture.required":    "Please add URL to hotel picture",
	"Picture.url":         "Please add a valid URL to hotel picture",
}

type HotelValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHotelValidator(log *logger.Logger) *HotelValidator {
	log.Info("Hotel validator initialized successfully")

	return &HotelValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log,
	}
}

func (v *HotelValidator) Validate(hotel *model.Hotel) error {
	if err := v.validate.Struct(hotel); err != nil {
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
			message = fmt.Sprintf("%s is invalid (%s)", strings.ToLower(err.Field()), err.Tag())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   strings.ToLower(err.Field()),
			Message: message,
		})
	}

	return validationErrors
}
