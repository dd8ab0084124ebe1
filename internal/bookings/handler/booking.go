package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/internal/bookings/service"
	"github.com/ReawEiEi/hotel-booking-server/pkg/auth"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	httputil "github.com/ReawEiEi/hotel-booking-server/pkg/http"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	bookingsPath      = "/api/v1/bookings"
	bookingPath       = "/api/v1/bookings/:id"
	hotelBookingsPath = "/api/v1/hotels/:id/bookings"
)

// datesRequest is the body of booking create and update calls. Dates are
// YYYY-MM-DD or RFC 3339.
type datesRequest struct {
	BookingDate  *string `json:"bookingDate"`
	CheckoutDate *string `json:"checkoutDate"`
}

func (d datesRequest) parse() (*model.BookingUpdate, error) {
	update := &model.BookingUpdate{}

	parse := func(field string, value *string) (*time.Time, error) {
		if value == nil {
			return nil, nil
		}
		t, err := model.ParseDate(*value)
		if err != nil {
			return nil, apperrors.InvalidInput("Invalid " + field + ": " + err.Error())
		}
		return &t, nil
	}

	var err error
	if update.BookingDate, err = parse("bookingDate", d.BookingDate); err != nil {
		return nil, err
	}
	if update.CheckoutDate, err = parse("checkoutDate", d.CheckoutDate); err != nil {
		return nil, err
	}
	return update, nil
}

type BookingHandler struct {
	service service.BookingService
	auth    *auth.Authenticator
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewBookingHandler(
	service service.BookingService,
	authenticator *auth.Authenticator,
	m *metrics.Metrics,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    authenticator,
		metrics: m,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(bookingsPath, h.metrics.Instrument(bookingsPath, h.auth.Require(h.List)))
	router.GET(hotelBookingsPath, h.metrics.Instrument(hotelBookingsPath, h.auth.Require(h.ListForHotel)))
	router.POST(hotelBookingsPath, h.metrics.Instrument(hotelBookingsPath, h.auth.Require(h.Create)))
	router.GET(bookingPath, h.metrics.Instrument(bookingPath, h.auth.Require(h.GetByID)))
	router.PUT(bookingPath, h.metrics.Instrument(bookingPath, h.auth.Require(h.Update)))
	router.DELETE(bookingPath, h.metrics.Instrument(bookingPath, h.auth.Require(h.Delete)))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, r.URL.Query().Get("hotelId"))
}

func (h *BookingHandler) ListForHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.list(w, r, ps.ByName("id"))
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, hotelID string) {
	actor, _ := auth.ActorFromContext(r.Context())

	bookings, err := h.service.List(r.Context(), actor, hotelID)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteList(w, bookings, nil); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	dates, err := h.decodeDates(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking := &model.Booking{}
	if dates.BookingDate != nil {
		booking.BookingDate = *dates.BookingDate
	}
	if dates.CheckoutDate != nil {
		booking.CheckoutDate = *dates.CheckoutDate
	}

	if err := h.service.Create(r.Context(), actor, ps.ByName("id"), booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	update, err := h.decodeDates(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	booking, err := h.service.Update(r.Context(), actor, ps.ByName("id"), update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteSuccess(w, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) decodeDates(r *http.Request) (*model.BookingUpdate, error) {
	var req datesRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, apperrors.InvalidInput("Invalid request body")
		}
	}
	return req.parse()
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
