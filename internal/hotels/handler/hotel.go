package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ReawEiEi/hotel-booking-server/internal/hotels/service"
	"github.com/ReawEiEi/hotel-booking-server/pkg/auth"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	httputil "github.com/ReawEiEi/hotel-booking-server/pkg/http"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	hotelsPath = "/api/v1/hotels"
	hotelPath  = "/api/v1/hotels/:id"
)

type HotelHandler struct {
	service service.HotelService
	auth    *auth.Authenticator
	metrics *metrics.Metrics
	cfg     *config.Config
	log     *logger.Logger
}

func NewHotelHandler(
	service service.HotelService,
	authenticator *auth.Authenticator,
	m *metrics.Metrics,
	cfg *config.Config,
) *HotelHandler {
	return &HotelHandler{
		service: service,
		auth:    authenticator,
		metrics: m,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(hotelsPath, h.metrics.Instrument(hotelsPath, h.List))
	router.GET(hotelPath, h.metrics.Instrument(hotelPath, h.GetByID))
	router.POST(hotelsPath, h.metrics.Instrument(hotelsPath, h.auth.Require(h.Create)))
	router.PUT(hotelPath, h.metrics.Instrument(hotelPath, h.auth.Require(h.Update)))
	router.DELETE(hotelPath, h.metrics.Instrument(hotelPath, h.auth.Require(h.Delete)))
}

func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPage(r, h.cfg)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	hotels, pagination, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteList(w, hotels, pagination); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *HotelHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotel, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	var hotel model.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), actor, &hotel); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, hotel); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	var updates model.HotelUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	hotel, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.ActorFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteSuccess(w, nil); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HotelHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
