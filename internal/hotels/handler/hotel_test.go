package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/access"
	"github.com/ReawEiEi/hotel-booking-server/pkg/auth"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret-long-enough"

type stubHotelService struct {
	listFunc func(ctx context.Context, page, limit int) ([]*model.Hotel, *model.Pagination, error)
	err      error
	actor    access.Actor
	deleted  string
}

func (s *stubHotelService) List(ctx context.Context, page, limit int) ([]*model.Hotel, *model.Pagination, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, page, limit)
	}
	return nil, &model.Pagination{}, nil
}

func (s *stubHotelService) GetByID(_ context.Context, id string) (*model.Hotel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Hotel{ID: id, Name: "Riverside"}, nil
}

func (s *stubHotelService) Create(_ context.Context, actor access.Actor, hotel *model.Hotel) error {
	s.actor = actor
	if s.err != nil {
		return s.err
	}
	hotel.ID = "64e1f0c2a1b2c3d4e5f60718"
	return nil
}

func (s *stubHotelService) Update(_ context.Context, actor access.Actor, id string, _ *model.HotelUpdate) (*model.Hotel, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &model.Hotel{ID: id}, nil
}

func (s *stubHotelService) Delete(_ context.Context, actor access.Actor, id string) error {
	s.actor = actor
	s.deleted = id
	return s.err
}

func newRouter(svc *stubHotelService) *httprouter.Router {
	cfg := &config.Config{
		DefaultPageLimit: config.DefaultPageLimit,
		MaxPageLimit:     config.DefaultMaxPageLimit,
		Log:              logger.Discard(),
	}
	authenticator := auth.NewAuthenticator(testSecret, nil, cfg.Log)

	router := httprouter.New()
	NewHotelHandler(svc, authenticator, metrics.New(), cfg).RegisterRoutes(router)
	return router
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	claims := auth.Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(router http.Handler, method, path, authorization, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestList_PassesPagingAndWritesEnvelope(t *testing.T) {
	var gotPage, gotLimit int
	svc := &stubHotelService{
		listFunc: func(_ context.Context, page, limit int) ([]*model.Hotel, *model.Pagination, error) {
			gotPage, gotLimit = page, limit
			return []*model.Hotel{{Name: "A"}, {Name: "B"}}, &model.Pagination{
				Prev: &model.PageRef{Page: 1, Limit: limit},
			}, nil
		},
	}

	w := do(newRouter(svc), http.MethodGet, "/api/v1/hotels?page=2&limit=2", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 2, gotLimit)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Contains(t, body["pagination"], "prev")
	assert.NotContains(t, body["pagination"], "next")
}

func TestList_InvalidPage(t *testing.T) {
	w := do(newRouter(&stubHotelService{}), http.MethodGet, "/api/v1/hotels?page=abc", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestGetByID_NotFound(t *testing.T) {
	svc := &stubHotelService{err: apperrors.NotFoundWithID("hotel", "x")}

	w := do(newRouter(svc), http.MethodGet, "/api/v1/hotels/x", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No hotel with the id of x", decode(t, w)["message"])
}

func TestCreate_RequiresToken(t *testing.T) {
	svc := &stubHotelService{}

	w := do(newRouter(svc), http.MethodPost, "/api/v1/hotels", "", `{"name":"A"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorize to access this route", decode(t, w)["message"])
	assert.Empty(t, svc.actor.ID)
}

func TestCreate_PassesActorAndReturns201(t *testing.T) {
	svc := &stubHotelService{}

	w := do(newRouter(svc), http.MethodPost, "/api/v1/hotels", token(t, "a1", "admin"), `{"name":"Riverside"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, access.Actor{ID: "a1", Role: access.RoleAdmin}, svc.actor)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Riverside", data["name"])
}

func TestCreate_ForbiddenForUsers(t *testing.T) {
	svc := &stubHotelService{err: apperrors.Forbidden("User role user is not authorized to access this route")}

	w := do(newRouter(svc), http.MethodPost, "/api/v1/hotels", token(t, "u1", "user"), `{"name":"Riverside"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreate_InvalidBody(t *testing.T) {
	w := do(newRouter(&stubHotelService{}), http.MethodPost, "/api/v1/hotels", token(t, "a1", "admin"), `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["message"])
}

func TestDelete_ReturnsEmptyData(t *testing.T) {
	svc := &stubHotelService{}

	w := do(newRouter(svc), http.MethodDelete, "/api/v1/hotels/h1", token(t, "a1", "admin"), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "h1", svc.deleted)
	assert.Equal(t, map[string]any{}, decode(t, w)["data"])
}

func TestDelete_ServerErrorHidesCause(t *testing.T) {
	svc := &stubHotelService{err: apperrors.Persistence("Cannot delete Hotel", context.DeadlineExceeded)}

	w := do(newRouter(svc), http.MethodDelete, "/api/v1/hotels/h1", token(t, "a1", "admin"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadline")
}
