package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/access"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-length"

type stubUsers map[string]*model.User

func (s stubUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(id, role string) Claims {
	return Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func serve(a *Authenticator, header string) (*httptest.ResponseRecorder, *access.Actor) {
	var seen *access.Actor
	h := a.Require(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		actor, ok := ActorFromContext(r.Context())
		if ok {
			seen = &actor
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h(w, req, nil)
	return w, seen
}

func TestRequire_ValidTokenUsesStoredRole(t *testing.T) {
	users := stubUsers{"u1": {ID: "u1", Role: "admin"}}
	a := NewAuthenticator(testSecret, users, logger.Discard())

	w, actor := serve(a, "Bearer "+sign(t, testSecret, validClaims("u1", "user")))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, actor)
	assert.Equal(t, access.Actor{ID: "u1", Role: access.RoleAdmin}, *actor)
}

func TestRequire_ClaimRoleWithoutUserStore(t *testing.T) {
	a := NewAuthenticator(testSecret, nil, logger.Discard())

	w, actor := serve(a, "Bearer "+sign(t, testSecret, validClaims("u2", "user")))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, actor)
	assert.Equal(t, access.RoleUser, actor.Role)
}

func TestRequire_Rejections(t *testing.T) {
	users := stubUsers{
		"u1":  {ID: "u1", Role: "user"},
		"odd": {ID: "odd", Role: "publisher"},
	}
	a := NewAuthenticator(testSecret, users, logger.Discard())

	expired := validClaims("u1", "user")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + sign(t, "another-secret-entirely", validClaims("u1", "user"))},
		{"expired", "Bearer " + sign(t, testSecret, expired)},
		{"missing id", "Bearer " + sign(t, testSecret, validClaims("", "user"))},
		{"unknown user", "Bearer " + sign(t, testSecret, validClaims("ghost", "user"))},
		{"unknown role", "Bearer " + sign(t, testSecret, validClaims("odd", "user"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, actor := serve(a, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Nil(t, actor)
			assert.Contains(t, w.Body.String(), notAuthorizedMessage)
		})
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	a := NewAuthenticator(testSecret, nil, logger.Discard())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims("u1", "user")).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = a.ParseToken(token)
	assert.Error(t, err)
}
