package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ReawEiEi/hotel-booking-server/pkg/access"
	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	httputil "github.com/ReawEiEi/hotel-booking-server/pkg/http"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const notAuthorizedMessage = "Not authorize to access this route"

type actorKey struct{}

// Claims are issued by the identity provider. Role is advisory: when a user
// store is configured the stored role wins.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Authenticator struct {
	secret []byte
	users  UserFinder
	log    *logger.Logger
}

func NewAuthenticator(secret string, users UserFinder, log *logger.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		users:  users,
		log:    log,
	}
}

// Require rejects requests without a valid bearer token and hands the resolved
// actor to next through the request context.
func (a *Authenticator) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, err := a.Authenticate(r)
		if err != nil {
			a.log.Warn("Authentication failed",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err,
			)
			if writeErr := httputil.WriteError(w, apperrors.Unauthorized(notAuthorizedMessage)); writeErr != nil {
				a.log.Error("failed to write error response", "handler", "Require", "operation", "WriteError", "error", writeErr)
			}
			return
		}

		next(w, r.WithContext(WithActor(r.Context(), actor)), ps)
	}
}

func (a *Authenticator) Authenticate(r *http.Request) (access.Actor, error) {
	tokenString, err := bearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return access.Actor{}, err
	}

	claims, err := a.ParseToken(tokenString)
	if err != nil {
		return access.Actor{}, err
	}

	roleValue := claims.Role
	if a.users != nil {
		user, err := a.users.FindByID(r.Context(), claims.ID)
		if err != nil {
			return access.Actor{}, fmt.Errorf("resolve user %s: %w", claims.ID, err)
		}
		roleValue = user.Role
	}

	role, err := access.ParseRole(roleValue)
	if err != nil {
		return access.Actor{}, err
	}

	return access.Actor{ID: claims.ID, Role: role}, nil
}

func (a *Authenticator) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token has no id claim")
	}
	return claims, nil
}

func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("missing bearer token")
	}
	return parts[1], nil
}

func WithActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (access.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(access.Actor)
	return actor, ok
}
