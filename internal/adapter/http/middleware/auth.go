package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

var errAuthHeader = types.ErrUnauthenticated.WithMessage("invalid Authorization header format")

// Auth resolves the bearer token into an actor and stores it in the request context.
// Requests without a header continue as the anonymous actor; public routes accept it,
// RequireRoles rejects it.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(models.WithActor(ctx, models.AnonymousActor)))
			return
		}

		token, err := ExtractBearerToken(header)
		if err != nil {
			unauthorized(w, err)
			return
		}

		actor, err := m.identity.Resolve(ctx, token)
		if err != nil || actor == nil {
			if err == nil {
				err = types.ErrUnauthenticated
			}
			m.log.Warn(wrap.ErrorCtx(ctx, err), "failed to authenticate caller", "error", err.Error())
			unauthorized(w, err)
			return
		}

		ctx = wrap.WithUserID(ctx, actor.ID.String())
		next.ServeHTTP(w, r.WithContext(models.WithActor(ctx, actor)))
	})
}

// RequireRoles allows only authenticated actors holding one of the given roles.
// An empty role list admits any authenticated actor.
func (m *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := models.ActorFromContext(r.Context())
		if actor.IsAnonymous() {
			unauthorized(w, types.ErrUnauthenticated)
			return
		}
		if len(allowedRoles) > 0 && !actor.HasRole(allowedRoles...) {
			errorResponse(w, http.StatusForbidden, envelope{
				"kind":    types.ErrForbidden.Kind,
				"code":    types.ErrForbidden.Code,
				"message": "insufficient role",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, err error) {
	e := types.ErrUnauthenticated
	var te *types.Error
	if errors.As(err, &te) {
		e = te
	}
	errorResponse(w, http.StatusUnauthorized, envelope{
		"kind":    e.Kind,
		"code":    e.Code,
		"message": e.Message,
	})
}

// ExtractBearerToken returns the token part of a "Bearer <token>" header.
func ExtractBearerToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errAuthHeader
	}
	return strings.TrimSpace(parts[1]), nil
}
