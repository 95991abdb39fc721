package middleware

import (
	"net/http"

	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
)

// RequireAdmin rejects requests whose actor is not admin or super_admin.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ActorFromContext(r.Context()).IsAdmin() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Unauthorized Request"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
