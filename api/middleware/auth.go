package middleware

import (
	"net/http"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
)

// TokenSource reports whether a backend bearer token is installed.
type TokenSource interface {
	Token() string
}

// RequireSignIn gates routes that need an authenticated cashier. The gateway
// holds one backend token for the terminal; with no token installed every
// protected call fails fast instead of round-tripping a guaranteed 401.
func RequireSignIn(tokens TokenSource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokens == nil || tokens.Token() == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeSessionExpired, "no cashier is signed in"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
