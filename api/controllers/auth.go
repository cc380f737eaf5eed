package controllers

import (
	"net/http"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	"github.com/mohamed-hwerthi/easy-pos/internal/register"
	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates the cashier against the backend and installs the
// returned token on the terminal.
func Login(client *backend.Client, reg register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil || reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := client.Login(r.Context(), backend.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := reg.SignIn(r.Context(), result.Cashier, result.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cashier": result.Cashier})
	}
}

// Logout drops the token and the cached cashier.
func Logout(client *backend.Client, reg register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client != nil {
			client.Logout()
		}
		if reg != nil {
			reg.SignOut(r.Context())
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed out"})
	}
}
