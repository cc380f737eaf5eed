package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	tablesvc "github.com/mohamed-hwerthi/easy-pos/internal/tables"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

type paymentRequest struct {
	Scope    string      `json:"scope" validate:"required"`
	TableID  uuid.UUID   `json:"tableId" validate:"required"`
	ClientID *uuid.UUID  `json:"clientId"`
	Amount   money.Money `json:"amount"`
	Method   string      `json:"method" validate:"required"`
}

// PaymentApply settles part or all of a table's balance with a single tender.
func PaymentApply(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope, err := enums.ParsePaymentScope(payload.Scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment scope"))
			return
		}
		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}
		result, err := svc.ApplyPayment(r.Context(), tablesvc.PaymentInput{
			Scope:    scope,
			TableID:  payload.TableID,
			ClientID: payload.ClientID,
			Amount:   payload.Amount,
			Method:   method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
