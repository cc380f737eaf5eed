package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	cartsvc "github.com/mohamed-hwerthi/easy-pos/internal/cart"
	ordersvc "github.com/mohamed-hwerthi/easy-pos/internal/orders"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

type checkoutRequest struct {
	Method       string       `json:"method" validate:"required"`
	CashReceived *money.Money `json:"cashReceived"`
}

// Checkout settles the cart as a direct counter sale. The cart snapshot and
// the order placement happen in one request so the UI cannot place a sale
// from a stale cart.
func Checkout(cart cartsvc.Service, orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cart == nil || orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		received := money.Zero
		if payload.CashReceived != nil {
			received = *payload.CashReceived
		}

		items, total, err := cart.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := orders.PlaceDirectSale(r.Context(), ordersvc.DirectSaleInput{
			Items:        items,
			Total:        total,
			Method:       method,
			CashReceived: received,
		})
		if err != nil {
			// The cart still holds the sale; the cashier fixes the input
			// and retries.
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart.Commit(r.Context())
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type tableOrderRequest struct {
	ClientID *uuid.UUID `json:"clientId"`
}

// TableCheckout bills the cart to a table as a pending order.
func TableCheckout(cart cartsvc.Service, orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cart == nil || orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		tableID, err := validators.ParsePathID(routeParam(r, "tableID"), "table id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload tableOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, total, err := cart.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.PlaceTableOrder(r.Context(), ordersvc.TableOrderInput{
			TableID:  tableID,
			ClientID: payload.ClientID,
			Items:    items,
			Total:    total,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart.Commit(r.Context())
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
