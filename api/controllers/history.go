package controllers

import (
	"net/http"
	"strings"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	"github.com/mohamed-hwerthi/easy-pos/internal/history"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/pagination"
)

// HistorySales pages through the open shift's orders, newest first.
func HistorySales(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := history.Query{Page: pagination.Params{Page: page, Limit: limit}}
		if raw := strings.TrimSpace(r.URL.Query().Get("method")); raw != "" {
			method, parseErr := enums.ParsePaymentMethod(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid payment method"))
				return
			}
			query.Method = &method
		}

		sales, err := svc.SessionSales(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}

// HistoryReceipt rebuilds the reprint payload for one order.
func HistoryReceipt(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}
		orderID, err := validators.ParsePathID(routeParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipt, err := svc.Receipt(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
