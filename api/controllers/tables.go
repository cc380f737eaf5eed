package controllers

import (
	"net/http"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	tablesvc "github.com/mohamed-hwerthi/easy-pos/internal/tables"
	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
)

// TableList returns the whole floor.
func TableList(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		tables, err := svc.ListFloor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tables)
	}
}

// TableDetail returns one table with recomputed amounts and statuses.
func TableDetail(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		tableID, err := validators.ParsePathID(routeParam(r, "tableID"), "table id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetDetail(r.Context(), tableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type createTableRequest struct {
	TableNumber string `json:"tableNumber" validate:"required"`
	QRCode      string `json:"qrCode"`
}

// TableCreate registers a new table.
func TableCreate(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		var payload createTableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := svc.Create(r.Context(), payload.TableNumber, payload.QRCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, table)
	}
}

type updateTableRequest struct {
	TableNumber *string `json:"tableNumber"`
	Status      *string `json:"status"`
	QRCode      *string `json:"qrCode"`
}

// TableUpdate applies a partial table update.
func TableUpdate(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		tableID, err := validators.ParsePathID(routeParam(r, "tableID"), "table id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateTableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := backend.UpdateTableInput{
			TableNumber: payload.TableNumber,
			QRCode:      payload.QRCode,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseTableStatus(*payload.Status)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid table status"))
				return
			}
			input.Status = &status
		}

		table, err := svc.Update(r.Context(), tableID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

// TableDelete removes a settled table.
func TableDelete(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		tableID, err := validators.ParsePathID(routeParam(r, "tableID"), "table id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), tableID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// TableOccupy seats a party at a free table.
func TableOccupy(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		tableID, err := validators.ParsePathID(routeParam(r, "tableID"), "table id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := svc.Occupy(r.Context(), tableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

// TableClear detaches clients and frees a settled table.
func TableClear(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		tableID, err := validators.ParsePathID(routeParam(r, "tableID"), "table id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := svc.Clear(r.Context(), tableID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

// TableStatistics returns the floor summary counters.
func TableStatistics(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		stats, err := svc.Statistics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
