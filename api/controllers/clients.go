package controllers

import (
	"net/http"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	tablesvc "github.com/mohamed-hwerthi/easy-pos/internal/tables"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
)

type addClientRequest struct {
	Name string `json:"name"`
}

// ClientAdd seats a guest at the table; an empty name gets a default.
func ClientAdd(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		var payload addClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		client, err := svc.AddClient(r.Context(), tableID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, client)
	}
}

type renameClientRequest struct {
	Name string `json:"name" validate:"required"`
}

// ClientRename changes a guest's display name.
func ClientRename(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		clientID, err := validators.ParsePathID(routeParam(r, "clientID"), "client id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload renameClientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		client, err := svc.RenameClient(r.Context(), tableID, clientID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, client)
	}
}

// ClientPaymentList returns the tenders recorded against one guest.
func ClientPaymentList(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table service unavailable"))
			return
		}
		clientID, err := validators.ParsePathID(routeParam(r, "clientID"), "client id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payments, err := svc.ClientPayments(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments)
	}
}

// ClientRemove detaches a settled guest from the table.
func ClientRemove(svc tablesvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		clientID, err := validators.ParsePathID(routeParam(r, "clientID"), "client id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveClient(r.Context(), tableID, clientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
