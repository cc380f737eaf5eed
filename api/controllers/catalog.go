package controllers

import (
	"net/http"
	"strings"

	"github.com/mohamed-hwerthi/easy-pos/api/responses"
	"github.com/mohamed-hwerthi/easy-pos/api/validators"
	"github.com/mohamed-hwerthi/easy-pos/internal/catalog"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/pagination"
)

// ProductBrowse serves one screen of the product grid, from the backend when
// reachable and from the local cache otherwise.
func ProductBrowse(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
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
		result, err := svc.Browse(r.Context(), catalog.Query{
			CategoryID: strings.TrimSpace(r.URL.Query().Get("categoryId")),
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			Page:       pagination.Params{Page: page, Limit: limit},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CategoryList serves the category filter rail.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}
