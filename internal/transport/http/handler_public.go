package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appcatalog "evora-mesh/internal/app/catalog"
	"evora-mesh/internal/resolver"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	catalogSvc *appcatalog.Service
}

func NewPublicHandlers(catalogSvc *appcatalog.Service) *PublicHandlers {
	return &PublicHandlers{catalogSvc: catalogSvc}
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appcatalog.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, appcatalog.ErrClientNotFound):
		WriteHTTPError(w, http.StatusNotFound, "client_not_found")
	case errors.Is(err, appcatalog.ErrProductNotFound):
		WriteHTTPError(w, http.StatusNotFound, "product_not_found")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func (h *PublicHandlers) Products() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.catalogSvc.Products(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Owner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.catalogSvc.Owner(r.Context(), chi.URLParam(r, "client_id"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Offer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.catalogSvc.Offer(r.Context(), chi.URLParam(r, "client_id"), chi.URLParam(r, "product_id"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		metricResolveTotal.Add(1)
		if resp.Trace.Has(resolver.ReasonCheapestFallback) {
			metricResolveFallbackTotal.Add(1)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Roles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.catalogSvc.Roles(r.Context(), chi.URLParam(r, "client_id"), chi.URLParam(r, "product_id"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		metricResolveTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Catalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.catalogSvc.Catalog(r.Context(), chi.URLParam(r, "client_id"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		metricCatalogBuildTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
