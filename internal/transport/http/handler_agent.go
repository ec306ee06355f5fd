package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appagent "evora-mesh/internal/app/agent"
	apporder "evora-mesh/internal/app/order"
	apptrust "evora-mesh/internal/app/trust"
	"evora-mesh/internal/store"

	"github.com/go-chi/chi/v5"
)

type AgentHandlers struct {
	agentSvc *appagent.Service
	trustSvc *apptrust.Service
	orderSvc *apporder.Service
	store    *store.Store
}

func NewAgentHandlers(agentSvc *appagent.Service, trustSvc *apptrust.Service, orderSvc *apporder.Service, st *store.Store) *AgentHandlers {
	return &AgentHandlers{agentSvc: agentSvc, trustSvc: trustSvc, orderSvc: orderSvc, store: st}
}

func (h *AgentHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appagent.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.agentSvc.Register(r.Context(), in)
		if err != nil {
			if errors.Is(err, appagent.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AgentHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		resp, err := h.agentSvc.Me(r.Context(), caller)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type createOfferInput struct {
	ProductID     string `json:"product_id"`
	OriginAgentID string `json:"origin_agent_id"`
	PriceCents    int64  `json:"price_cents"`
	Quantity      int64  `json:"quantity"`
}

// CreateOffer lists a product for the calling agent. Origin defaults to
// the caller (a direct listing); naming another agent creates a markup
// re-listing of that agent's stock.
func (h *AgentHandlers) CreateOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		var in createOfferInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ProductID == "" || in.PriceCents <= 0 || in.Quantity < 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		origin := in.OriginAgentID
		if origin == "" {
			origin = caller.ID
		}
		if _, err := h.store.GetProduct(r.Context(), in.ProductID); err != nil {
			WriteHTTPError(w, http.StatusNotFound, "product_not_found")
			return
		}
		id, err := h.store.CreateOffer(r.Context(), in.ProductID, origin, caller.ID, in.PriceCents, in.Quantity)
		if err != nil {
			WriteHTTPError(w, http.StatusConflict, "offer_exists")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"offer_id": id})
	}
}

func (h *AgentHandlers) DeactivateOffer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		if err := h.store.DeactivateOffer(r.Context(), chi.URLParam(r, "offer_id"), caller.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "offer_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func writeTrustError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apptrust.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, apptrust.ErrInvalidSplit):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_split")
	case errors.Is(err, apptrust.ErrAgentNotFound):
		WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
	case errors.Is(err, apptrust.ErrTrustlineNotFound):
		WriteHTTPError(w, http.StatusNotFound, "trustline_not_found")
	case errors.Is(err, apptrust.ErrNotParticipant), errors.Is(err, apptrust.ErrSelfAcceptance):
		WriteHTTPError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, apptrust.ErrAlreadyResolved), errors.Is(err, apptrust.ErrDuplicatePair):
		WriteHTTPError(w, http.StatusConflict, "conflict")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func (h *AgentHandlers) ProposeTrustline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		var in apptrust.ProposeInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.trustSvc.Propose(r.Context(), caller, in)
		if err != nil {
			writeTrustError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AgentHandlers) AcceptTrustline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		resp, err := h.trustSvc.Accept(r.Context(), caller, chi.URLParam(r, "trustline_id"))
		if err != nil {
			writeTrustError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AgentHandlers) RejectTrustline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		resp, err := h.trustSvc.Reject(r.Context(), caller, chi.URLParam(r, "trustline_id"))
		if err != nil {
			writeTrustError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AgentHandlers) Trustlines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := AgentFromContext(r.Context())
		limit, offset := ParsePagination(r)
		resp, err := h.trustSvc.List(r.Context(), caller, limit, offset)
		if err != nil {
			writeTrustError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apporder.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, apporder.ErrNoOfferAvailable):
		WriteHTTPError(w, http.StatusNotFound, "no_offer_available")
	case errors.Is(err, apporder.ErrOrderNotFound):
		WriteHTTPError(w, http.StatusNotFound, "order_not_found")
	case errors.Is(err, apporder.ErrInsufficientStock):
		WriteHTTPError(w, http.StatusConflict, "insufficient_stock")
	case errors.Is(err, apporder.ErrAlreadySettled):
		WriteHTTPError(w, http.StatusConflict, "already_settled")
	case errors.Is(err, apporder.ErrNotConfirmed):
		WriteHTTPError(w, http.StatusConflict, "order_not_confirmed")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func (h *AgentHandlers) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in apporder.ProcessInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		metricOrderCreateTotal.Add(1)
		resp, err := h.orderSvc.Process(r.Context(), in)
		if err != nil {
			metricOrderCreateErrors.Add(1)
			writeOrderError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AgentHandlers) ConfirmOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.orderSvc.Confirm(r.Context(), chi.URLParam(r, "order_id"))
		if err != nil {
			writeOrderError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
