package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apporder "evora-mesh/internal/app/order"
	"evora-mesh/internal/ledger"
	"evora-mesh/internal/store"

	"github.com/go-chi/chi/v5"
)

type AdminHandlers struct {
	store    *store.Store
	ledger   *ledger.Ledger
	orderSvc *apporder.Service
}

func NewAdminHandlers(st *store.Store, led *ledger.Ledger, orderSvc *apporder.Service) *AdminHandlers {
	return &AdminHandlers{store: st, ledger: led, orderSvc: orderSvc}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "db_unreachable")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) Agents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.store.ListAgents(r.Context(), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		type agentItem struct {
			AgentID      string  `json:"agent_id"`
			Name         string  `json:"name"`
			CanShopper   bool    `json:"can_act_as_shopper"`
			CanKeeper    bool    `json:"can_act_as_keeper"`
			Verified     bool    `json:"verified"`
			ShopperScore float64 `json:"shopper_score"`
			KeeperScore  float64 `json:"keeper_score"`
			Status       string  `json:"status"`
		}
		out := make([]agentItem, 0, len(items))
		for _, a := range items {
			out = append(out, agentItem{
				AgentID:      a.ID,
				Name:         a.Name,
				CanShopper:   a.CanShopper,
				CanKeeper:    a.CanKeeper,
				Verified:     a.Verified,
				ShopperScore: a.ShopperScore,
				KeeperScore:  a.KeeperScore,
				Status:       a.Status,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": out, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.LedgerFilter{
			AgentID: r.URL.Query().Get("agent_id"),
			OrderID: r.URL.Query().Get("order_id"),
		}
		if v := r.URL.Query().Get("from"); v != "" {
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				f.From = &ts
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				f.To = &ts
			}
		}
		items, err := h.ledger.Entries(r.Context(), f, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Settlements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.store.ListSettlements(r.Context(), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

type createClientInput struct {
	Name        string `json:"name"`
	ExternalRef string `json:"external_ref"`
}

func (h *AdminHandlers) CreateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createClientInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		id, err := h.store.CreateClient(r.Context(), in.Name, in.ExternalRef)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"client_id": id})
	}
}

type createProductInput struct {
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	BasePriceCents int64  `json:"base_price_cents"`
}

func (h *AdminHandlers) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createProductInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" || in.BasePriceCents <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		id, err := h.store.CreateProduct(r.Context(), in.Name, in.SKU, in.BasePriceCents)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"product_id": id})
	}
}

type createRelationInput struct {
	ClientID string  `json:"client_id"`
	AgentID  string  `json:"agent_id"`
	Strength float64 `json:"strength"`
}

// CreateRelation seeds an ownership edge, typically from a CRM import.
func (h *AdminHandlers) CreateRelation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in createRelationInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ClientID == "" || in.AgentID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if _, err := h.store.GetClient(r.Context(), in.ClientID); err != nil {
			WriteHTTPError(w, http.StatusNotFound, "client_not_found")
			return
		}
		if _, err := h.store.GetAgentByID(r.Context(), in.AgentID); err != nil {
			WriteHTTPError(w, http.StatusNotFound, "agent_not_found")
			return
		}
		id, err := h.store.CreateClientRelation(r.Context(), in.ClientID, in.AgentID, in.Strength)
		if err != nil {
			WriteHTTPError(w, http.StatusConflict, "relation_exists")
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"relation_id": id})
	}
}

type adjustRelationInput struct {
	Strength *float64 `json:"strength"`
	Status   *string  `json:"status"`
}

func (h *AdminHandlers) AdjustRelation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in adjustRelationInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || (in.Strength == nil && in.Status == nil) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if in.Status != nil && *in.Status != store.RelationActive && *in.Status != store.RelationInactive {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		err := h.store.AdjustClientRelation(r.Context(), chi.URLParam(r, "relation_id"), in.Strength, in.Status)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "relation_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// CloseOrder is the payment-confirmation entrypoint: it records the final
// price and produces the settlement.
func (h *AdminHandlers) CloseOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in apporder.CloseInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.orderSvc.Close(r.Context(), chi.URLParam(r, "order_id"), in)
		if err != nil {
			writeOrderError(w, err)
			return
		}
		metricSettlementTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
