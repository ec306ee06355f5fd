package catalog

import (
	"time"

	"evora-mesh/internal/resolver"
)

type ProductsResponse struct {
	Items []ProductItem `json:"items"`
}

type ProductItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	BasePriceCents int64     `json:"base_price_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// OwnerResponse carries an explicit found flag: "no owner" is a normal
// outcome, not an error.
type OwnerResponse struct {
	ClientID string         `json:"client_id"`
	Found    bool           `json:"found"`
	AgentID  string         `json:"agent_id,omitempty"`
	Strength float64        `json:"strength,omitempty"`
	Trace    resolver.Trace `json:"trace"`
}

type OfferResponse struct {
	ClientID        string         `json:"client_id"`
	ProductID       string         `json:"product_id"`
	Found           bool           `json:"found"`
	OfferID         string         `json:"offer_id,omitempty"`
	OfferingAgentID string         `json:"offering_agent_id,omitempty"`
	OriginAgentID   string         `json:"origin_agent_id,omitempty"`
	PriceCents      int64          `json:"price_cents,omitempty"`
	Trace           resolver.Trace `json:"trace"`
}

type RolesResponse struct {
	ClientID      string               `json:"client_id"`
	ProductID     string               `json:"product_id"`
	Resolved      bool                 `json:"resolved"`
	Shopper       string               `json:"shopper,omitempty"`
	Keeper        string               `json:"keeper,omitempty"`
	OperationType string               `json:"operation_type,omitempty"`
	TrustlineID   string               `json:"trustline_id,omitempty"`
	OfferID       string               `json:"offer_id,omitempty"`
	Commission    *resolver.Commission `json:"commission,omitempty"`
	Trace         resolver.Trace       `json:"trace"`
}

type CatalogResponse struct {
	ClientID string         `json:"client_id"`
	Items    []CatalogItem  `json:"items"`
	Trace    resolver.Trace `json:"trace"`
}

type CatalogItem struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	OfferID         string  `json:"offer_id"`
	OfferingAgentID string  `json:"offering_agent_id"`
	EffectiveCents  int64   `json:"effective_price_cents"`
	IsAvailable     bool    `json:"is_available"`
	MarkupPercent   float64 `json:"markup_percent"`
}
