package order

import (
	"time"

	"evora-mesh/internal/resolver"
)

type ProcessInput struct {
	ClientID  string `json:"client_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type DraftResponse struct {
	OrderID          string         `json:"order_id"`
	ClientID         string         `json:"client_id"`
	Shopper          string         `json:"shopper"`
	Keeper           string         `json:"keeper"`
	OperationType    string         `json:"operation_type"`
	OfferID          string         `json:"offer_id"`
	TrustlineID      string         `json:"trustline_id,omitempty"`
	Quantity         int64          `json:"quantity"`
	BasePriceCents   int64          `json:"base_price_cents"`
	OfferPriceCents  int64          `json:"offer_price_cents"`
	LocalMarkupCents int64          `json:"local_markup_cents"`
	ShopperCutCents  int64          `json:"shopper_cut_cents"`
	KeeperCutCents   int64          `json:"keeper_cut_cents"`
	ReferralCutCents int64          `json:"referral_cut_cents"`
	Trace            resolver.Trace `json:"trace"`
}

type ConfirmResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type CloseInput struct {
	FinalPriceCents int64 `json:"final_price_cents"`
}

type SettlementResponse struct {
	SettlementID      string `json:"settlement_id"`
	OrderID           string `json:"order_id"`
	MarginCents       int64  `json:"margin_cents"`
	PlatformCutCents  int64  `json:"platform_cut_cents"`
	ShopperShareCents int64  `json:"shopper_share_cents"`
	KeeperShareCents  int64  `json:"keeper_share_cents"`
}

type OrderItem struct {
	OrderID         string    `json:"order_id"`
	ClientID        string    `json:"client_id"`
	Shopper         string    `json:"shopper"`
	Keeper          string    `json:"keeper"`
	OperationType   string    `json:"operation_type"`
	Quantity        int64     `json:"quantity"`
	OfferPriceCents int64     `json:"offer_price_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrdersResponse struct {
	Items  []OrderItem `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
