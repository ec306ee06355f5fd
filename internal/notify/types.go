// Package notify pushes resolved-sale and settlement events to external
// webhook targets so shoppers and keepers learn about a cooperation the
// moment it is decided. Delivery is best effort and fully decoupled from
// the order flow: a slow or dead endpoint never blocks an order.
package notify

import "time"

type SaleEvent struct {
	Type          string `json:"type"`
	OrderID       string `json:"order_id"`
	ClientID      string `json:"client_id"`
	ShopperID     string `json:"shopper_id"`
	KeeperID      string `json:"keeper_id"`
	OperationType string `json:"operation_type"`
	AmountCents   int64  `json:"amount_cents"`
}

type SettlementEvent struct {
	OrderID           string `json:"order_id"`
	SettlementID      string `json:"settlement_id"`
	ShopperID         string `json:"shopper_id"`
	KeeperID          string `json:"keeper_id"`
	MarginCents       int64  `json:"margin_cents"`
	PlatformCutCents  int64  `json:"platform_cut_cents"`
	ShopperShareCents int64  `json:"shopper_share_cents"`
	KeeperShareCents  int64  `json:"keeper_share_cents"`
}

type Target struct {
	Name           string   `json:"name"`
	Endpoint       string   `json:"endpoint"`
	Secret         string   `json:"secret"`
	EventAllowlist []string `json:"event_allowlist"`
	Enabled        bool     `json:"enabled"`
}

type Config struct {
	Enabled    bool
	ConfigPath string
	Workers    int
	RetryMax   int
	RetryBase  time.Duration
	Buffer     int
	Timeout    time.Duration
}

type job struct {
	target    Target
	eventType string
	payload   any
}
