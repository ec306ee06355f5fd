package trust

import "time"

type ProposeInput struct {
	OtherAgentID    string   `json:"other_agent_id"`
	PercShopper     float64  `json:"perc_shopper"`
	PercKeeper      float64  `json:"perc_keeper"`
	PercReferral    float64  `json:"perc_referral"`
	ReferralEnabled bool     `json:"referral_enabled"`
	PlatformFeePct  *float64 `json:"platform_fee_pct"`
	AlphaShopper    *float64 `json:"alpha_shopper"`
	AlphaKeeper     *float64 `json:"alpha_keeper"`
}

type TrustlineItem struct {
	ID              string    `json:"id"`
	AgentA          string    `json:"agent_a"`
	AgentB          string    `json:"agent_b"`
	CounterpartyID  string    `json:"counterparty_id"`
	PercShopper     float64   `json:"perc_shopper"`
	PercKeeper      float64   `json:"perc_keeper"`
	PercReferral    float64   `json:"perc_referral"`
	ReferralEnabled bool      `json:"referral_enabled"`
	Status          string    `json:"status"`
	ProposedBy      string    `json:"proposed_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type TrustlinesResponse struct {
	Items  []TrustlineItem `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type ProposeResponse struct {
	TrustlineID string `json:"trustline_id"`
	Status      string `json:"status"`
}

type ResolveResponse struct {
	TrustlineID string `json:"trustline_id"`
	Status      string `json:"status"`
}
