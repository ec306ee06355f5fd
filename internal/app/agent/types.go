package agent

import "time"

type RegisterInput struct {
	Name       string `json:"name"`
	CanShopper *bool  `json:"can_act_as_shopper"`
	CanKeeper  *bool  `json:"can_act_as_keeper"`
}

type RegisterResponse struct {
	Agent struct {
		AgentID string `json:"agent_id"`
		APIKey  string `json:"api_key"`
	} `json:"agent"`
}

type MeResponse struct {
	AgentID      string    `json:"agent_id"`
	Name         string    `json:"name"`
	CanShopper   bool      `json:"can_act_as_shopper"`
	CanKeeper    bool      `json:"can_act_as_keeper"`
	Verified     bool      `json:"verified"`
	ShopperScore float64   `json:"shopper_score"`
	KeeperScore  float64   `json:"keeper_score"`
	NetCents     int64     `json:"net_cents"`
	CreatedAt    time.Time `json:"created_at"`
}
