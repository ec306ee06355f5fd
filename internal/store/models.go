package store

import "time"

const (
	RelationActive   = "ACTIVE"
	RelationInactive = "INACTIVE"

	TrustlinePending  = "PENDING"
	TrustlineActive   = "ACTIVE"
	TrustlineRejected = "REJECTED"

	OrderDraft     = "draft"
	OrderConfirmed = "confirmed"
	OrderClosed    = "closed"
	OrderSettled   = "settled"
	OrderFailed    = "failed"
)

type Agent struct {
	ID           string
	Name         string
	APIKeyHash   string
	CanShopper   bool
	CanKeeper    bool
	Verified     bool
	ShopperScore float64
	KeeperScore  float64
	Status       string
	CreatedAt    time.Time
}

type Client struct {
	ID          string
	Name        string
	ExternalRef string
	CreatedAt   time.Time
}

// ClientRelation is one weighted ownership edge between a client and an
// agent. A client may hold several ACTIVE edges at once; primary ownership
// is resolved per query, never stored.
type ClientRelation struct {
	ID              string
	ClientID        string
	AgentID         string
	Strength        float64
	TotalOrders     int64
	TotalValueCents int64
	LastOrderAt     *time.Time
	Status          string
	CreatedAt       time.Time
}

// Trustline is a bilateral commission-split agreement. AgentA < AgentB is
// enforced on insert so the unordered pair is unique.
type Trustline struct {
	ID              string
	AgentA          string
	AgentB          string
	ConfidenceAB    float64
	ConfidenceBA    float64
	PercShopper     float64
	PercKeeper      float64
	PercReferral    float64
	ReferralEnabled bool
	PlatformFeePct  *float64
	AlphaShopper    *float64
	AlphaKeeper     *float64
	Status          string
	ProposedBy      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *Trustline) Involves(agentID string) bool {
	return t.AgentA == agentID || t.AgentB == agentID
}

func (t *Trustline) Other(agentID string) string {
	if t.AgentA == agentID {
		return t.AgentB
	}
	return t.AgentA
}

type Product struct {
	ID             string
	Name           string
	SKU            string
	BasePriceCents int64
	Active         bool
	CreatedAt      time.Time
}

type Offer struct {
	ID                string
	ProductID         string
	OriginAgentID     string
	OfferingAgentID   string
	PriceCents        int64
	QuantityAvailable int64
	Active            bool
	CreatedAt         time.Time
}

// Order commission figures are a snapshot frozen at creation time and are
// never recomputed when relation or trustline data changes later.
type Order struct {
	ID               string
	ClientID         string
	ShopperID        string
	KeeperID         string
	OfferID          string
	TrustlineID      *string
	OperationType    string
	Quantity         int64
	BasePriceCents   int64
	OfferPriceCents  int64
	LocalMarkupCents int64
	ShopperCutCents  int64
	KeeperCutCents   int64
	ReferralCutCents int64
	FinalPriceCents  *int64
	ClientBelongsTo  string
	Status           string
	CreatedAt        time.Time
	ClosedAt         *time.Time
}

type Settlement struct {
	ID                string
	OrderID           string
	MarginCents       int64
	PlatformCutCents  int64
	ShopperShareCents int64
	KeeperShareCents  int64
	CreatedAt         time.Time
}

type LedgerEntry struct {
	ID          string
	AgentID     string
	Type        string
	AmountCents int64
	RefType     string
	RefID       string
	CreatedAt   time.Time
}
