package resolver

import (
	"context"

	"evora-mesh/internal/store"
)

// OperationType classifies a resolved (client, product) sale. The set is
// closed: exactly these three terminal labels exist.
type OperationType string

const (
	DirectSale        OperationType = "DIRECT_SALE"
	CooperatedSale    OperationType = "COOPERATED_SALE"
	AmbiguousResolved OperationType = "AMBIGUOUS_RESOLVED"
)

// Reason is a closed reason code recorded in the trace for every branch a
// resolver takes, so callers and tests assert on branches instead of
// matching log strings.
type Reason string

const (
	ReasonOwnerResolved    Reason = "owner_resolved"
	ReasonNoActiveRelation Reason = "no_active_relation"
	ReasonOwnerOffer       Reason = "owner_offer"
	// Fallback label kept byte-for-byte for behavioral compatibility with
	// the accounting exports that grep for it.
	ReasonCheapestFallback   Reason = "menor_preco_fallback"
	ReasonNoOfferAvailable   Reason = "no_offer_available"
	ReasonTrustlineApplied   Reason = "trustline_applied"
	ReasonNoTrustline        Reason = "no_trustline"
	ReasonDefaultSplit       Reason = "default_split"
	ReasonInvalidSplitConfig Reason = "invalid_split_config"
	ReasonAmbiguousKeeper    Reason = "ambiguous_keeper_fallback"
	ReasonSoldOut            Reason = "sold_out"
)

type Step struct {
	Stage   string `json:"stage"`
	Reason  Reason `json:"reason"`
	AgentID string `json:"agent_id,omitempty"`
	OfferID string `json:"offer_id,omitempty"`
}

// Trace is the structured debug trail accumulated across a resolution.
type Trace struct {
	Steps []Step `json:"steps"`
}

func (t *Trace) add(stage string, reason Reason, agentID, offerID string) {
	t.Steps = append(t.Steps, Step{Stage: stage, Reason: reason, AgentID: agentID, OfferID: offerID})
}

// Has reports whether any step carries the given reason.
func (t *Trace) Has(reason Reason) bool {
	for _, s := range t.Steps {
		if s.Reason == reason {
			return true
		}
	}
	return false
}

// Source is the read surface the resolvers need. *store.Store satisfies
// it; tests substitute an in-memory fake.
type Source interface {
	ListActiveRelationsByClient(ctx context.Context, clientID string) ([]store.ClientRelation, error)
	GetActiveOfferByProductAndAgent(ctx context.Context, productID, offeringAgentID string) (*store.Offer, error)
	ListActiveOffersByProduct(ctx context.Context, productID string) ([]store.Offer, error)
	ListOffersByProduct(ctx context.Context, productID string) ([]store.Offer, error)
	GetActiveTrustlineBetween(ctx context.Context, agentX, agentY string) (*store.Trustline, error)
	ListActiveProducts(ctx context.Context) ([]store.Product, error)
	GetProduct(ctx context.Context, id string) (*store.Product, error)
}

// Engine runs the resolution pipeline over a Source. All methods are
// side-effect-free reads.
type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Resolution is the Role Resolver output: who shops, who keeps, under
// which agreement, for which offer.
type Resolution struct {
	Shopper       string
	Keeper        string
	OperationType OperationType
	Trustline     *store.Trustline
	Offer         *store.Offer
	Trace         Trace
}
