package resolver

import (
	"context"
	"errors"

	"evora-mesh/internal/store"
)

// SelectOffer picks the one offer the client is entitled to see for the
// product. Policy: clients always shop their primary owner's listing when
// one exists; otherwise the globally cheapest in-stock listing wins, and
// the trace flags the lost personalization with menor_preco_fallback.
// A nil offer with a nil error means no listing exists at all.
func (e *Engine) SelectOffer(ctx context.Context, clientID, productID string) (*store.Offer, Trace, error) {
	owner, trace, err := e.ResolveOwner(ctx, clientID)
	if err != nil {
		return nil, trace, err
	}

	if owner != nil {
		offer, err := e.src.GetActiveOfferByProductAndAgent(ctx, productID, owner.AgentID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, trace, err
		}
		if offer != nil {
			trace.add("offer", ReasonOwnerOffer, owner.AgentID, offer.ID)
			return offer, trace, nil
		}
	}

	offers, err := e.src.ListActiveOffersByProduct(ctx, productID)
	if err != nil {
		return nil, trace, err
	}
	if len(offers) == 0 {
		trace.add("offer", ReasonNoOfferAvailable, "", "")
		return nil, trace, nil
	}
	cheapest := offers[0]
	trace.add("offer", ReasonCheapestFallback, cheapest.OfferingAgentID, cheapest.ID)
	return &cheapest, trace, nil
}
