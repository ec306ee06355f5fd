package resolver

import (
	"context"
	"errors"

	"evora-mesh/internal/store"
)

// ResolveRoles classifies a (client, product) operation in a single pass.
// A missing offer is the only failure path: it yields a nil Resolution so
// nothing downstream executes. Classification:
//
//	owner == shopper            -> DIRECT_SALE, keeper = shopper
//	owner exists, != shopper    -> COOPERATED_SALE, keeper = owner
//	no owner                    -> AMBIGUOUS_RESOLVED, keeper = shopper
func (e *Engine) ResolveRoles(ctx context.Context, clientID, productID string) (*Resolution, Trace, error) {
	offer, trace, err := e.SelectOffer(ctx, clientID, productID)
	if err != nil {
		return nil, trace, err
	}
	if offer == nil {
		return nil, trace, nil
	}

	res := &Resolution{
		Shopper: offer.OriginAgentID,
		Offer:   offer,
	}

	var ownerID string
	for _, s := range trace.Steps {
		if s.Stage == "ownership" && s.Reason == ReasonOwnerResolved {
			ownerID = s.AgentID
		}
	}

	switch {
	case ownerID == "":
		// Unowned client: the listing agent is treated as keeper too.
		// Placeholder policy carried over deliberately; see DESIGN.md.
		res.OperationType = AmbiguousResolved
		res.Keeper = res.Shopper
		trace.add("roles", ReasonAmbiguousKeeper, res.Keeper, offer.ID)
	case ownerID == res.Shopper:
		res.OperationType = DirectSale
		res.Keeper = res.Shopper
	default:
		res.OperationType = CooperatedSale
		res.Keeper = ownerID
		tl, err := e.src.GetActiveTrustlineBetween(ctx, res.Shopper, res.Keeper)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, trace, err
		}
		if tl != nil {
			res.Trustline = tl
			trace.add("roles", ReasonTrustlineApplied, "", "")
		} else {
			trace.add("roles", ReasonNoTrustline, "", "")
		}
	}

	res.Trace = trace
	return res, trace, nil
}
