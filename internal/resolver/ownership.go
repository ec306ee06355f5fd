package resolver

import (
	"context"

	"evora-mesh/internal/store"
)

// PickPrimary selects the winning ownership edge among a client's ACTIVE
// relations: strength desc, then last_order_at desc (never-ordered edges
// last), then total_orders desc, then relation id asc so a full tie still
// resolves the same way on every call. The second return is false when no
// edge exists.
func PickPrimary(relations []store.ClientRelation) (store.ClientRelation, bool) {
	if len(relations) == 0 {
		return store.ClientRelation{}, false
	}
	best := relations[0]
	for _, r := range relations[1:] {
		if strongerEdge(r, best) {
			best = r
		}
	}
	return best, true
}

func strongerEdge(a, b store.ClientRelation) bool {
	if a.Strength != b.Strength {
		return a.Strength > b.Strength
	}
	switch {
	case a.LastOrderAt == nil && b.LastOrderAt != nil:
		return false
	case a.LastOrderAt != nil && b.LastOrderAt == nil:
		return true
	case a.LastOrderAt != nil && b.LastOrderAt != nil && !a.LastOrderAt.Equal(*b.LastOrderAt):
		return a.LastOrderAt.After(*b.LastOrderAt)
	}
	if a.TotalOrders != b.TotalOrders {
		return a.TotalOrders > b.TotalOrders
	}
	return a.ID < b.ID
}

// ResolveOwner returns the client's primary owner edge, or nil when the
// client has no ACTIVE relation. Absence is a value, never an error.
func (e *Engine) ResolveOwner(ctx context.Context, clientID string) (*store.ClientRelation, Trace, error) {
	var trace Trace
	relations, err := e.src.ListActiveRelationsByClient(ctx, clientID)
	if err != nil {
		return nil, trace, err
	}
	primary, ok := PickPrimary(relations)
	if !ok {
		trace.add("ownership", ReasonNoActiveRelation, "", "")
		return nil, trace, nil
	}
	trace.add("ownership", ReasonOwnerResolved, primary.AgentID, "")
	return &primary, trace, nil
}
