package resolver

import (
	"context"
	"sort"

	"evora-mesh/internal/store"
)

// fakeSource is an in-memory Source with the same absence semantics as
// the Postgres store: single-row lookups return store.ErrNotFound.
type fakeSource struct {
	relations  map[string][]store.ClientRelation
	offers     []store.Offer
	trustlines []store.Trustline
	products   []store.Product
}

func (f *fakeSource) ListActiveRelationsByClient(_ context.Context, clientID string) ([]store.ClientRelation, error) {
	var out []store.ClientRelation
	for _, r := range f.relations[clientID] {
		if r.Status == store.RelationActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) GetActiveOfferByProductAndAgent(_ context.Context, productID, offeringAgentID string) (*store.Offer, error) {
	for _, o := range f.offers {
		if o.ProductID == productID && o.OfferingAgentID == offeringAgentID && o.Active && o.QuantityAvailable > 0 {
			cp := o
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSource) ListActiveOffersByProduct(_ context.Context, productID string) ([]store.Offer, error) {
	var out []store.Offer
	for _, o := range f.offers {
		if o.ProductID == productID && o.Active && o.QuantityAvailable > 0 {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PriceCents != out[j].PriceCents {
			return out[i].PriceCents < out[j].PriceCents
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeSource) ListOffersByProduct(_ context.Context, productID string) ([]store.Offer, error) {
	var out []store.Offer
	for _, o := range f.offers {
		if o.ProductID == productID && o.Active {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PriceCents != out[j].PriceCents {
			return out[i].PriceCents < out[j].PriceCents
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeSource) GetActiveTrustlineBetween(_ context.Context, agentX, agentY string) (*store.Trustline, error) {
	a, b := store.OrderedPair(agentX, agentY)
	for _, tl := range f.trustlines {
		if tl.AgentA == a && tl.AgentB == b && tl.Status == store.TrustlineActive {
			cp := tl
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSource) ListActiveProducts(_ context.Context) ([]store.Product, error) {
	var out []store.Product
	for _, p := range f.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSource) GetProduct(_ context.Context, id string) (*store.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}
