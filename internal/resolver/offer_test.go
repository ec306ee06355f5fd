package resolver

import (
	"context"
	"testing"

	"evora-mesh/internal/store"
)

func ownedClientSource() *fakeSource {
	return &fakeSource{
		relations: map[string][]store.ClientRelation{
			"client_1": {{ID: "rel_1", ClientID: "client_1", AgentID: "agent_owner", Strength: 80, Status: store.RelationActive}},
		},
		offers: []store.Offer{
			{ID: "offer_cheap", ProductID: "prod_1", OriginAgentID: "agent_cheap", OfferingAgentID: "agent_cheap", PriceCents: 90_00, QuantityAvailable: 5, Active: true},
			{ID: "offer_owner", ProductID: "prod_1", OriginAgentID: "agent_owner", OfferingAgentID: "agent_owner", PriceCents: 110_00, QuantityAvailable: 5, Active: true},
		},
	}
}

func TestSelectOfferPrefersOwnerListing(t *testing.T) {
	eng := NewEngine(ownedClientSource())
	offer, trace, err := eng.SelectOffer(context.Background(), "client_1", "prod_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer == nil || offer.ID != "offer_owner" {
		t.Fatalf("expected owner listing despite higher price, got %+v", offer)
	}
	if !trace.Has(ReasonOwnerOffer) || trace.Has(ReasonCheapestFallback) {
		t.Fatalf("unexpected trace: %+v", trace.Steps)
	}
}

func TestSelectOfferCheapestFallback(t *testing.T) {
	src := ownedClientSource()
	// Owner sold out: fallback must flag the lost personalization.
	src.offers[1].QuantityAvailable = 0
	eng := NewEngine(src)
	offer, trace, err := eng.SelectOffer(context.Background(), "client_1", "prod_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer == nil || offer.ID != "offer_cheap" {
		t.Fatalf("expected cheapest listing, got %+v", offer)
	}
	if !trace.Has(ReasonCheapestFallback) {
		t.Fatalf("trace missing fallback reason: %+v", trace.Steps)
	}
	if string(ReasonCheapestFallback) != "menor_preco_fallback" {
		t.Fatalf("fallback label drifted: %s", ReasonCheapestFallback)
	}
}

func TestSelectOfferUnownedClientGetsCheapest(t *testing.T) {
	src := ownedClientSource()
	src.relations = nil
	eng := NewEngine(src)
	offer, trace, err := eng.SelectOffer(context.Background(), "client_unknown", "prod_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer == nil || offer.ID != "offer_cheap" {
		t.Fatalf("expected cheapest listing, got %+v", offer)
	}
	if !trace.Has(ReasonNoActiveRelation) || !trace.Has(ReasonCheapestFallback) {
		t.Fatalf("unexpected trace: %+v", trace.Steps)
	}
}

func TestSelectOfferNoListingAtAll(t *testing.T) {
	src := ownedClientSource()
	src.offers = nil
	eng := NewEngine(src)
	offer, trace, err := eng.SelectOffer(context.Background(), "client_1", "prod_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer != nil {
		t.Fatalf("expected no offer, got %+v", offer)
	}
	if !trace.Has(ReasonNoOfferAvailable) {
		t.Fatalf("trace missing no_offer_available: %+v", trace.Steps)
	}
}
