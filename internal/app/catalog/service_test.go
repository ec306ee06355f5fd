package catalog

import (
	"context"
	"errors"
	"testing"

	"evora-mesh/internal/resolver"
	"evora-mesh/internal/testutil"
)

func TestOwnerNotFoundClient(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	svc := NewService(st, resolver.NewEngine(st))

	if _, err := svc.Owner(context.Background(), "client_missing"); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected client_not_found, got %v", err)
	}
}

func TestOwnerAbsenceIsAValue(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewService(st, resolver.NewEngine(st))

	clientID, err := st.CreateClient(ctx, "acme", "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	resp, err := svc.Owner(ctx, clientID)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if resp.Found {
		t.Fatalf("orphan client reported an owner: %+v", resp)
	}
	if !resp.Trace.Has(resolver.ReasonNoActiveRelation) {
		t.Fatalf("trace missing reason: %+v", resp.Trace.Steps)
	}
}

func TestRolesIncludesCommissionPreview(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewService(st, resolver.NewEngine(st))

	agentID, err := st.CreateAgent(ctx, "alice", "key-a", true, true)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	clientID, err := st.CreateClient(ctx, "acme", "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := st.CreateClientRelation(ctx, clientID, agentID, 50); err != nil {
		t.Fatalf("create relation: %v", err)
	}
	productID, err := st.CreateProduct(ctx, "widget", "SKU-1", 100_00)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := st.CreateOffer(ctx, productID, agentID, agentID, 100_00, 3); err != nil {
		t.Fatalf("create offer: %v", err)
	}

	resp, err := svc.Roles(ctx, clientID, productID)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if !resp.Resolved || resp.OperationType != string(resolver.DirectSale) {
		t.Fatalf("expected resolved direct sale: %+v", resp)
	}
	if resp.Commission == nil || resp.Commission.ShopperCutCents != 60_00 {
		t.Fatalf("commission preview wrong: %+v", resp.Commission)
	}
}

func TestRolesUnresolvedWhenNoOffer(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewService(st, resolver.NewEngine(st))

	clientID, err := st.CreateClient(ctx, "acme", "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	productID, err := st.CreateProduct(ctx, "widget", "SKU-1", 100_00)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	resp, err := svc.Roles(ctx, clientID, productID)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if resp.Resolved {
		t.Fatalf("resolved with no offer: %+v", resp)
	}
	if !resp.Trace.Has(resolver.ReasonNoOfferAvailable) {
		t.Fatalf("trace missing reason: %+v", resp.Trace.Steps)
	}
}

func TestCatalogAvailability(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewService(st, resolver.NewEngine(st))

	agentID, err := st.CreateAgent(ctx, "alice", "key-a", true, true)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	clientID, err := st.CreateClient(ctx, "acme", "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	listed, err := st.CreateProduct(ctx, "widget", "SKU-1", 100_00)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := st.CreateProduct(ctx, "ghost", "SKU-2", 50_00); err != nil {
		t.Fatalf("create product: %v", err)
	}
	soldOut, err := st.CreateProduct(ctx, "gizmo", "SKU-3", 30_00)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := st.CreateOffer(ctx, listed, agentID, agentID, 100_00, 2); err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if _, err := st.CreateOffer(ctx, soldOut, agentID, agentID, 35_00, 0); err != nil {
		t.Fatalf("create offer: %v", err)
	}

	resp, err := svc.Catalog(ctx, clientID)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	// Unlisted ghost is skipped; the sold-out listing stays, flagged.
	if len(resp.Items) != 2 {
		t.Fatalf("unexpected catalog: %+v", resp.Items)
	}
	if resp.Items[0].ProductID != soldOut || resp.Items[0].IsAvailable {
		t.Fatalf("sold-out product not flagged: %+v", resp.Items[0])
	}
	if resp.Items[1].ProductID != listed || !resp.Items[1].IsAvailable {
		t.Fatalf("in-stock product wrong: %+v", resp.Items[1])
	}
}
