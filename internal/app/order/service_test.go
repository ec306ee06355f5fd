package order

import (
	"context"
	"errors"
	"testing"

	"evora-mesh/internal/notify"
	"evora-mesh/internal/resolver"
	"evora-mesh/internal/stats"
	"evora-mesh/internal/store"
	"evora-mesh/internal/testutil"
)

type fixture struct {
	svc      *Service
	st       *store.Store
	shopper  string
	keeper   string
	clientID string
	product  string
}

// newFixture seeds the cooperated-sale scenario: the client is owned by
// the keeper, but only the shopper lists the product.
func newFixture(t *testing.T) (*fixture, func()) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	ctx := context.Background()

	shopper, err := st.CreateAgent(ctx, "shopper", "key-s", true, true)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	keeper, err := st.CreateAgent(ctx, "keeper", "key-k", true, true)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	clientID, err := st.CreateClient(ctx, "acme", "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := st.CreateClientRelation(ctx, clientID, keeper, 80); err != nil {
		t.Fatalf("create relation: %v", err)
	}
	productID, err := st.CreateProduct(ctx, "widget", "SKU-1", 100_00)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := st.CreateOffer(ctx, productID, shopper, shopper, 100_00, 5); err != nil {
		t.Fatalf("create offer: %v", err)
	}

	push, err := notify.NewManager(notify.Config{})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	svc := NewService(st, resolver.NewEngine(st), stats.NewService(st, 1.0, 1.0), push)
	return &fixture{svc: svc, st: st, shopper: shopper, keeper: keeper, clientID: clientID, product: productID}, cleanup
}

func TestProcessCooperatedOrderLifecycle(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()
	ctx := context.Background()

	draft, err := f.svc.Process(ctx, ProcessInput{ClientID: f.clientID, ProductID: f.product, Quantity: 1})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if draft.Shopper != f.shopper || draft.Keeper != f.keeper {
		t.Fatalf("wrong roles: shopper=%s keeper=%s", draft.Shopper, draft.Keeper)
	}
	if draft.OperationType != string(resolver.CooperatedSale) {
		t.Fatalf("expected COOPERATED_SALE, got %s", draft.OperationType)
	}
	if draft.ShopperCutCents != 60_00 || draft.KeeperCutCents != 40_00 {
		t.Fatalf("wrong default split: %+v", draft)
	}

	if _, err := f.svc.Confirm(ctx, draft.OrderID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// Confirm retries are harmless.
	if _, err := f.svc.Confirm(ctx, draft.OrderID); err != nil {
		t.Fatalf("confirm retry: %v", err)
	}

	stl, err := f.svc.Close(ctx, draft.OrderID, CloseInput{FinalPriceCents: 150_00})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if stl.MarginCents != 50_00 || stl.PlatformCutCents != 5_00 {
		t.Fatalf("wrong settlement: %+v", stl)
	}
	if stl.ShopperShareCents != 27_00 || stl.KeeperShareCents != 18_00 {
		t.Fatalf("wrong shares: %+v", stl)
	}

	if _, err := f.svc.Close(ctx, draft.OrderID, CloseInput{FinalPriceCents: 150_00}); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected already_settled on replay, got %v", err)
	}
}

func TestProcessAppliesTrustlineSplit(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()
	ctx := context.Background()

	tlID, err := f.st.CreateTrustline(ctx, f.shopper, f.keeper, store.TrustlineParams{PercShopper: 70, PercKeeper: 30})
	if err != nil {
		t.Fatalf("create trustline: %v", err)
	}
	if err := f.st.ResolveTrustlineProposal(ctx, tlID, store.TrustlineActive); err != nil {
		t.Fatalf("activate trustline: %v", err)
	}

	draft, err := f.svc.Process(ctx, ProcessInput{ClientID: f.clientID, ProductID: f.product})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if draft.ShopperCutCents != 70_00 || draft.KeeperCutCents != 30_00 {
		t.Fatalf("trustline split not applied: %+v", draft)
	}
	if draft.TrustlineID != tlID {
		t.Fatalf("trustline not snapshotted on order: %s", draft.TrustlineID)
	}

	if _, err := f.svc.Confirm(ctx, draft.OrderID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Confirmation grows confidence in the shopper's direction only.
	tl, err := f.st.GetActiveTrustlineBetween(ctx, f.shopper, f.keeper)
	if err != nil {
		t.Fatalf("get trustline: %v", err)
	}
	from, to := tl.ConfidenceAB, tl.ConfidenceBA
	if tl.AgentB == f.shopper {
		from, to = to, from
	}
	if from != 0.05 || to != 0 {
		t.Fatalf("confidence bump wrong: from=%v to=%v", from, to)
	}
}

func TestProcessSnapshotSurvivesLaterChanges(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()
	ctx := context.Background()

	draft, err := f.svc.Process(ctx, ProcessInput{ClientID: f.clientID, ProductID: f.product})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	// A trustline accepted after the draft must not rewrite the snapshot.
	tlID, err := f.st.CreateTrustline(ctx, f.shopper, f.keeper, store.TrustlineParams{PercShopper: 90, PercKeeper: 10})
	if err != nil {
		t.Fatalf("create trustline: %v", err)
	}
	if err := f.st.ResolveTrustlineProposal(ctx, tlID, store.TrustlineActive); err != nil {
		t.Fatalf("activate trustline: %v", err)
	}

	o, err := f.st.GetOrder(ctx, draft.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.ShopperCutCents != 60_00 || o.KeeperCutCents != 40_00 {
		t.Fatalf("frozen snapshot changed: %+v", o)
	}
}

func TestProcessQuantityScalesTotals(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	draft, err := f.svc.Process(context.Background(), ProcessInput{ClientID: f.clientID, ProductID: f.product, Quantity: 3})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if draft.BasePriceCents != 300_00 || draft.ShopperCutCents != 180_00 || draft.KeeperCutCents != 120_00 {
		t.Fatalf("line totals wrong: %+v", draft)
	}
}

func TestProcessInsufficientStock(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()

	_, err := f.svc.Process(context.Background(), ProcessInput{ClientID: f.clientID, ProductID: f.product, Quantity: 99})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient_stock, got %v", err)
	}
}

func TestCloseRequiresConfirmedOrder(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()
	ctx := context.Background()

	draft, err := f.svc.Process(ctx, ProcessInput{ClientID: f.clientID, ProductID: f.product})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := f.svc.Close(ctx, draft.OrderID, CloseInput{FinalPriceCents: 150_00}); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected order_not_confirmed, got %v", err)
	}
}

func TestProcessNoOffer(t *testing.T) {
	f, cleanup := newFixture(t)
	defer cleanup()
	ctx := context.Background()

	productID, err := f.st.CreateProduct(ctx, "unlisted", "SKU-2", 50_00)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := f.svc.Process(ctx, ProcessInput{ClientID: f.clientID, ProductID: productID}); !errors.Is(err, ErrNoOfferAvailable) {
		t.Fatalf("expected no_offer_available, got %v", err)
	}
}
