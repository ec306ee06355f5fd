package store

import (
	"context"
	"errors"
	"testing"
)

func settleFixture(t *testing.T, st *Store, ctx context.Context) (orderID, shopperID, keeperID string) {
	t.Helper()
	shopperID = mustCreateAgent(t, st, ctx, "shopper", "key-s")
	keeperID = mustCreateAgent(t, st, ctx, "keeper", "key-k")
	clientID := mustCreateClient(t, st, ctx, "acme")
	_, offerID := mustCreateListing(t, st, ctx, shopperID, 100_00, 100_00, 2)

	orderID, err := st.CreateOrderDraft(ctx, &Order{
		ClientID: clientID, ShopperID: shopperID, KeeperID: keeperID, OfferID: offerID,
		OperationType: "COOPERATED_SALE", Quantity: 1,
		BasePriceCents: 100_00, OfferPriceCents: 100_00,
		ShopperCutCents: 60_00, KeeperCutCents: 40_00, ClientBelongsTo: "keeper",
	})
	if err != nil {
		t.Fatalf("create order draft: %v", err)
	}
	if _, err := st.ApplyOrderOutcome(ctx, orderID, 1.0, 1.0); err != nil {
		t.Fatalf("apply outcome: %v", err)
	}
	return orderID, shopperID, keeperID
}

func TestCloseAndSettle(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()
	orderID, shopperID, keeperID := settleFixture(t, st, ctx)

	settlementID, err := st.CloseAndSettle(ctx, orderID, 150_00, &Settlement{
		MarginCents:       50_00,
		PlatformCutCents:  5_00,
		ShopperShareCents: 27_00,
		KeeperShareCents:  18_00,
	})
	if err != nil {
		t.Fatalf("close and settle: %v", err)
	}

	o, err := st.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != OrderSettled {
		t.Fatalf("expected settled, got %s", o.Status)
	}
	if o.FinalPriceCents == nil || *o.FinalPriceCents != 150_00 {
		t.Fatalf("final price not recorded: %+v", o.FinalPriceCents)
	}
	if o.ClosedAt == nil {
		t.Fatal("closed_at not stamped")
	}
	// Frozen snapshot untouched by settlement.
	if o.ShopperCutCents != 60_00 || o.KeeperCutCents != 40_00 {
		t.Fatalf("commission snapshot mutated: %+v", o)
	}

	got, err := st.GetSettlementByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get settlement: %v", err)
	}
	if got.MarginCents != 50_00 || got.PlatformCutCents != 5_00 {
		t.Fatalf("wrong settlement row: %+v", got)
	}

	entries, err := st.ListLedgerEntries(ctx, LedgerFilter{}, 50, 0)
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	var platform, shopperShare, keeperShare int64
	for _, e := range entries {
		switch {
		case e.Type == "platform_cut" && e.RefID == settlementID:
			platform = e.AmountCents
		case e.Type == "settlement_share" && e.AgentID == shopperID:
			shopperShare = e.AmountCents
		case e.Type == "settlement_share" && e.AgentID == keeperID:
			keeperShare = e.AmountCents
		}
	}
	if platform != 5_00 || shopperShare != 27_00 || keeperShare != 18_00 {
		t.Fatalf("settlement ledger wrong: platform=%d shopper=%d keeper=%d", platform, shopperShare, keeperShare)
	}
}

func TestCloseAndSettleIsOneShot(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()
	orderID, _, _ := settleFixture(t, st, ctx)

	if _, err := st.CloseAndSettle(ctx, orderID, 150_00, &Settlement{MarginCents: 50_00}); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	_, err := st.CloseAndSettle(ctx, orderID, 200_00, &Settlement{MarginCents: 100_00})
	if !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected already_settled, got %v", err)
	}
	// The first settlement stands.
	o, err := st.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.FinalPriceCents == nil || *o.FinalPriceCents != 150_00 {
		t.Fatalf("replay overwrote final price: %+v", o.FinalPriceCents)
	}
}

func TestCloseAndSettleRejectsDraft(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	agentID := mustCreateAgent(t, st, ctx, "A", "key-a")
	clientID := mustCreateClient(t, st, ctx, "acme")
	_, offerID := mustCreateListing(t, st, ctx, agentID, 100_00, 100_00, 1)
	orderID, err := st.CreateOrderDraft(ctx, &Order{
		ClientID: clientID, ShopperID: agentID, KeeperID: agentID, OfferID: offerID,
		OperationType: "DIRECT_SALE", Quantity: 1,
		BasePriceCents: 100_00, OfferPriceCents: 100_00, ShopperCutCents: 60_00, KeeperCutCents: 40_00,
	})
	if err != nil {
		t.Fatalf("create order draft: %v", err)
	}
	if _, err := st.CloseAndSettle(ctx, orderID, 120_00, &Settlement{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unconfirmed order, got %v", err)
	}
}
