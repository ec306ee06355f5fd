package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrInsufficientStock = errors.New("insufficient_stock")

const orderColumns = `id, client_id, shopper_id, keeper_id, offer_id, trustline_id, operation_type, quantity, base_price_cents, offer_price_cents, local_markup_cents, shopper_cut_cents, keeper_cut_cents, referral_cut_cents, final_price_cents, client_belongs_to, status, created_at, closed_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ClientID, &o.ShopperID, &o.KeeperID, &o.OfferID, &o.TrustlineID, &o.OperationType, &o.Quantity,
		&o.BasePriceCents, &o.OfferPriceCents, &o.LocalMarkupCents, &o.ShopperCutCents, &o.KeeperCutCents, &o.ReferralCutCents,
		&o.FinalPriceCents, &o.ClientBelongsTo, &o.Status, &o.CreatedAt, &o.ClosedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &o, nil
}

// CreateOrderDraft reserves stock and inserts the draft in one transaction:
// the offer row is locked, quantity checked and decremented, then the order
// with its frozen commission snapshot is written. Nothing partial survives
// a failure anywhere in the sequence.
func (s *Store) CreateOrderDraft(ctx context.Context, o *Order) (string, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var qty int64
	row := tx.QueryRow(ctx, `SELECT quantity_available FROM offers WHERE id = $1 AND active FOR UPDATE`, o.OfferID)
	if err := row.Scan(&qty); err != nil {
		return "", mapNotFound(err)
	}
	if qty < o.Quantity {
		return "", ErrInsufficientStock
	}
	if _, err := tx.Exec(ctx, `UPDATE offers SET quantity_available = quantity_available - $2 WHERE id = $1`, o.OfferID, o.Quantity); err != nil {
		return "", err
	}

	id := NewID()
	_, err = tx.Exec(ctx, `INSERT INTO orders
		(id, client_id, shopper_id, keeper_id, offer_id, trustline_id, operation_type, quantity,
		 base_price_cents, offer_price_cents, local_markup_cents, shopper_cut_cents, keeper_cut_cents, referral_cut_cents, client_belongs_to)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		id, o.ClientID, o.ShopperID, o.KeeperID, o.OfferID, o.TrustlineID, o.OperationType, o.Quantity,
		o.BasePriceCents, o.OfferPriceCents, o.LocalMarkupCents, o.ShopperCutCents, o.KeeperCutCents, o.ReferralCutCents, o.ClientBelongsTo)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*Order, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (s *Store) ListOrdersByClient(ctx context.Context, clientID string, limit, offset int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.ShopperID, &o.KeeperID, &o.OfferID, &o.TrustlineID, &o.OperationType, &o.Quantity,
			&o.BasePriceCents, &o.OfferPriceCents, &o.LocalMarkupCents, &o.ShopperCutCents, &o.KeeperCutCents, &o.ReferralCutCents,
			&o.FinalPriceCents, &o.ClientBelongsTo, &o.Status, &o.CreatedAt, &o.ClosedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ApplyOrderOutcome confirms a draft order and applies its aggregate
// effects in one transaction: the keeper-client relation counters grow
// under a row lock, both agents' role scores move, and the commission
// cuts hit the ledger. The draft->confirmed flip is the idempotency
// guard: a second call matches zero rows and returns doneAlready=true
// without touching anything.
func (s *Store) ApplyOrderOutcome(ctx context.Context, orderID string, strengthPerOrder, scorePerOrder float64) (doneAlready bool, err error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE orders SET status = 'confirmed' WHERE id = $1 AND status = 'draft'`, orderID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		o, err := s.GetOrder(ctx, orderID)
		if err != nil {
			return false, err
		}
		if o.Status == OrderDraft {
			return false, errors.New("confirm_race")
		}
		return true, nil
	}

	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return false, err
	}
	orderValue := o.OfferPriceCents * o.Quantity

	// The edge that earned this order is keeper<->client. Insert-or-lock
	// so two concurrent confirmations for the same pair serialize.
	_, err = tx.Exec(ctx, `INSERT INTO client_relations (id, client_id, agent_id) VALUES ($1,$2,$3)
		ON CONFLICT (client_id, agent_id) DO NOTHING`, NewID(), o.ClientID, o.KeeperID)
	if err != nil {
		return false, err
	}
	var relID string
	row := tx.QueryRow(ctx, `SELECT id FROM client_relations WHERE client_id = $1 AND agent_id = $2 FOR UPDATE`, o.ClientID, o.KeeperID)
	if err := row.Scan(&relID); err != nil {
		return false, err
	}
	_, err = tx.Exec(ctx, `UPDATE client_relations SET
			strength = strength + $2,
			total_orders = total_orders + 1,
			total_value_cents = total_value_cents + $3,
			last_order_at = now(),
			status = 'ACTIVE'
		WHERE id = $1`, relID, strengthPerOrder, orderValue)
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx, `UPDATE agents SET shopper_score = shopper_score + $2 WHERE id = $1`, o.ShopperID, scorePerOrder); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE agents SET keeper_score = keeper_score + $2 WHERE id = $1`, o.KeeperID, scorePerOrder); err != nil {
		return false, err
	}

	// A cooperated order travelling a trustline is evidence the edge
	// works; grow the shopper-side directed confidence.
	if o.TrustlineID != nil {
		if err := bumpTrustlineConfidenceTx(ctx, tx, *o.TrustlineID, o.ShopperID); err != nil {
			return false, err
		}
	}

	offer, err := s.getOfferTx(ctx, tx, o.OfferID)
	if err != nil {
		return false, err
	}
	entries := []LedgerEntry{
		{AgentID: o.ShopperID, Type: "shopper_cut", AmountCents: o.ShopperCutCents},
		{AgentID: o.KeeperID, Type: "keeper_cut", AmountCents: o.KeeperCutCents},
	}
	if o.LocalMarkupCents != 0 {
		entries = append(entries, LedgerEntry{AgentID: offer.OfferingAgentID, Type: "markup_credit", AmountCents: o.LocalMarkupCents})
	}
	if o.ReferralCutCents != 0 {
		entries = append(entries, LedgerEntry{AgentID: o.KeeperID, Type: "referral_cut", AmountCents: o.ReferralCutCents})
	}
	for _, e := range entries {
		if err := recordLedgerEntryTx(ctx, tx, e.AgentID, e.Type, e.AmountCents, "order", orderID); err != nil {
			return false, err
		}
	}

	return false, tx.Commit(ctx)
}

func (s *Store) getOfferTx(ctx context.Context, tx pgx.Tx, id string) (*Offer, error) {
	row := tx.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	var o Offer
	if err := row.Scan(&o.ID, &o.ProductID, &o.OriginAgentID, &o.OfferingAgentID, &o.PriceCents, &o.QuantityAvailable, &o.Active, &o.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &o, nil
}
