package store

import (
	"context"
	"errors"
)

var ErrAlreadySettled = errors.New("already_settled")

// CloseAndSettle records the client's final price on a confirmed order,
// closes it, and writes the append-only settlement row plus the payout
// ledger entries, all in one transaction. The order's frozen commission
// fields are never touched. A second call hits the status guard and
// returns ErrAlreadySettled.
func (s *Store) CloseAndSettle(ctx context.Context, orderID string, finalPriceCents int64, st *Settlement) (string, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE orders SET status = 'settled', final_price_cents = $2, closed_at = now()
		WHERE id = $1 AND status = 'confirmed'`, orderID, finalPriceCents)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		o, err := s.GetOrder(ctx, orderID)
		if err != nil {
			return "", err
		}
		if o.Status == OrderSettled || o.Status == OrderClosed {
			return "", ErrAlreadySettled
		}
		return "", ErrNotFound
	}

	id := NewID()
	_, err = tx.Exec(ctx, `INSERT INTO settlements (id, order_id, margin_cents, platform_cut_cents, shopper_share_cents, keeper_share_cents)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		id, orderID, st.MarginCents, st.PlatformCutCents, st.ShopperShareCents, st.KeeperShareCents)
	if err != nil {
		return "", err
	}

	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return "", err
	}
	if st.PlatformCutCents != 0 {
		if err := recordLedgerEntryTx(ctx, tx, "", "platform_cut", st.PlatformCutCents, "settlement", id); err != nil {
			return "", err
		}
	}
	if st.ShopperShareCents != 0 {
		if err := recordLedgerEntryTx(ctx, tx, o.ShopperID, "settlement_share", st.ShopperShareCents, "settlement", id); err != nil {
			return "", err
		}
	}
	if st.KeeperShareCents != 0 {
		if err := recordLedgerEntryTx(ctx, tx, o.KeeperID, "settlement_share", st.KeeperShareCents, "settlement", id); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetSettlementByOrder(ctx context.Context, orderID string) (*Settlement, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, order_id, margin_cents, platform_cut_cents, shopper_share_cents, keeper_share_cents, created_at
		FROM settlements WHERE order_id = $1`, orderID)
	var st Settlement
	if err := row.Scan(&st.ID, &st.OrderID, &st.MarginCents, &st.PlatformCutCents, &st.ShopperShareCents, &st.KeeperShareCents, &st.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &st, nil
}

func (s *Store) ListSettlements(ctx context.Context, limit, offset int) ([]Settlement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT id, order_id, margin_cents, platform_cut_cents, shopper_share_cents, keeper_share_cents, created_at
		FROM settlements ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Settlement{}
	for rows.Next() {
		var st Settlement
		if err := rows.Scan(&st.ID, &st.OrderID, &st.MarginCents, &st.PlatformCutCents, &st.ShopperShareCents, &st.KeeperShareCents, &st.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
