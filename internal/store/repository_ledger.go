package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func recordLedgerEntryTx(ctx context.Context, tx pgx.Tx, agentID, entryType string, amount int64, refType, refID string) error {
	_, err := tx.Exec(ctx, `INSERT INTO ledger_entries (id, agent_id, type, amount_cents, ref_type, ref_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		NewID(), agentID, entryType, amount, refType, refID)
	return err
}

func (s *Store) RecordLedgerEntry(ctx context.Context, agentID, entryType string, amount int64, refType, refID string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO ledger_entries (id, agent_id, type, amount_cents, ref_type, ref_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		id, agentID, entryType, amount, refType, refID)
	return id, err
}

type LedgerFilter struct {
	AgentID string
	OrderID string
	From    *time.Time
	To      *time.Time
}

func (s *Store) ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	where := "WHERE 1=1"
	args := []any{}
	if f.AgentID != "" {
		args = append(args, f.AgentID)
		where += fmt.Sprintf(" AND agent_id = $%d", len(args))
	}
	if f.OrderID != "" {
		args = append(args, f.OrderID)
		where += fmt.Sprintf(" AND ref_type = 'order' AND ref_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	q := `SELECT id, agent_id, type, amount_cents, ref_type, ref_id, created_at FROM ledger_entries ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.AgentID, &e.Type, &e.AmountCents, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
