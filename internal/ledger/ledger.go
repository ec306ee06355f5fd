package ledger

import (
	"context"

	"evora-mesh/internal/store"
)

// Ledger is the accounting facade over the append-only entries the order
// and settlement transactions write.
type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

// RecordManualAdjustment books an operator correction against an agent.
func (l *Ledger) RecordManualAdjustment(ctx context.Context, agentID string, amountCents int64, note string) (string, error) {
	return l.Store.RecordLedgerEntry(ctx, agentID, "manual_adjustment", amountCents, "note", note)
}

func (l *Ledger) Entries(ctx context.Context, f store.LedgerFilter, limit, offset int) ([]store.LedgerEntry, error) {
	return l.Store.ListLedgerEntries(ctx, f, limit, offset)
}

// AgentNet sums an agent's entries; used by the admin surface to sanity
// check payouts against settlements.
func (l *Ledger) AgentNet(ctx context.Context, agentID string) (int64, error) {
	entries, err := l.Store.ListLedgerEntries(ctx, store.LedgerFilter{AgentID: agentID}, 10000, 0)
	if err != nil {
		return 0, err
	}
	var net int64
	for _, e := range entries {
		net += e.AmountCents
	}
	return net, nil
}
