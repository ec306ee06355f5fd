package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const trustlineColumns = `id, agent_a, agent_b, confidence_ab, confidence_ba, perc_shopper, perc_keeper, perc_referral, referral_enabled, platform_fee_pct, alpha_shopper, alpha_keeper, status, proposed_by, created_at, updated_at`

// OrderedPair normalizes an unordered agent pair so (a,b) and (b,a) hit
// the same trustline row.
func OrderedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

func scanTrustline(row pgx.Row) (*Trustline, error) {
	var t Trustline
	err := row.Scan(&t.ID, &t.AgentA, &t.AgentB, &t.ConfidenceAB, &t.ConfidenceBA, &t.PercShopper, &t.PercKeeper,
		&t.PercReferral, &t.ReferralEnabled, &t.PlatformFeePct, &t.AlphaShopper, &t.AlphaKeeper, &t.Status, &t.ProposedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

type TrustlineParams struct {
	PercShopper     float64
	PercKeeper      float64
	PercReferral    float64
	ReferralEnabled bool
	PlatformFeePct  *float64
	AlphaShopper    *float64
	AlphaKeeper     *float64
}

// CreateTrustline inserts a PENDING proposal for the pair. A REJECTED row
// for the same pair is recycled in place; any other live row makes the
// insert a no-op and the call returns ErrNotFound.
func (s *Store) CreateTrustline(ctx context.Context, proposedBy, other string, p TrustlineParams) (string, error) {
	a, b := OrderedPair(proposedBy, other)
	var id string
	err := s.Pool.QueryRow(ctx, `INSERT INTO trustlines
		(id, agent_a, agent_b, perc_shopper, perc_keeper, perc_referral, referral_enabled, platform_fee_pct, alpha_shopper, alpha_keeper, proposed_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (agent_a, agent_b) DO UPDATE SET
			perc_shopper = EXCLUDED.perc_shopper,
			perc_keeper = EXCLUDED.perc_keeper,
			perc_referral = EXCLUDED.perc_referral,
			referral_enabled = EXCLUDED.referral_enabled,
			platform_fee_pct = EXCLUDED.platform_fee_pct,
			alpha_shopper = EXCLUDED.alpha_shopper,
			alpha_keeper = EXCLUDED.alpha_keeper,
			status = 'PENDING',
			proposed_by = EXCLUDED.proposed_by,
			updated_at = now()
		WHERE trustlines.status = 'REJECTED'
		RETURNING id`,
		NewID(), a, b, p.PercShopper, p.PercKeeper, p.PercReferral, p.ReferralEnabled, p.PlatformFeePct, p.AlphaShopper, p.AlphaKeeper, proposedBy).Scan(&id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

func (s *Store) GetTrustline(ctx context.Context, id string) (*Trustline, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+trustlineColumns+` FROM trustlines WHERE id = $1`, id)
	return scanTrustline(row)
}

// GetTrustlineBetween looks up the agreement for an unordered agent pair.
func (s *Store) GetTrustlineBetween(ctx context.Context, agentX, agentY string) (*Trustline, error) {
	a, b := OrderedPair(agentX, agentY)
	row := s.Pool.QueryRow(ctx, `SELECT `+trustlineColumns+` FROM trustlines WHERE agent_a = $1 AND agent_b = $2`, a, b)
	return scanTrustline(row)
}

// GetActiveTrustlineBetween is the resolver-facing lookup: only ACTIVE
// agreements participate in commission and settlement.
func (s *Store) GetActiveTrustlineBetween(ctx context.Context, agentX, agentY string) (*Trustline, error) {
	a, b := OrderedPair(agentX, agentY)
	row := s.Pool.QueryRow(ctx, `SELECT `+trustlineColumns+` FROM trustlines WHERE agent_a = $1 AND agent_b = $2 AND status = 'ACTIVE'`, a, b)
	return scanTrustline(row)
}

func (s *Store) ListTrustlinesByAgent(ctx context.Context, agentID string, limit, offset int) ([]Trustline, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+trustlineColumns+` FROM trustlines
		WHERE agent_a = $1 OR agent_b = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, agentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Trustline{}
	for rows.Next() {
		var t Trustline
		if err := rows.Scan(&t.ID, &t.AgentA, &t.AgentB, &t.ConfidenceAB, &t.ConfidenceBA, &t.PercShopper, &t.PercKeeper,
			&t.PercReferral, &t.ReferralEnabled, &t.PlatformFeePct, &t.AlphaShopper, &t.AlphaKeeper, &t.Status, &t.ProposedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ResolveTrustlineProposal flips a PENDING trustline to ACTIVE or REJECTED.
// The transition is one-way: a non-PENDING row is left untouched and
// reported as ErrNotFound so callers can surface a conflict.
func (s *Store) ResolveTrustlineProposal(ctx context.Context, id, newStatus string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE trustlines SET status = $2, updated_at = now() WHERE id = $1 AND status = 'PENDING'`, id, newStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// confidencePerOrder is the directed confidence gained by each settled
// cooperated order travelling the trustline.
const confidencePerOrder = 0.05

// bumpTrustlineConfidenceTx nudges the confidence of the direction the
// order travelled, from the given agent toward the counterparty. Capped
// at 1 so repeat business saturates rather than grows without bound.
func bumpTrustlineConfidenceTx(ctx context.Context, tx pgx.Tx, id, fromAgentID string) error {
	_, err := tx.Exec(ctx, `UPDATE trustlines SET
			confidence_ab = LEAST(1, confidence_ab + CASE WHEN agent_a = $2 THEN $3 ELSE 0 END),
			confidence_ba = LEAST(1, confidence_ba + CASE WHEN agent_b = $2 THEN $3 ELSE 0 END),
			updated_at = now()
		WHERE id = $1`, id, fromAgentID, confidencePerOrder)
	return err
}
