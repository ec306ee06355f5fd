package store

import (
	"context"
)

func (s *Store) CreateClient(ctx context.Context, name, externalRef string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO clients (id, name, external_ref) VALUES ($1,$2,$3)`, id, name, externalRef)
	return id, err
}

func (s *Store) GetClient(ctx context.Context, id string) (*Client, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, external_ref, created_at FROM clients WHERE id = $1`, id)
	var c Client
	if err := row.Scan(&c.ID, &c.Name, &c.ExternalRef, &c.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

func (s *Store) CreateClientRelation(ctx context.Context, clientID, agentID string, strength float64) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO client_relations (id, client_id, agent_id, strength) VALUES ($1,$2,$3,$4)`,
		id, clientID, agentID, strength)
	return id, err
}

func (s *Store) GetClientRelation(ctx context.Context, id string) (*ClientRelation, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, client_id, agent_id, strength, total_orders, total_value_cents, last_order_at, status, created_at
		FROM client_relations WHERE id = $1`, id)
	var r ClientRelation
	if err := row.Scan(&r.ID, &r.ClientID, &r.AgentID, &r.Strength, &r.TotalOrders, &r.TotalValueCents, &r.LastOrderAt, &r.Status, &r.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

// ListActiveRelationsByClient returns every ACTIVE edge for the client.
// Ordering here is incidental; the ownership resolver applies its own.
func (s *Store) ListActiveRelationsByClient(ctx context.Context, clientID string) ([]ClientRelation, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, client_id, agent_id, strength, total_orders, total_value_cents, last_order_at, status, created_at
		FROM client_relations WHERE client_id = $1 AND status = 'ACTIVE'`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ClientRelation{}
	for rows.Next() {
		var r ClientRelation
		if err := rows.Scan(&r.ID, &r.ClientID, &r.AgentID, &r.Strength, &r.TotalOrders, &r.TotalValueCents, &r.LastOrderAt, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AdjustClientRelation updates strength and/or status in one statement.
// nil leaves a field untouched, so a status-only patch cannot clobber a
// strength increment committed by a concurrent order outcome.
func (s *Store) AdjustClientRelation(ctx context.Context, id string, strength *float64, status *string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE client_relations
		SET strength = COALESCE($2, strength), status = COALESCE($3, status)
		WHERE id = $1`, id, strength, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
