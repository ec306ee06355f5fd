package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const agentColumns = `id, name, api_key_hash, can_shopper, can_keeper, verified, shopper_score, keeper_score, status, created_at`

func scanAgent(row pgx.Row) (*Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.Name, &a.APIKeyHash, &a.CanShopper, &a.CanKeeper, &a.Verified, &a.ShopperScore, &a.KeeperScore, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &a, nil
}

func (s *Store) CreateAgent(ctx context.Context, name, apiKey string, canShopper, canKeeper bool) (string, error) {
	id := NewID()
	hash := HashAPIKey(apiKey)
	_, err := s.Pool.Exec(ctx, `INSERT INTO agents (id, name, api_key_hash, can_shopper, can_keeper) VALUES ($1,$2,$3,$4,$5)`,
		id, name, hash, canShopper, canKeeper)
	return id, err
}

func (s *Store) GetAgentByID(ctx context.Context, id string) (*Agent, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	return scanAgent(row)
}

func (s *Store) GetAgentByAPIKey(ctx context.Context, apiKey string) (*Agent, error) {
	hash := HashAPIKey(apiKey)
	row := s.Pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE api_key_hash = $1 AND status = 'active'`, hash)
	return scanAgent(row)
}

func (s *Store) ListAgents(ctx context.Context, limit, offset int) ([]Agent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Agent{}
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.APIKeyHash, &a.CanShopper, &a.CanKeeper, &a.Verified, &a.ShopperScore, &a.KeeperScore, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) SetAgentVerified(ctx context.Context, id string, verified bool) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE agents SET verified = $2 WHERE id = $1`, id, verified)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
