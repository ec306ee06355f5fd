package store

import (
	"context"
)

const offerColumns = `id, product_id, origin_agent_id, offering_agent_id, price_cents, quantity_available, active, created_at`

func (s *Store) CreateProduct(ctx context.Context, name, sku string, basePriceCents int64) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO products (id, name, sku, base_price_cents) VALUES ($1,$2,$3,$4)`,
		id, name, sku, basePriceCents)
	return id, err
}

func (s *Store) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, sku, base_price_cents, active, created_at FROM products WHERE id = $1`, id)
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.BasePriceCents, &p.Active, &p.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (s *Store) ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, sku, base_price_cents, active, created_at FROM products WHERE active ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.BasePriceCents, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateOffer(ctx context.Context, productID, originAgentID, offeringAgentID string, priceCents, quantity int64) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO offers (id, product_id, origin_agent_id, offering_agent_id, price_cents, quantity_available)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		id, productID, originAgentID, offeringAgentID, priceCents, quantity)
	return id, err
}

func (s *Store) GetOffer(ctx context.Context, id string) (*Offer, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	var o Offer
	if err := row.Scan(&o.ID, &o.ProductID, &o.OriginAgentID, &o.OfferingAgentID, &o.PriceCents, &o.QuantityAvailable, &o.Active, &o.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &o, nil
}

// GetActiveOfferByProductAndAgent fetches the in-stock listing a specific
// agent presents for a product, if any.
func (s *Store) GetActiveOfferByProductAndAgent(ctx context.Context, productID, offeringAgentID string) (*Offer, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE product_id = $1 AND offering_agent_id = $2 AND active AND quantity_available > 0`, productID, offeringAgentID)
	var o Offer
	if err := row.Scan(&o.ID, &o.ProductID, &o.OriginAgentID, &o.OfferingAgentID, &o.PriceCents, &o.QuantityAvailable, &o.Active, &o.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &o, nil
}

// ListActiveOffersByProduct returns in-stock offers cheapest first, offer
// id as the stable tie-break.
func (s *Store) ListActiveOffersByProduct(ctx context.Context, productID string) ([]Offer, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE product_id = $1 AND active AND quantity_available > 0 ORDER BY price_cents ASC, id ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Offer{}
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.ProductID, &o.OriginAgentID, &o.OfferingAgentID, &o.PriceCents, &o.QuantityAvailable, &o.Active, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListOffersByProduct is ListActiveOffersByProduct without the stock
// filter: sold-out listings are included so catalogs can show them.
func (s *Store) ListOffersByProduct(ctx context.Context, productID string) ([]Offer, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE product_id = $1 AND active ORDER BY price_cents ASC, id ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Offer{}
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.ProductID, &o.OriginAgentID, &o.OfferingAgentID, &o.PriceCents, &o.QuantityAvailable, &o.Active, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// DeactivateOffer soft-deletes a listing. Rows referenced by historical
// orders are never physically removed.
func (s *Store) DeactivateOffer(ctx context.Context, id, offeringAgentID string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE offers SET active = FALSE WHERE id = $1 AND offering_agent_id = $2`, id, offeringAgentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
