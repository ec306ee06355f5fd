package catalog

import (
	"context"
	"errors"

	"evora-mesh/internal/resolver"
	"evora-mesh/internal/store"
)

type Service struct {
	store  *store.Store
	engine *resolver.Engine
}

func NewService(st *store.Store, eng *resolver.Engine) *Service {
	return &Service{store: st, engine: eng}
}

func (s *Service) Products(ctx context.Context) (*ProductsResponse, error) {
	items, err := s.store.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductItem, 0, len(items))
	for _, p := range items {
		out = append(out, ProductItem{
			ID:             p.ID,
			Name:           p.Name,
			SKU:            p.SKU,
			BasePriceCents: p.BasePriceCents,
			CreatedAt:      p.CreatedAt,
		})
	}
	return &ProductsResponse{Items: out}, nil
}

func (s *Service) Owner(ctx context.Context, clientID string) (*OwnerResponse, error) {
	if clientID == "" {
		return nil, ErrInvalidRequest
	}
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	owner, trace, err := s.engine.ResolveOwner(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := &OwnerResponse{ClientID: clientID, Trace: trace}
	if owner != nil {
		resp.Found = true
		resp.AgentID = owner.AgentID
		resp.Strength = owner.Strength
	}
	return resp, nil
}

func (s *Service) Offer(ctx context.Context, clientID, productID string) (*OfferResponse, error) {
	if clientID == "" || productID == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.checkPair(ctx, clientID, productID); err != nil {
		return nil, err
	}
	offer, trace, err := s.engine.SelectOffer(ctx, clientID, productID)
	if err != nil {
		return nil, err
	}
	resp := &OfferResponse{ClientID: clientID, ProductID: productID, Trace: trace}
	if offer != nil {
		resp.Found = true
		resp.OfferID = offer.ID
		resp.OfferingAgentID = offer.OfferingAgentID
		resp.OriginAgentID = offer.OriginAgentID
		resp.PriceCents = offer.PriceCents
	}
	return resp, nil
}

func (s *Service) Roles(ctx context.Context, clientID, productID string) (*RolesResponse, error) {
	if clientID == "" || productID == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.checkPair(ctx, clientID, productID); err != nil {
		return nil, err
	}
	res, trace, err := s.engine.ResolveRoles(ctx, clientID, productID)
	if err != nil {
		return nil, err
	}
	resp := &RolesResponse{ClientID: clientID, ProductID: productID, Trace: trace}
	if res == nil {
		return resp, nil
	}
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	commission := resolver.ComputeCommission(product.BasePriceCents, res.Offer.PriceCents, res.Trustline)

	resp.Resolved = true
	resp.Shopper = res.Shopper
	resp.Keeper = res.Keeper
	resp.OperationType = string(res.OperationType)
	resp.OfferID = res.Offer.ID
	resp.Commission = &commission
	if res.Trustline != nil {
		resp.TrustlineID = res.Trustline.ID
	}
	return resp, nil
}

func (s *Service) Catalog(ctx context.Context, clientID string) (*CatalogResponse, error) {
	if clientID == "" {
		return nil, ErrInvalidRequest
	}
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	entries, trace, err := s.engine.BuildCatalog(ctx, clientID)
	if err != nil {
		return nil, err
	}
	items := make([]CatalogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, CatalogItem{
			ProductID:       e.Product.ID,
			ProductName:     e.Product.Name,
			OfferID:         e.Offer.ID,
			OfferingAgentID: e.OfferingAgentID,
			EffectiveCents:  e.EffectiveCents,
			IsAvailable:     e.IsAvailable,
			MarkupPercent:   e.MarkupPercent,
		})
	}
	return &CatalogResponse{ClientID: clientID, Items: items, Trace: trace}, nil
}

func (s *Service) checkPair(ctx context.Context, clientID, productID string) error {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
