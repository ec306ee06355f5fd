package order

import (
	"context"
	"errors"

	"evora-mesh/internal/notify"
	"evora-mesh/internal/resolver"
	"evora-mesh/internal/settlement"
	"evora-mesh/internal/stats"
	"evora-mesh/internal/store"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store  *store.Store
	engine *resolver.Engine
	stats  *stats.Service
	push   *notify.Manager
}

func NewService(st *store.Store, eng *resolver.Engine, statsSvc *stats.Service, push *notify.Manager) *Service {
	return &Service{store: st, engine: eng, stats: statsSvc, push: push}
}

// Process composes the full resolution pipeline into an order draft: role
// resolution, commission snapshot, stock reservation. The snapshot is
// frozen here; later relation or trustline changes never touch it. Any
// failure aborts the attempt with nothing persisted.
func (s *Service) Process(ctx context.Context, in ProcessInput) (*DraftResponse, error) {
	if in.ClientID == "" || in.ProductID == "" {
		return nil, ErrInvalidRequest
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	res, trace, err := s.engine.ResolveRoles(ctx, in.ClientID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNoOfferAvailable
	}

	product, err := s.store.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	// Commission is computed over the line totals.
	baseTotal := product.BasePriceCents * in.Quantity
	offerTotal := res.Offer.PriceCents * in.Quantity
	commission := resolver.ComputeCommission(baseTotal, offerTotal, res.Trustline)

	belongsTo := settlement.BelongsToShopper
	if res.OperationType == resolver.CooperatedSale {
		belongsTo = settlement.BelongsToKeeper
	}

	o := &store.Order{
		ClientID:         in.ClientID,
		ShopperID:        res.Shopper,
		KeeperID:         res.Keeper,
		OfferID:          res.Offer.ID,
		OperationType:    string(res.OperationType),
		Quantity:         in.Quantity,
		BasePriceCents:   commission.BasePriceCents,
		OfferPriceCents:  commission.OfferPriceCents,
		LocalMarkupCents: commission.LocalMarkupCents,
		ShopperCutCents:  commission.ShopperCutCents,
		KeeperCutCents:   commission.KeeperCutCents,
		ReferralCutCents: commission.ReferralCutCents,
		ClientBelongsTo:  string(belongsTo),
	}
	if res.Trustline != nil {
		o.TrustlineID = &res.Trustline.ID
	}

	orderID, err := s.store.CreateOrderDraft(ctx, o)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoOfferAvailable
		}
		return nil, err
	}

	s.push.ResolvedSale(notify.SaleEvent{
		Type:          "order_created",
		OrderID:       orderID,
		ClientID:      in.ClientID,
		ShopperID:     res.Shopper,
		KeeperID:      res.Keeper,
		OperationType: string(res.OperationType),
		AmountCents:   offerTotal,
	})
	log.Info().Str("order_id", orderID).Str("operation_type", string(res.OperationType)).
		Str("shopper", res.Shopper).Str("keeper", res.Keeper).Msg("order draft created")

	resp := &DraftResponse{
		OrderID:          orderID,
		ClientID:         in.ClientID,
		Shopper:          res.Shopper,
		Keeper:           res.Keeper,
		OperationType:    string(res.OperationType),
		OfferID:          res.Offer.ID,
		Quantity:         in.Quantity,
		BasePriceCents:   commission.BasePriceCents,
		OfferPriceCents:  commission.OfferPriceCents,
		LocalMarkupCents: commission.LocalMarkupCents,
		ShopperCutCents:  commission.ShopperCutCents,
		KeeperCutCents:   commission.KeeperCutCents,
		ReferralCutCents: commission.ReferralCutCents,
		Trace:            trace,
	}
	if res.Trustline != nil {
		resp.TrustlineID = res.Trustline.ID
	}
	return resp, nil
}

// Confirm applies the order outcome through the stats service. Replays
// are no-ops, so callers may safely retry.
func (s *Service) Confirm(ctx context.Context, orderID string) (*ConfirmResponse, error) {
	if orderID == "" {
		return nil, ErrInvalidRequest
	}
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := s.stats.ApplyOrderOutcome(ctx, orderID); err != nil {
		return nil, err
	}
	return &ConfirmResponse{OrderID: orderID, Status: store.OrderConfirmed}, nil
}

// Close records the final price the client paid and computes the
// settlement for the margin. The order's commission snapshot stays
// untouched; the settlement is a separate append-only record.
func (s *Service) Close(ctx context.Context, orderID string, in CloseInput) (*SettlementResponse, error) {
	if orderID == "" || in.FinalPriceCents <= 0 {
		return nil, ErrInvalidRequest
	}
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	switch o.Status {
	case store.OrderConfirmed:
	case store.OrderSettled, store.OrderClosed:
		return nil, ErrAlreadySettled
	default:
		return nil, ErrNotConfirmed
	}

	tl, err := s.trustlineFor(ctx, o)
	if err != nil {
		return nil, err
	}
	belongsTo := settlement.Classification(o.ClientBelongsTo)
	result := settlement.Compute(settlement.Input{
		BasePriceCents:  o.BasePriceCents,
		FinalPriceCents: in.FinalPriceCents,
		BelongsTo:       belongsTo,
		Terms:           settlement.TermsFrom(tl, belongsTo),
	})

	settlementID, err := s.store.CloseAndSettle(ctx, orderID, in.FinalPriceCents, &store.Settlement{
		OrderID:           orderID,
		MarginCents:       result.MarginCents,
		PlatformCutCents:  result.PlatformCutCents,
		ShopperShareCents: result.ShopperShareCents,
		KeeperShareCents:  result.KeeperShareCents,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadySettled) {
			return nil, ErrAlreadySettled
		}
		return nil, err
	}

	s.push.Settled(notify.SettlementEvent{
		OrderID:           orderID,
		SettlementID:      settlementID,
		ShopperID:         o.ShopperID,
		KeeperID:          o.KeeperID,
		MarginCents:       result.MarginCents,
		PlatformCutCents:  result.PlatformCutCents,
		ShopperShareCents: result.ShopperShareCents,
		KeeperShareCents:  result.KeeperShareCents,
	})
	log.Info().Str("order_id", orderID).Str("settlement_id", settlementID).
		Int64("margin_cents", result.MarginCents).Msg("order settled")

	return &SettlementResponse{
		SettlementID:      settlementID,
		OrderID:           orderID,
		MarginCents:       result.MarginCents,
		PlatformCutCents:  result.PlatformCutCents,
		ShopperShareCents: result.ShopperShareCents,
		KeeperShareCents:  result.KeeperShareCents,
	}, nil
}

func (s *Service) ClientOrders(ctx context.Context, clientID string, limit, offset int) (*OrdersResponse, error) {
	if clientID == "" {
		return nil, ErrInvalidRequest
	}
	items, err := s.store.ListOrdersByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]OrderItem, 0, len(items))
	for _, o := range items {
		out = append(out, OrderItem{
			OrderID:         o.ID,
			ClientID:        o.ClientID,
			Shopper:         o.ShopperID,
			Keeper:          o.KeeperID,
			OperationType:   o.OperationType,
			Quantity:        o.Quantity,
			OfferPriceCents: o.OfferPriceCents,
			Status:          o.Status,
			CreatedAt:       o.CreatedAt,
		})
	}
	return &OrdersResponse{Items: out, Limit: limit, Offset: offset}, nil
}

// trustlineFor prefers the agreement snapshotted on the order; when the
// order carries none it retries the pair lookup, since an agreement may
// have been accepted between creation and settlement.
func (s *Service) trustlineFor(ctx context.Context, o *store.Order) (*store.Trustline, error) {
	if o.TrustlineID != nil {
		tl, err := s.store.GetTrustline(ctx, *o.TrustlineID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return tl, nil
	}
	if o.ShopperID == o.KeeperID {
		return nil, nil
	}
	tl, err := s.store.GetActiveTrustlineBetween(ctx, o.ShopperID, o.KeeperID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return tl, nil
}
