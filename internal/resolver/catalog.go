package resolver

import (
	"context"
	"sort"

	"evora-mesh/internal/store"
)

type CatalogEntry struct {
	Product         store.Product
	Offer           store.Offer
	EffectiveCents  int64
	OfferingAgentID string
	IsAvailable     bool
	MarkupPercent   float64
}

// BuildCatalog runs the offer selector across every active product for one
// client and returns the per-client price list, cheapest first. A product
// whose listings are all sold out still appears, flagged unavailable at
// its cheapest listed price; only products with no listing at all are
// skipped, with the skip recorded in the trace. SelectOffer yields at
// most one offer per product, so no deduplication pass is needed. With no
// intervening writes the output is identical across calls: the product
// iteration order, the per-product selection and the final sort are all
// deterministic.
func (e *Engine) BuildCatalog(ctx context.Context, clientID string) ([]CatalogEntry, Trace, error) {
	var trace Trace
	products, err := e.src.ListActiveProducts(ctx)
	if err != nil {
		return nil, trace, err
	}

	entries := make([]CatalogEntry, 0, len(products))
	for _, p := range products {
		offer, offerTrace, err := e.SelectOffer(ctx, clientID, p.ID)
		if err != nil {
			return nil, trace, err
		}
		trace.Steps = append(trace.Steps, offerTrace.Steps...)
		available := offer != nil
		if offer == nil {
			// No in-stock listing. A sold-out one still earns a catalog
			// row so the client sees the product exists.
			listed, err := e.src.ListOffersByProduct(ctx, p.ID)
			if err != nil {
				return nil, trace, err
			}
			if len(listed) == 0 {
				continue
			}
			offer = &listed[0]
			trace.add("catalog", ReasonSoldOut, offer.OfferingAgentID, offer.ID)
		}
		entries = append(entries, CatalogEntry{
			Product:         p,
			Offer:           *offer,
			EffectiveCents:  offer.PriceCents,
			OfferingAgentID: offer.OfferingAgentID,
			IsAvailable:     available,
			MarkupPercent:   markupPercent(p.BasePriceCents, offer),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EffectiveCents != entries[j].EffectiveCents {
			return entries[i].EffectiveCents < entries[j].EffectiveCents
		}
		return entries[i].Product.ID < entries[j].Product.ID
	})
	return entries, trace, nil
}

func markupPercent(baseCents int64, offer *store.Offer) float64 {
	if offer.OfferingAgentID == offer.OriginAgentID || baseCents == 0 {
		return 0
	}
	return float64(offer.PriceCents-baseCents) / float64(baseCents) * 100.0
}
