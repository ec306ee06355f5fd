package resolver

import (
	"math"

	"evora-mesh/internal/store"
)

// Default split applied when no active trustline exists between shopper
// and keeper. Hard policy constants, not configuration.
const (
	DefaultShopperPerc = 60.0
	DefaultKeeperPerc  = 40.0
)

type Commission struct {
	BasePriceCents   int64  `json:"base_price_cents"`
	OfferPriceCents  int64  `json:"offer_price_cents"`
	LocalMarkupCents int64  `json:"local_markup_cents"`
	ShopperCutCents  int64  `json:"shopper_cut_cents"`
	KeeperCutCents   int64  `json:"keeper_cut_cents"`
	ReferralCutCents int64  `json:"referral_cut_cents"`
	SplitReason      Reason `json:"split_reason"`
}

// ComputeCommission splits an offer's base price between shopper and
// keeper. The markup the offering agent added on top of base is theirs
// alone and never enters the split. Only an ACTIVE trustline whose
// percentages sum to exactly 100 overrides the default 60/40; a malformed
// split degrades to the defaults and says so in SplitReason rather than
// aborting, so catalogs stay browsable over partial data.
func ComputeCommission(basePriceCents, offerPriceCents int64, tl *store.Trustline) Commission {
	c := Commission{
		BasePriceCents:   basePriceCents,
		OfferPriceCents:  offerPriceCents,
		LocalMarkupCents: offerPriceCents - basePriceCents,
	}

	percShopper, percKeeper := DefaultShopperPerc, DefaultKeeperPerc
	percReferral := 0.0
	c.SplitReason = ReasonDefaultSplit

	if tl != nil && tl.Status == store.TrustlineActive {
		if tl.PercShopper+tl.PercKeeper == 100 && tl.PercShopper >= 0 && tl.PercKeeper >= 0 {
			percShopper, percKeeper = tl.PercShopper, tl.PercKeeper
			if tl.ReferralEnabled {
				percReferral = tl.PercReferral
			}
			c.SplitReason = ReasonTrustlineApplied
		} else {
			c.SplitReason = ReasonInvalidSplitConfig
		}
	}

	c.ShopperCutCents = cutCents(basePriceCents, percShopper)
	c.KeeperCutCents = cutCents(basePriceCents, percKeeper)
	c.ReferralCutCents = cutCents(basePriceCents, percReferral)
	return c
}

func cutCents(baseCents int64, perc float64) int64 {
	if perc == 0 {
		return 0
	}
	return int64(math.Round(float64(baseCents) * perc / 100.0))
}
