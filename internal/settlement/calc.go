// Package settlement computes the post-hoc margin split for a closed
// order. It is independent of the role-resolution pipeline: it runs at
// accounting time, possibly long after order creation, and never touches
// the order's frozen commission snapshot.
package settlement

import (
	"math"

	"evora-mesh/internal/store"
)

// Classification says whose client the order's buyer was.
type Classification string

const (
	BelongsToShopper Classification = "shopper"
	BelongsToKeeper  Classification = "keeper"
	// BelongsUnknown is treated as BelongsToShopper. Explicit fallback,
	// not an error.
	BelongsUnknown Classification = ""
)

// Defaults in force when the trustline carries no explicit values.
const (
	DefaultPlatformFeePct = 10.0
	DefaultAlphaShopper   = 0.60
	DefaultAlphaKeeper    = 0.40
)

type Terms struct {
	PlatformFeePct float64
	AlphaShopper   float64
	AlphaKeeper    float64
}

type Input struct {
	BasePriceCents  int64
	FinalPriceCents int64
	BelongsTo       Classification
	Terms           Terms
}

type Result struct {
	MarginCents       int64
	PlatformCutCents  int64
	NetMarginCents    int64
	ShopperShareCents int64
	KeeperShareCents  int64
}

// DefaultTerms returns the documented default configuration for a given
// classification: platform takes 10%, and the net margin goes entirely to
// the shopper for their own client, or 60/40 shopper/keeper when the
// client belongs to the keeper.
func DefaultTerms(belongsTo Classification) Terms {
	t := Terms{PlatformFeePct: DefaultPlatformFeePct}
	if belongsTo == BelongsToKeeper {
		t.AlphaShopper = DefaultAlphaShopper
		t.AlphaKeeper = DefaultAlphaKeeper
	} else {
		t.AlphaShopper = 1.0
		t.AlphaKeeper = 0
	}
	return t
}

// TermsFrom builds the effective terms from a trustline, falling back
// per-field to the defaults when the agreement holds no override. Out of
// range values degrade to the defaults rather than aborting.
func TermsFrom(tl *store.Trustline, belongsTo Classification) Terms {
	t := DefaultTerms(belongsTo)
	if tl == nil || tl.Status != store.TrustlineActive {
		return t
	}
	if v := tl.PlatformFeePct; v != nil && *v >= 0 && *v <= 100 {
		t.PlatformFeePct = *v
	}
	if v := tl.AlphaShopper; v != nil && *v >= 0 && *v <= 1 {
		t.AlphaShopper = *v
	}
	if belongsTo == BelongsToKeeper {
		if v := tl.AlphaKeeper; v != nil && *v >= 0 && *v <= 1 {
			t.AlphaKeeper = *v
		}
	}
	return t
}

// Compute splits the realized margin: platform first, then the alpha
// shares of what remains. Margin may be negative; the arithmetic is the
// same and shares come out negative.
func Compute(in Input) Result {
	margin := in.FinalPriceCents - in.BasePriceCents
	platformCut := roundCents(float64(margin) * in.Terms.PlatformFeePct / 100.0)
	net := margin - platformCut

	r := Result{
		MarginCents:      margin,
		PlatformCutCents: platformCut,
		NetMarginCents:   net,
	}
	r.ShopperShareCents = roundCents(float64(net) * in.Terms.AlphaShopper)
	if in.BelongsTo == BelongsToKeeper {
		r.KeeperShareCents = roundCents(float64(net) * in.Terms.AlphaKeeper)
	}
	return r
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
