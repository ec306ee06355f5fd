// Package stats owns the post-order aggregate updates: relation strength,
// volume counters and agent role scores. Everything funnels through one
// idempotent operation so concurrent confirmations never lose updates.
package stats

import (
	"context"

	"evora-mesh/internal/store"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store            *store.Store
	strengthPerOrder float64
	scorePerOrder    float64
}

func NewService(st *store.Store, strengthPerOrder, scorePerOrder float64) *Service {
	if strengthPerOrder <= 0 {
		strengthPerOrder = 1.0
	}
	if scorePerOrder <= 0 {
		scorePerOrder = 1.0
	}
	return &Service{store: st, strengthPerOrder: strengthPerOrder, scorePerOrder: scorePerOrder}
}

// ApplyOrderOutcome confirms the order and applies its aggregate effects
// atomically. Safe to call more than once: replays are detected on the
// draft->confirmed transition and skipped.
func (s *Service) ApplyOrderOutcome(ctx context.Context, orderID string) error {
	doneAlready, err := s.store.ApplyOrderOutcome(ctx, orderID, s.strengthPerOrder, s.scorePerOrder)
	if err != nil {
		return err
	}
	if doneAlready {
		log.Debug().Str("order_id", orderID).Msg("order outcome already applied")
	}
	return nil
}
