package trust

import (
	"context"
	"errors"

	"evora-mesh/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Propose creates a PENDING trustline from the caller to another agent.
// The split must sum to exactly 100; a bad split is rejected, never
// silently normalized.
func (s *Service) Propose(ctx context.Context, caller *store.Agent, in ProposeInput) (*ProposeResponse, error) {
	if caller == nil || in.OtherAgentID == "" || in.OtherAgentID == caller.ID {
		return nil, ErrInvalidRequest
	}
	if in.PercShopper < 0 || in.PercKeeper < 0 || in.PercShopper+in.PercKeeper != 100 {
		return nil, ErrInvalidSplit
	}
	if in.ReferralEnabled && (in.PercReferral < 0 || in.PercReferral > 100) {
		return nil, ErrInvalidSplit
	}
	if _, err := s.store.GetAgentByID(ctx, in.OtherAgentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	if existing, err := s.store.GetTrustlineBetween(ctx, caller.ID, in.OtherAgentID); err == nil && existing.Status != store.TrustlineRejected {
		return nil, ErrDuplicatePair
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	id, err := s.store.CreateTrustline(ctx, caller.ID, in.OtherAgentID, store.TrustlineParams{
		PercShopper:     in.PercShopper,
		PercKeeper:      in.PercKeeper,
		PercReferral:    in.PercReferral,
		ReferralEnabled: in.ReferralEnabled,
		PlatformFeePct:  in.PlatformFeePct,
		AlphaShopper:    in.AlphaShopper,
		AlphaKeeper:     in.AlphaKeeper,
	})
	if err != nil {
		return nil, err
	}
	return &ProposeResponse{TrustlineID: id, Status: store.TrustlinePending}, nil
}

// Accept activates a pending proposal. Only the counterparty may accept;
// the transition happens once and never reverts.
func (s *Service) Accept(ctx context.Context, caller *store.Agent, trustlineID string) (*ResolveResponse, error) {
	return s.resolve(ctx, caller, trustlineID, store.TrustlineActive)
}

func (s *Service) Reject(ctx context.Context, caller *store.Agent, trustlineID string) (*ResolveResponse, error) {
	return s.resolve(ctx, caller, trustlineID, store.TrustlineRejected)
}

func (s *Service) resolve(ctx context.Context, caller *store.Agent, trustlineID, newStatus string) (*ResolveResponse, error) {
	if caller == nil || trustlineID == "" {
		return nil, ErrInvalidRequest
	}
	tl, err := s.store.GetTrustline(ctx, trustlineID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTrustlineNotFound
		}
		return nil, err
	}
	if !tl.Involves(caller.ID) {
		return nil, ErrNotParticipant
	}
	if tl.ProposedBy == caller.ID {
		return nil, ErrSelfAcceptance
	}
	if err := s.store.ResolveTrustlineProposal(ctx, trustlineID, newStatus); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}
	return &ResolveResponse{TrustlineID: trustlineID, Status: newStatus}, nil
}

func (s *Service) List(ctx context.Context, caller *store.Agent, limit, offset int) (*TrustlinesResponse, error) {
	if caller == nil {
		return nil, ErrInvalidRequest
	}
	items, err := s.store.ListTrustlinesByAgent(ctx, caller.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]TrustlineItem, 0, len(items))
	for _, t := range items {
		out = append(out, TrustlineItem{
			ID:              t.ID,
			AgentA:          t.AgentA,
			AgentB:          t.AgentB,
			CounterpartyID:  t.Other(caller.ID),
			PercShopper:     t.PercShopper,
			PercKeeper:      t.PercKeeper,
			PercReferral:    t.PercReferral,
			ReferralEnabled: t.ReferralEnabled,
			Status:          t.Status,
			ProposedBy:      t.ProposedBy,
			CreatedAt:       t.CreatedAt,
		})
	}
	return &TrustlinesResponse{Items: out, Limit: limit, Offset: offset}, nil
}
