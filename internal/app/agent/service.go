package agent

import (
	"context"
	"strings"

	"evora-mesh/internal/ledger"
	"evora-mesh/internal/store"
)

type Service struct {
	store  *store.Store
	ledger *ledger.Ledger
}

func NewService(st *store.Store, led *ledger.Ledger) *Service {
	return &Service{store: st, ledger: led}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidRequest
	}
	canShopper, canKeeper := true, true
	if in.CanShopper != nil {
		canShopper = *in.CanShopper
	}
	if in.CanKeeper != nil {
		canKeeper = *in.CanKeeper
	}
	if !canShopper && !canKeeper {
		return nil, ErrInvalidRequest
	}
	apiKey := "mesh_" + store.NewID()
	id, err := s.store.CreateAgent(ctx, strings.TrimSpace(in.Name), apiKey, canShopper, canKeeper)
	if err != nil {
		return nil, err
	}
	resp := &RegisterResponse{}
	resp.Agent.AgentID = id
	resp.Agent.APIKey = apiKey
	return resp, nil
}

func (s *Service) Me(ctx context.Context, caller *store.Agent) (*MeResponse, error) {
	if caller == nil {
		return nil, ErrInvalidRequest
	}
	net, err := s.ledger.AgentNet(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		AgentID:      caller.ID,
		Name:         caller.Name,
		CanShopper:   caller.CanShopper,
		CanKeeper:    caller.CanKeeper,
		Verified:     caller.Verified,
		ShopperScore: caller.ShopperScore,
		KeeperScore:  caller.KeeperScore,
		NetCents:     net,
		CreatedAt:    caller.CreatedAt,
	}, nil
}
