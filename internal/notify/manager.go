package notify

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"evora-mesh/internal/config"

	"github.com/rs/zerolog/log"
)

type Manager struct {
	cfg     Config
	targets []Target
	client  *httpClient
	jobs    chan job
	done    chan struct{}
}

func ConfigFromServer(cfg config.ServerConfig) Config {
	out := Config{
		Enabled:    cfg.PushEnabled,
		ConfigPath: cfg.PushConfigPath,
		Workers:    cfg.PushWorkers,
		RetryMax:   cfg.PushRetryMax,
		RetryBase:  time.Duration(cfg.PushRetryBaseMS) * time.Millisecond,
		Buffer:     1024,
		Timeout:    5 * time.Second,
	}
	if out.Workers <= 0 {
		out.Workers = 4
	}
	if out.RetryMax < 0 {
		out.RetryMax = 0
	}
	if out.RetryBase <= 0 {
		out.RetryBase = 500 * time.Millisecond
	}
	return out
}

// NewManager loads targets and returns a manager. A disabled config still
// yields a usable manager whose dispatch methods are no-ops.
func NewManager(cfg Config) (*Manager, error) {
	m := &Manager{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		jobs:   make(chan job, cfg.Buffer),
		done:   make(chan struct{}),
	}
	if !cfg.Enabled {
		return m, nil
	}
	targets, err := loadTargets(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	m.targets = targets
	return m, nil
}

func loadTargets(path string) ([]Target, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var targets []Target
	if err := json.Unmarshal(b, &targets); err != nil {
		return nil, err
	}
	out := targets[:0]
	for _, t := range targets {
		if t.Enabled && t.Endpoint != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Manager) Start(ctx context.Context) {
	if !m.cfg.Enabled {
		return
	}
	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
}

func (m *Manager) Stop() {
	close(m.done)
}

// ResolvedSale dispatches an order event. Overflow drops the event with a
// log line rather than blocking the caller.
func (m *Manager) ResolvedSale(ev SaleEvent) {
	if ev.Type == "" {
		ev.Type = "order_created"
	}
	m.dispatch(ev.Type, ev)
}

func (m *Manager) Settled(ev SettlementEvent) {
	m.dispatch("order_settled", ev)
}

func (m *Manager) dispatch(eventType string, payload any) {
	if m == nil || !m.cfg.Enabled {
		return
	}
	for _, t := range m.targets {
		if !allowed(t, eventType) {
			continue
		}
		select {
		case m.jobs <- job{target: t, eventType: eventType, payload: payload}:
		default:
			log.Warn().Str("target", t.Name).Str("event_type", eventType).Msg("push queue full, event dropped")
		}
	}
}

func allowed(t Target, eventType string) bool {
	if len(t.EventAllowlist) == 0 {
		return true
	}
	for _, e := range t.EventAllowlist {
		if e == eventType {
			return true
		}
	}
	return false
}
