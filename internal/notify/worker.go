package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case j := <-m.jobs:
			m.process(ctx, j)
		}
	}
}

// process delivers one event with exponential backoff between attempts.
func (m *Manager) process(ctx context.Context, j job) {
	body := map[string]any{
		"event_type": j.eventType,
		"payload":    j.payload,
		"sent_at":    time.Now().UTC(),
	}
	headers := map[string]string{}
	if j.target.Secret != "" {
		headers["Authorization"] = "Bearer " + j.target.Secret
	}

	var err error
	for attempt := 0; attempt <= m.cfg.RetryMax; attempt++ {
		if attempt > 0 {
			backoff := m.cfg.RetryBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case <-time.After(backoff):
			}
		}
		if err = m.client.postJSON(ctx, j.target.Endpoint, headers, body); err == nil {
			return
		}
	}
	log.Warn().Err(err).Str("target", j.target.Name).Str("event_type", j.eventType).
		Int("attempts", m.cfg.RetryMax+1).Msg("push delivery failed")
}
