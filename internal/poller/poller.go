// Package poller drives the sampling loop: one registry pass per tick,
// writing through the shared state as the session's single writer.
package poller

import (
	"context"
	"time"

	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/probe"
	"codeberg.org/mutker/sysmond/internal/state"
)

type Poller struct {
	shared   *state.Shared
	registry *probe.Registry
	info     hwinfo.Info
	interval time.Duration
	log      logger.Logger
}

func New(
	shared *state.Shared,
	registry *probe.Registry,
	info hwinfo.Info,
	interval time.Duration,
	log logger.Logger,
) *Poller {
	return &Poller{
		shared:   shared,
		registry: registry,
		info:     info,
		interval: interval,
		log:      log,
	}
}

// Run initializes the matching probes, then polls until ctx is
// cancelled. The first cycle runs immediately so the session never
// starts with an empty state window.
func (p *Poller) Run(ctx context.Context) error {
	p.registry.InitializeForHardware(p.info)

	p.log.Debug().
		Dur("interval", p.interval).
		Msg("Starting poll loop")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.registry.UpdateAll(p.shared)

		select {
		case <-ctx.Done():
			p.log.Debug().Msg("Poll loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
