package probe

import (
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/state"
)

// Registry owns every known probe and isolates their failures: a broken
// probe is logged and skipped, never aborting the cycle or the session.
type Registry struct {
	probes []Probe
	log    logger.Logger
}

// NewRegistry creates an empty registry. Callers register probes
// explicitly; RegisterDefaults wires the full built-in set.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{log: log}
}

// Register appends a probe. Registration order decides write order
// within a cycle: when two probes write the same channel, the later
// registration wins.
func (r *Registry) Register(p Probe) {
	r.probes = append(r.probes, p)
}

// RegisterDefaults registers every built-in probe variant. The generic
// fallback goes last so vendor samples written earlier in a cycle are
// visible to its overwrite guards.
func (r *Registry) RegisterDefaults() {
	r.Register(NewNvidia(r.log))
	r.Register(NewAMD(r.log))
	r.Register(NewIntel(r.log))
	r.Register(NewApple(r.log))
	r.Register(NewGeneric(r.log))
}

// InitializeForHardware initializes every probe whose Supports predicate
// matches the detected hardware. Individual failures are logged and the
// probe stays inert; they never prevent other probes from initializing.
func (r *Registry) InitializeForHardware(info hwinfo.Info) {
	for _, p := range r.probes {
		if !p.Supports(info) {
			continue
		}
		if err := p.Initialize(); err != nil {
			r.log.Warn().
				Str("probe", p.Name()).
				Err(err).
				Msg("Failed to initialize hardware probe")
			continue
		}
		r.log.Info().Str("probe", p.Name()).Msg("Hardware probe initialized")
	}
}

// UpdateAll drives one poll cycle. Every registered probe is invoked,
// matching or not; uninitialized probes no-op by contract. Errors are
// absorbed here and logged. No per-probe timeout is imposed: a hung
// vendor call stalls the cycle until it returns.
func (r *Registry) UpdateAll(shared *state.Shared) {
	for _, p := range r.probes {
		if err := p.Update(shared); err != nil {
			r.log.Warn().
				Str("probe", p.Name()).
				Err(err).
				Msg("Hardware probe update failed")
		}
	}
}

// Probes returns the registered probes in registration order.
func (r *Registry) Probes() []Probe {
	return r.probes
}
