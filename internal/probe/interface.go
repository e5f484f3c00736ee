// Package probe contains the vendor- and platform-specific telemetry
// sources and the registry that drives them.
package probe

import (
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/state"
)

// Probe is a single telemetry source. Implementations must make Update a
// successful no-op until Initialize has succeeded, so the registry can
// drive every registered probe unconditionally.
type Probe interface {
	// Name identifies the probe in logs.
	Name() string

	// Supports reports whether this probe applies to the detected
	// hardware. Pure; never touches devices.
	Supports(info hwinfo.Info) bool

	// Initialize performs one-time setup. Called at most once per
	// registry lifetime, and only for supporting probes. Failure leaves
	// the probe inert for the session.
	Initialize() error

	// Update gathers a batch of samples and writes them into shared
	// state under exclusive access. Hardware reads happen before the
	// lock is taken; only the writes hold it.
	Update(shared *state.Shared) error
}
