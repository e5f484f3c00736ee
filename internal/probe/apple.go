package probe

import (
	"runtime"

	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/state"
)

// appleProbe covers Apple Silicon. The SMC/IOKit surfaces needed for
// per-channel samples have no stable Go bindings, so for now the probe
// only claims the hardware; the generic fallback supplies CPU and
// memory figures on macOS.
//
// TODO: wire powermetrics sampling for package power once its plist
// output is stable across macOS releases.
type appleProbe struct {
	initialized bool
	log         logger.Logger
}

func NewApple(log logger.Logger) Probe {
	return &appleProbe{log: log}
}

func (*appleProbe) Name() string {
	return "apple"
}

func (*appleProbe) Supports(info hwinfo.Info) bool {
	if info.Platform != hwinfo.PlatformMacOS {
		return false
	}
	return info.CPUVendor == hwinfo.CPUVendorApple || info.HasGPU(hwinfo.GPUVendorApple)
}

func (p *appleProbe) Initialize() error {
	if runtime.GOOS != "darwin" {
		return errors.New().New(ErrUnsupportedPlatform)
	}

	p.initialized = true
	p.log.Info().Msg("Apple probe initialized")

	return nil
}

func (p *appleProbe) Update(_ *state.Shared) error {
	if !p.initialized {
		return nil
	}

	return nil
}
