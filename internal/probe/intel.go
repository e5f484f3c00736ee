package probe

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/state"
)

const (
	raplPackagePath   = "/sys/class/powercap/intel-rapl:0"
	throttleCountPath = "/sys/devices/system/cpu/cpu0/thermal_throttle/core_throttle_count"
)

// intelProbe samples CPU package power through the RAPL powercap
// interface and thermal throttling through the core throttle counter.
// Both are energy/event counters, so each needs the previous cycle's
// reading; the first cycle after initialization writes nothing.
type intelProbe struct {
	lastEnergyUJ    int64
	lastEnergyAt    time.Time
	haveEnergy      bool
	lastThrottleCnt int64
	haveThrottleCnt bool
	initialized     bool
	log             logger.Logger
}

func NewIntel(log logger.Logger) Probe {
	return &intelProbe{log: log}
}

func (*intelProbe) Name() string {
	return "intel"
}

func (*intelProbe) Supports(info hwinfo.Info) bool {
	return info.CPUVendor == hwinfo.CPUVendorIntel || info.HasGPU(hwinfo.GPUVendorIntel)
}

func (p *intelProbe) Initialize() error {
	errFactory := errors.New()

	if runtime.GOOS != "linux" {
		return errFactory.New(ErrUnsupportedPlatform)
	}

	// RAPL energy counters are often root-only; a permission error here
	// leaves the probe inert rather than half-working.
	if _, err := readCounter(filepath.Join(raplPackagePath, "energy_uj")); err != nil {
		return errFactory.Wrap(ErrProbeInit, err)
	}

	p.initialized = true
	p.log.Info().Msg("Intel RAPL probe initialized")

	return nil
}

func (p *intelProbe) Update(shared *state.Shared) error {
	if !p.initialized {
		return nil
	}

	now := time.Now()

	powerWatts, hasPower := p.readPackagePower(now)
	throttling, hasThrottling := p.readThrottling()

	shared.Update(func(st *state.State) {
		if hasPower {
			st.CPU.PowerDraw.Update(powerWatts)
		}
		if hasThrottling {
			st.CPU.ThermalThrottling.Update(throttling)
		}
	})

	return nil
}

func (p *intelProbe) readPackagePower(now time.Time) (float64, bool) {
	energyUJ, err := readCounter(filepath.Join(raplPackagePath, "energy_uj"))
	if err != nil {
		return 0, false
	}

	defer func() {
		p.lastEnergyUJ = energyUJ
		p.lastEnergyAt = now
		p.haveEnergy = true
	}()

	if !p.haveEnergy {
		return 0, false
	}

	elapsed := now.Sub(p.lastEnergyAt).Seconds()
	if elapsed <= 0 {
		return 0, false
	}

	deltaUJ := energyUJ - p.lastEnergyUJ
	if deltaUJ < 0 {
		// Counter wrapped; skip this sample rather than guess the range.
		return 0, false
	}

	return float64(deltaUJ) / 1_000_000 / elapsed, true
}

func (p *intelProbe) readThrottling() (bool, bool) {
	count, err := readCounter(throttleCountPath)
	if err != nil {
		return false, false
	}

	defer func() {
		p.lastThrottleCnt = count
		p.haveThrottleCnt = true
	}()

	if !p.haveThrottleCnt {
		return false, false
	}

	return count > p.lastThrottleCnt, true
}

func readCounter(path string) (int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
}
