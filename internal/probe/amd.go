package probe

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/state"
)

const (
	amdPCIVendorID = "0x1002"
	drmRoot        = "/sys/class/drm"
)

// amdProbe samples an amdgpu device through its sysfs/hwmon surface.
// Linux only; on other platforms initialization fails and the probe
// stays inert.
type amdProbe struct {
	devicePath  string
	hwmonPath   string
	initialized bool
	log         logger.Logger
}

func NewAMD(log logger.Logger) Probe {
	return &amdProbe{log: log}
}

func (*amdProbe) Name() string {
	return "amd"
}

func (*amdProbe) Supports(info hwinfo.Info) bool {
	return info.HasGPU(hwinfo.GPUVendorAMD) || info.CPUVendor == hwinfo.CPUVendorAMD
}

func (p *amdProbe) Initialize() error {
	errFactory := errors.New()

	if runtime.GOOS != "linux" {
		return errFactory.New(ErrUnsupportedPlatform)
	}

	devicePath, err := findAMDDevice(drmRoot)
	if err != nil {
		return errFactory.Wrap(ErrProbeInit, err)
	}

	hwmonPath, err := findHwmonDir(devicePath)
	if err != nil {
		return errFactory.Wrap(ErrProbeInit, err)
	}

	p.devicePath = devicePath
	p.hwmonPath = hwmonPath
	p.initialized = true
	p.log.Info().Str("device", devicePath).Msg("AMD GPU probe initialized")

	return nil
}

func (p *amdProbe) Update(shared *state.Shared) error {
	if !p.initialized {
		return nil
	}

	busy, hasBusy := p.readSysfsValue(p.devicePath, "gpu_busy_percent")
	vramBytes, hasVRAM := p.readSysfsValue(p.devicePath, "mem_info_vram_used")
	clockHz, hasClock := p.readSysfsValue(p.hwmonPath, "freq1_input")
	edgeMilliC, hasEdge := p.readSysfsValue(p.hwmonPath, "temp1_input")
	junctionMilliC, hasJunction := p.readSysfsValue(p.hwmonPath, "temp2_input")
	powerMicroW, hasPower := p.readSysfsValue(p.hwmonPath, "power1_average")
	voltageMilliV, hasVoltage := p.readSysfsValue(p.hwmonPath, "in0_input")

	shared.Update(func(st *state.State) {
		if hasBusy {
			st.GPU.Utilization.Update(float64(busy))
		}
		if hasVRAM {
			st.GPU.MemoryUsedMB.Update(uint64(vramBytes) / 1024 / 1024)
		}
		if hasClock {
			st.GPU.ClockSpeed.Update(uint32(clockHz / 1_000_000))
		}
		if hasEdge {
			st.GPU.PackageTemperature.Update(float64(edgeMilliC) / 1000)
		}
		if hasJunction {
			st.GPU.HotspotTemperature.Update(float64(junctionMilliC) / 1000)
		}
		if hasPower {
			st.GPU.PowerDraw.Update(float64(powerMicroW) / 1_000_000)
		}
		if hasVoltage {
			st.GPU.CoreVoltage.Update(float64(voltageMilliV) / 1000)
		}
	})

	return nil
}

// readSysfsValue reads a single integer attribute. Missing attributes
// are normal (not every ASIC exposes every sensor) and just skip the
// channel for the cycle.
func (p *amdProbe) readSysfsValue(dir, attribute string) (int64, bool) {
	raw, err := os.ReadFile(filepath.Join(dir, attribute))
	if err != nil {
		return 0, false
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		p.log.Debug().
			Str("attribute", attribute).
			Err(err).
			Msg("Unparseable sysfs sensor value")
		return 0, false
	}

	return value, true
}

func findAMDDevice(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "card") || strings.Contains(name, "-") {
			continue
		}

		devicePath := filepath.Join(root, name, "device")
		raw, err := os.ReadFile(filepath.Join(devicePath, "vendor"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(raw)) == amdPCIVendorID {
			return devicePath, nil
		}
	}

	return "", errors.New().New(ErrNoDevice)
}

func findHwmonDir(devicePath string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(devicePath, "hwmon"))
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "hwmon") {
			return filepath.Join(devicePath, "hwmon", entry.Name()), nil
		}
	}

	return "", errors.New().New(ErrSensorUnavailable)
}
