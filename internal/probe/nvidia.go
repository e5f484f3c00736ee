package probe

import (
	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/state"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const milliWattsPerWatt = 1000

// nvidiaProbe samples the first NVIDIA device through NVML.
type nvidiaProbe struct {
	device      nvml.Device
	initialized bool
	log         logger.Logger
}

func NewNvidia(log logger.Logger) Probe {
	return &nvidiaProbe{log: log}
}

func (*nvidiaProbe) Name() string {
	return "nvidia"
}

func (*nvidiaProbe) Supports(info hwinfo.Info) bool {
	return info.HasGPU(hwinfo.GPUVendorNVIDIA)
}

func (p *nvidiaProbe) Initialize() error {
	errFactory := errors.New()

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return errFactory.Wrap(ErrProbeInit, nvmlError(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return errFactory.Wrap(ErrProbeInit, nvmlError(ret))
	}
	if count == 0 {
		nvml.Shutdown()
		return errFactory.New(ErrNoDevice)
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return errFactory.Wrap(ErrProbeInit, nvmlError(ret))
	}

	if name, ret := device.GetName(); ret == nvml.SUCCESS {
		p.log.Info().Str("gpu", name).Msg("Detected NVIDIA GPU")
	}

	p.device = device
	p.initialized = true

	return nil
}

// nvidiaSample holds one cycle's reads; absent sensors leave the
// corresponding flag unset and the channel untouched.
type nvidiaSample struct {
	utilization    float64
	hasUtilization bool
	clockMHz       uint32
	hasClock       bool
	memoryUsedMB   uint64
	hasMemory      bool
	temperature    float64
	hasTemperature bool
	powerWatts     float64
	hasPower       bool
	throttling     bool
	hasThrottling  bool
}

func (p *nvidiaProbe) Update(shared *state.Shared) error {
	if !p.initialized {
		return nil
	}

	sample := p.read()

	shared.Update(func(st *state.State) {
		if sample.hasUtilization {
			st.GPU.Utilization.Update(sample.utilization)
		}
		if sample.hasClock {
			st.GPU.ClockSpeed.Update(sample.clockMHz)
		}
		if sample.hasMemory {
			st.GPU.MemoryUsedMB.Update(sample.memoryUsedMB)
		}
		if sample.hasTemperature {
			st.GPU.PackageTemperature.Update(sample.temperature)
		}
		if sample.hasPower {
			st.GPU.PowerDraw.Update(sample.powerWatts)
		}
		if sample.hasThrottling {
			st.GPU.ThermalThrottling.Update(sample.throttling)
		}
	})

	return nil
}

func (p *nvidiaProbe) read() nvidiaSample {
	var sample nvidiaSample

	if utilization, ret := p.device.GetUtilizationRates(); ret == nvml.SUCCESS {
		sample.utilization = float64(utilization.Gpu)
		sample.hasUtilization = true
	}

	if clock, ret := p.device.GetClockInfo(nvml.CLOCK_GRAPHICS); ret == nvml.SUCCESS {
		sample.clockMHz = clock
		sample.hasClock = true
	}

	if memory, ret := p.device.GetMemoryInfo(); ret == nvml.SUCCESS {
		sample.memoryUsedMB = memory.Used / 1024 / 1024
		sample.hasMemory = true
	}

	if temp, ret := p.device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		sample.temperature = float64(temp)
		sample.hasTemperature = true
	}

	if power, ret := p.device.GetPowerUsage(); ret == nvml.SUCCESS {
		sample.powerWatts = float64(power) / milliWattsPerWatt
		sample.hasPower = true
	}

	if reasons, ret := p.device.GetCurrentClocksThrottleReasons(); ret == nvml.SUCCESS {
		// Idle clock gating is not thermal throttling.
		sample.throttling = reasons&^nvml.ClocksThrottleReasonGpuIdle != 0
		sample.hasThrottling = true
	}

	return sample
}

func nvmlError(ret nvml.Return) error {
	return errors.New().WithMessage(ErrNVMLFailure, nvml.ErrorString(ret))
}
