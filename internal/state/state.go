// Package state holds the single source of truth for a monitoring
// session: one metric series per sensor channel, grouped by hardware
// domain, plus the session origin and sampling cadence.
package state

import (
	"time"

	"codeberg.org/mutker/sysmond/internal/metric"
)

// CPUMetrics groups the processor channels.
type CPUMetrics struct {
	Utilization        metric.Series[float64] // percent
	ClockSpeed         metric.Series[uint32]  // MHz
	CoreVoltage        metric.Series[float64] // V
	PowerDraw          metric.Series[float64] // W
	PackageTemperature metric.Series[float64] // °C
	HotspotTemperature metric.Series[float64] // °C
	ThermalThrottling  metric.Series[bool]
}

// GPUMetrics groups the graphics channels.
type GPUMetrics struct {
	Utilization        metric.Series[float64] // percent
	ClockSpeed         metric.Series[uint32]  // MHz
	MemoryUsedMB       metric.Series[uint64]
	CoreVoltage        metric.Series[float64] // V
	PowerDraw          metric.Series[float64] // W
	PackageTemperature metric.Series[float64] // °C
	HotspotTemperature metric.Series[float64] // °C
	ThermalThrottling  metric.Series[bool]
}

// MemoryMetrics groups the system memory channels.
type MemoryMetrics struct {
	UsedMB      metric.Series[uint64]
	ClockSpeed  metric.Series[uint32]  // MHz
	Temperature metric.Series[float64] // °C
}

// StorageMetrics groups the storage channels.
type StorageMetrics struct {
	ReadSpeed   metric.Series[float64] // MB/s
	WriteSpeed  metric.Series[float64] // MB/s
	Temperature metric.Series[float64] // °C
}

// MainboardMetrics groups the mainboard sensor channels.
type MainboardMetrics struct {
	ChipsetTemperature metric.Series[float64] // °C
	ChassisTemperature metric.Series[float64] // °C
	PumpSpeed          metric.Series[uint32]  // RPM
	ChassisFanSpeed    metric.Series[uint32]  // RPM
	ChipsetFanSpeed    metric.Series[uint32]  // RPM
}

// ViewState carries the presentation layer's per-domain expanded flags.
// The core never reads them; they live here so a single lock covers all
// session state.
type ViewState struct {
	CPUExpanded       bool
	GPUExpanded       bool
	MemoryExpanded    bool
	StorageExpanded   bool
	MainboardExpanded bool
}

// State is the aggregate telemetry model for one session. It must only be
// accessed through Shared.
type State struct {
	CPU       CPUMetrics
	GPU       GPUMetrics
	Memory    MemoryMetrics
	Storage   StorageMetrics
	Mainboard MainboardMetrics

	View ViewState

	SamplingInterval time.Duration
	SessionStart     time.Time
}

// New creates an empty session state. SessionStart is fixed here and
// never mutated afterwards.
func New(samplingInterval time.Duration) *State {
	return &State{
		View: ViewState{
			CPUExpanded:       true,
			GPUExpanded:       true,
			MemoryExpanded:    true,
			StorageExpanded:   true,
			MainboardExpanded: true,
		},
		SamplingInterval: samplingInterval,
		SessionStart:     time.Now(),
	}
}

// HasCPUData reports whether any CPU channel has produced a sample.
func (s *State) HasCPUData() bool {
	return seeded(&s.CPU.Utilization) ||
		seeded(&s.CPU.ClockSpeed) ||
		seeded(&s.CPU.CoreVoltage) ||
		seeded(&s.CPU.PowerDraw) ||
		seeded(&s.CPU.PackageTemperature) ||
		seeded(&s.CPU.HotspotTemperature) ||
		seeded(&s.CPU.ThermalThrottling)
}

// HasGPUData reports whether any GPU channel has produced a sample.
func (s *State) HasGPUData() bool {
	return seeded(&s.GPU.Utilization) ||
		seeded(&s.GPU.ClockSpeed) ||
		seeded(&s.GPU.MemoryUsedMB) ||
		seeded(&s.GPU.CoreVoltage) ||
		seeded(&s.GPU.PowerDraw) ||
		seeded(&s.GPU.PackageTemperature) ||
		seeded(&s.GPU.HotspotTemperature) ||
		seeded(&s.GPU.ThermalThrottling)
}

// HasMemoryData reports whether any memory channel has produced a sample.
func (s *State) HasMemoryData() bool {
	return seeded(&s.Memory.UsedMB) ||
		seeded(&s.Memory.ClockSpeed) ||
		seeded(&s.Memory.Temperature)
}

// HasStorageData reports whether any storage channel has produced a sample.
func (s *State) HasStorageData() bool {
	return seeded(&s.Storage.ReadSpeed) ||
		seeded(&s.Storage.WriteSpeed) ||
		seeded(&s.Storage.Temperature)
}

// HasMainboardData reports whether any mainboard channel has produced a sample.
func (s *State) HasMainboardData() bool {
	return seeded(&s.Mainboard.ChipsetTemperature) ||
		seeded(&s.Mainboard.ChassisTemperature) ||
		seeded(&s.Mainboard.PumpSpeed) ||
		seeded(&s.Mainboard.ChassisFanSpeed) ||
		seeded(&s.Mainboard.ChipsetFanSpeed)
}

func seeded[T metric.Value](s *metric.Series[T]) bool {
	_, ok := s.Current()
	return ok
}
