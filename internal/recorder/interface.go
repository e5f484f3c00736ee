package recorder

import (
	"context"
	"time"

	"codeberg.org/mutker/sysmond/internal/metric"
	"codeberg.org/mutker/sysmond/internal/state"
)

// Collector records periodic snapshots of the session state. It is an
// append-only sink: nothing in the daemon reads the samples back.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
	Enabled() bool
}

// Repository is the storage backend behind a Collector.
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot is one cycle's current values, flattened for storage.
// Channels with no sample yet record as zero.
type Snapshot struct {
	Timestamp time.Time

	CPUUtilization float64
	CPUClockMHz    uint32
	CPUPackageTemp float64
	CPUPowerWatts  float64
	CPUThrottling  bool

	GPUUtilization float64
	GPUClockMHz    uint32
	GPUMemoryMB    uint64
	GPUPackageTemp float64
	GPUPowerWatts  float64
	GPUThrottling  bool

	MemoryUsedMB uint64
	MemoryTemp   float64

	StorageReadMBps  float64
	StorageWriteMBps float64
	StorageTemp      float64
}

// SnapshotFrom flattens the current value of every recorded channel.
// Callers invoke it under a state read lock.
func SnapshotFrom(st *state.State) *Snapshot {
	return &Snapshot{
		Timestamp:        time.Now(),
		CPUUtilization:   currentOrZero(&st.CPU.Utilization),
		CPUClockMHz:      currentOrZero(&st.CPU.ClockSpeed),
		CPUPackageTemp:   currentOrZero(&st.CPU.PackageTemperature),
		CPUPowerWatts:    currentOrZero(&st.CPU.PowerDraw),
		CPUThrottling:    currentOrZero(&st.CPU.ThermalThrottling),
		GPUUtilization:   currentOrZero(&st.GPU.Utilization),
		GPUClockMHz:      currentOrZero(&st.GPU.ClockSpeed),
		GPUMemoryMB:      currentOrZero(&st.GPU.MemoryUsedMB),
		GPUPackageTemp:   currentOrZero(&st.GPU.PackageTemperature),
		GPUPowerWatts:    currentOrZero(&st.GPU.PowerDraw),
		GPUThrottling:    currentOrZero(&st.GPU.ThermalThrottling),
		MemoryUsedMB:     currentOrZero(&st.Memory.UsedMB),
		MemoryTemp:       currentOrZero(&st.Memory.Temperature),
		StorageReadMBps:  currentOrZero(&st.Storage.ReadSpeed),
		StorageWriteMBps: currentOrZero(&st.Storage.WriteSpeed),
		StorageTemp:      currentOrZero(&st.Storage.Temperature),
	}
}

func currentOrZero[T metric.Value](s *metric.Series[T]) T {
	value, _ := s.Current()
	return value
}
