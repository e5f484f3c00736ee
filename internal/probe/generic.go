package probe

import (
	"strings"
	"time"

	"codeberg.org/mutker/sysmond/internal/errors"
	"codeberg.org/mutker/sysmond/internal/hwinfo"
	"codeberg.org/mutker/sysmond/internal/logger"
	"codeberg.org/mutker/sysmond/internal/state"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"
)

const bytesPerMB = 1024 * 1024

// genericProbe is the platform-neutral fallback. It guarantees CPU and
// memory utilization on every supported platform and contributes
// best-effort temperatures and storage throughput where the platform
// exposes them.
type genericProbe struct {
	lastReadBytes  uint64
	lastWriteBytes uint64
	lastIOAt       time.Time
	haveIO         bool
	initialized    bool
	log            logger.Logger
}

func NewGeneric(log logger.Logger) Probe {
	return &genericProbe{log: log}
}

func (*genericProbe) Name() string {
	return "generic"
}

// Supports always reports true; the generic probe is the fallback that
// keeps every platform populated.
func (*genericProbe) Supports(_ hwinfo.Info) bool {
	return true
}

func (p *genericProbe) Initialize() error {
	// Prime the utilization delta so the first cycle reports a real
	// interval instead of boot-relative figures.
	if _, err := cpu.Percent(0, false); err != nil {
		return errors.New().Wrap(ErrProbeInit, err)
	}

	p.initialized = true
	p.log.Info().Msg("Generic probe initialized")

	return nil
}

type genericSample struct {
	cpuUtilization    float64
	hasCPUUtilization bool
	cpuClockMHz       uint32
	hasCPUClock       bool
	memoryUsedMB      uint64
	hasMemory         bool

	cpuTemp     float64
	hasCPUTemp  bool
	gpuTemp     float64
	hasGPUTemp  bool
	memTemp     float64
	hasMemTemp  bool
	diskTemp    float64
	hasDiskTemp bool
	pchTemp     float64
	hasPCHTemp  bool

	readMBps      float64
	writeMBps     float64
	hasThroughput bool
}

func (p *genericProbe) Update(shared *state.Shared) error {
	if !p.initialized {
		return nil
	}

	sample := p.read()

	shared.Update(func(st *state.State) {
		if sample.hasCPUUtilization {
			st.CPU.Utilization.Update(sample.cpuUtilization)
		}
		if sample.hasCPUClock {
			st.CPU.ClockSpeed.Update(sample.cpuClockMHz)
		}
		if sample.hasCPUTemp {
			st.CPU.PackageTemperature.Update(sample.cpuTemp)
		}
		if sample.hasMemory {
			st.Memory.UsedMB.Update(sample.memoryUsedMB)
		}
		if sample.hasMemTemp {
			st.Memory.Temperature.Update(sample.memTemp)
		}
		if sample.hasDiskTemp {
			st.Storage.Temperature.Update(sample.diskTemp)
		}
		if sample.hasPCHTemp {
			st.Mainboard.ChipsetTemperature.Update(sample.pchTemp)
		}
		if sample.hasThroughput {
			st.Storage.ReadSpeed.Update(sample.readMBps)
			st.Storage.WriteSpeed.Update(sample.writeMBps)
		}

		// A vendor probe earlier in the cycle (or any prior cycle) is
		// more authoritative for GPU temperature; never overwrite it.
		if sample.hasGPUTemp {
			if _, ok := st.GPU.PackageTemperature.Current(); !ok {
				st.GPU.PackageTemperature.Update(sample.gpuTemp)
			}
		}
	})

	return nil
}

func (p *genericProbe) read() genericSample {
	var sample genericSample

	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		sample.cpuUtilization = percent[0]
		sample.hasCPUUtilization = true
	} else if err != nil {
		p.log.Debug().Err(err).Msg("CPU utilization unavailable")
	}

	if info, err := cpu.Info(); err == nil && len(info) > 0 && info[0].Mhz > 0 {
		sample.cpuClockMHz = uint32(info[0].Mhz)
		sample.hasCPUClock = true
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		sample.memoryUsedMB = vm.Used / bytesPerMB
		sample.hasMemory = true
	} else {
		p.log.Debug().Err(err).Msg("Memory utilization unavailable")
	}

	p.readTemperatures(&sample)
	p.readThroughput(&sample)

	return sample
}

func (p *genericProbe) readTemperatures(sample *genericSample) {
	temps, err := sensors.SensorsTemperatures()
	if err != nil && len(temps) == 0 {
		p.log.Debug().Err(err).Msg("Temperature sensors unavailable")
		return
	}

	for _, t := range temps {
		key := strings.ToLower(t.SensorKey)
		switch {
		case !sample.hasCPUTemp && containsAny(key, "coretemp", "k10temp", "package", "cpu", "core"):
			sample.cpuTemp = t.Temperature
			sample.hasCPUTemp = true
		case !sample.hasGPUTemp && containsAny(key, "amdgpu", "nouveau", "gpu", "graphics", "video"):
			sample.gpuTemp = t.Temperature
			sample.hasGPUTemp = true
		case !sample.hasMemTemp && containsAny(key, "memory", "ram", "dimm", "spd"):
			sample.memTemp = t.Temperature
			sample.hasMemTemp = true
		case !sample.hasDiskTemp && containsAny(key, "nvme", "drivetemp"):
			sample.diskTemp = t.Temperature
			sample.hasDiskTemp = true
		case !sample.hasPCHTemp && containsAny(key, "pch", "chipset"):
			sample.pchTemp = t.Temperature
			sample.hasPCHTemp = true
		}
	}
}

// readThroughput derives MB/s from IO counter deltas between cycles.
// The first cycle only seeds the counters.
func (p *genericProbe) readThroughput(sample *genericSample) {
	counters, err := disk.IOCounters()
	if err != nil {
		p.log.Debug().Err(err).Msg("Disk IO counters unavailable")
		return
	}

	var readBytes, writeBytes uint64
	for name, c := range counters {
		if isVirtualOrPartition(name) {
			continue
		}
		readBytes += c.ReadBytes
		writeBytes += c.WriteBytes
	}

	now := time.Now()
	if p.haveIO {
		elapsed := now.Sub(p.lastIOAt).Seconds()
		if elapsed > 0 && readBytes >= p.lastReadBytes && writeBytes >= p.lastWriteBytes {
			sample.readMBps = float64(readBytes-p.lastReadBytes) / bytesPerMB / elapsed
			sample.writeMBps = float64(writeBytes-p.lastWriteBytes) / bytesPerMB / elapsed
			sample.hasThroughput = true
		}
	}

	p.lastReadBytes = readBytes
	p.lastWriteBytes = writeBytes
	p.lastIOAt = now
	p.haveIO = true
}

// isVirtualOrPartition filters devices that would double-count whole-disk
// traffic: loop/ram devices, device-mapper nodes, sdX partitions and
// nvme namespaces' partitions.
func isVirtualOrPartition(name string) bool {
	for _, prefix := range []string{"loop", "ram", "zram", "dm-", "md"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	if strings.HasPrefix(name, "nvme") {
		return strings.Contains(name, "p")
	}
	if strings.HasPrefix(name, "sd") || strings.HasPrefix(name, "vd") || strings.HasPrefix(name, "hd") {
		return name[len(name)-1] >= '0' && name[len(name)-1] <= '9'
	}
	return false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
