// Package hwinfo identifies the platform, CPU vendor and set of GPU
// vendors present. Detection is best-effort and never fails: anything
// that cannot be determined maps to an Unknown member.
package hwinfo

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformLinux
	PlatformMacOS
	PlatformWindows
)

func (p Platform) String() string {
	switch p {
	case PlatformLinux:
		return "linux"
	case PlatformMacOS:
		return "macos"
	case PlatformWindows:
		return "windows"
	default:
		return "unknown"
	}
}

type CPUVendor int

const (
	CPUVendorUnknown CPUVendor = iota
	CPUVendorIntel
	CPUVendorAMD
	CPUVendorApple
)

func (v CPUVendor) String() string {
	switch v {
	case CPUVendorIntel:
		return "intel"
	case CPUVendorAMD:
		return "amd"
	case CPUVendorApple:
		return "apple"
	default:
		return "unknown"
	}
}

type GPUVendor int

const (
	GPUVendorUnknown GPUVendor = iota
	GPUVendorNVIDIA
	GPUVendorAMD
	GPUVendorIntel
	GPUVendorApple
)

func (v GPUVendor) String() string {
	switch v {
	case GPUVendorNVIDIA:
		return "nvidia"
	case GPUVendorAMD:
		return "amd"
	case GPUVendorIntel:
		return "intel"
	case GPUVendorApple:
		return "apple"
	default:
		return "unknown"
	}
}

// Info is the detection result handed to every probe's Supports check.
type Info struct {
	Platform   Platform
	CPUVendor  CPUVendor
	GPUVendors []GPUVendor
}

// HasGPU reports whether vendor is among the detected GPUs.
func (i Info) HasGPU(vendor GPUVendor) bool {
	for _, v := range i.GPUVendors {
		if v == vendor {
			return true
		}
	}
	return false
}

// Detect runs hardware identification once at startup.
func Detect() Info {
	return Info{
		Platform:   detectPlatform(),
		CPUVendor:  detectCPUVendor(),
		GPUVendors: detectGPUVendors(),
	}
}

func detectPlatform() Platform {
	switch runtime.GOOS {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

func detectCPUVendor() CPUVendor {
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return CPUVendorApple
	}

	// CPUID vendor identification on x86; cpuid reports VendorUnknown
	// on other architectures.
	switch cpuid.CPU.VendorID {
	case cpuid.Intel:
		return CPUVendorIntel
	case cpuid.AMD:
		return CPUVendorAMD
	default:
		return CPUVendorUnknown
	}
}
