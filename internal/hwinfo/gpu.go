package hwinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const drmSysfsPath = "/sys/class/drm"

func detectGPUVendors() []GPUVendor {
	var vendors []GPUVendor

	switch runtime.GOOS {
	case "linux":
		vendors = detectLinuxGPUs(drmSysfsPath)
	case "darwin":
		if runtime.GOARCH == "arm64" {
			// Apple Silicon always carries an integrated Apple GPU.
			vendors = append(vendors, GPUVendorApple)
		}
	}

	if len(vendors) == 0 {
		vendors = detectGPUsByAPI()
	}

	return vendors
}

// detectLinuxGPUs scans the DRM device tree for PCI vendor IDs.
func detectLinuxGPUs(root string) []GPUVendor {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var vendors []GPUVendor
	for _, entry := range entries {
		name := entry.Name()
		// Only whole cards; card0-DP-1 style connector nodes carry no
		// vendor file of their own.
		if !strings.HasPrefix(name, "card") || strings.Contains(name, "-") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(root, name, "device", "vendor"))
		if err != nil {
			continue
		}

		vendor := gpuVendorFromPCIID(strings.TrimSpace(string(raw)))
		if !containsVendor(vendors, vendor) {
			vendors = append(vendors, vendor)
		}
	}

	return vendors
}

func gpuVendorFromPCIID(id string) GPUVendor {
	switch strings.ToLower(strings.TrimPrefix(strings.ToLower(id), "0x")) {
	case "10de":
		return GPUVendorNVIDIA
	case "1002":
		return GPUVendorAMD
	case "8086":
		return GPUVendorIntel
	case "106b":
		return GPUVendorApple
	default:
		return GPUVendorUnknown
	}
}

func containsVendor(vendors []GPUVendor, vendor GPUVendor) bool {
	for _, v := range vendors {
		if v == vendor {
			return true
		}
	}
	return false
}

// detectGPUsByAPI falls back to vendor runtime libraries when the
// platform gave us nothing. Currently NVML only.
func detectGPUsByAPI() []GPUVendor {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS || count == 0 {
		return nil
	}

	return []GPUVendor{GPUVendorNVIDIA}
}
