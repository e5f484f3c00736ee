package hwinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUVendorFromPCIID(t *testing.T) {
	tests := []struct {
		id   string
		want GPUVendor
	}{
		{"0x10de", GPUVendorNVIDIA},
		{"0x1002", GPUVendorAMD},
		{"0x8086", GPUVendorIntel},
		{"0x106b", GPUVendorApple},
		{"10de", GPUVendorNVIDIA},
		{"0x10DE", GPUVendorNVIDIA},
		{"0xdead", GPUVendorUnknown},
		{"", GPUVendorUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, gpuVendorFromPCIID(tt.id), "id %q", tt.id)
	}
}

func TestDetectLinuxGPUs(t *testing.T) {
	root := t.TempDir()

	writeCard := func(name, vendorID string) {
		dir := filepath.Join(root, name, "device")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor"), []byte(vendorID+"\n"), 0o644))
	}

	writeCard("card0", "0x10de")
	writeCard("card1", "0x1002")

	// Connector nodes must be skipped
	require.NoError(t, os.MkdirAll(filepath.Join(root, "card0-DP-1"), 0o755))

	vendors := detectLinuxGPUs(root)
	assert.ElementsMatch(t, []GPUVendor{GPUVendorNVIDIA, GPUVendorAMD}, vendors)
}

func TestDetectLinuxGPUsDeduplicates(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"card0", "card1"} {
		dir := filepath.Join(root, name, "device")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor"), []byte("0x10de\n"), 0o644))
	}

	vendors := detectLinuxGPUs(root)
	assert.Equal(t, []GPUVendor{GPUVendorNVIDIA}, vendors)
}

func TestDetectLinuxGPUsMissingRoot(t *testing.T) {
	assert.Nil(t, detectLinuxGPUs(filepath.Join(t.TempDir(), "missing")))
}

func TestInfoHasGPU(t *testing.T) {
	info := Info{GPUVendors: []GPUVendor{GPUVendorNVIDIA, GPUVendorIntel}}

	assert.True(t, info.HasGPU(GPUVendorNVIDIA))
	assert.True(t, info.HasGPU(GPUVendorIntel))
	assert.False(t, info.HasGPU(GPUVendorAMD))
	assert.False(t, Info{}.HasGPU(GPUVendorNVIDIA))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "linux", PlatformLinux.String())
	assert.Equal(t, "macos", PlatformMacOS.String())
	assert.Equal(t, "windows", PlatformWindows.String())
	assert.Equal(t, "unknown", PlatformUnknown.String())

	assert.Equal(t, "intel", CPUVendorIntel.String())
	assert.Equal(t, "amd", CPUVendorAMD.String())
	assert.Equal(t, "apple", CPUVendorApple.String())
	assert.Equal(t, "unknown", CPUVendorUnknown.String())

	assert.Equal(t, "nvidia", GPUVendorNVIDIA.String())
	assert.Equal(t, "amd", GPUVendorAMD.String())
	assert.Equal(t, "intel", GPUVendorIntel.String())
	assert.Equal(t, "apple", GPUVendorApple.String())
	assert.Equal(t, "unknown", GPUVendorUnknown.String())
}

func TestDetectNeverFails(t *testing.T) {
	info := Detect()
	assert.NotEqual(t, "", info.Platform.String())
}
