package probe

import "codeberg.org/mutker/sysmond/internal/errors"

const (
	// Lifecycle errors
	ErrProbeInit      = errors.ErrProbeInit
	ErrProbeUpdate    = errors.ErrProbeUpdate
	ErrNotInitialized = errors.ErrorCode("probe_not_initialized")

	// Device errors
	ErrNVMLFailure         = errors.ErrorCode("probe_nvml_failure")
	ErrNoDevice            = errors.ErrorCode("probe_no_device")
	ErrUnsupportedPlatform = errors.ErrorCode("probe_unsupported_platform")

	// Sensor errors; never propagated, a missing sensor just skips the
	// channel for the cycle
	ErrSensorUnavailable = errors.ErrorCode("probe_sensor_unavailable")
)
