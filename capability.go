package batchgo

import (
	"golang.org/x/sys/cpu"

	"github.com/primefield/batchgo/gpu"
)

// Capability reports what the current platform can run, so callers can pick
// a BatcherType programmatically instead of discovering an unsupported
// configuration at construction time.
type Capability struct {
	// Accelerator is true when a usable WebGPU device exists.
	Accelerator bool

	// CPU feature flags, informational. Off-architecture flags are false.
	AVX2   bool
	AVX512 bool
	NEON   bool
}

// Capabilities probes the platform once per process (the accelerator check
// is cached) and returns the result.
func Capabilities() Capability {
	return Capability{
		Accelerator: gpu.Available(),
		AVX2:        cpu.X86.HasAVX2,
		AVX512:      cpu.X86.HasAVX512F,
		NEON:        cpu.ARM64.HasASIMD,
	}
}

// PreferredBackend returns DefaultAccelerator when one is available and
// SoftwareOnly otherwise. It is a convenience for the fallback flow; the
// constructors never fall back on their own.
func PreferredBackend() BatcherType {
	if gpu.Available() {
		return DefaultAccelerator()
	}
	return SoftwareOnly()
}
