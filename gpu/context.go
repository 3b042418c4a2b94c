// Package gpu implements the hardware-accelerated batch hashing backend on
// WebGPU compute. Availability is a runtime property resolved once per
// process; there is no build-tag variance in this package.
package gpu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/openfluke/webgpu/wgpu"
)

// DeviceSelector addresses a specific accelerator device. The zero value
// selects nothing; build one with ByIndex or ByName. Validity is checked
// only when the selector is resolved to a context.
type DeviceSelector struct {
	index   int
	name    string
	byIndex bool
}

// ByIndex selects the adapter at the given enumeration position.
func ByIndex(i int) DeviceSelector {
	return DeviceSelector{index: i, byIndex: true}
}

// ByName selects the first adapter whose reported name contains s
// (case-insensitive).
func ByName(s string) DeviceSelector {
	return DeviceSelector{name: s}
}

// String returns a string representation of the DeviceSelector.
func (s DeviceSelector) String() string {
	if s.byIndex {
		return fmt.Sprintf("index:%d", s.index)
	}
	if s.name != "" {
		return fmt.Sprintf("name:%s", s.name)
	}
	return "unset"
}

// Context owns one WebGPU instance/adapter/device/queue chain. A context
// belongs to exactly one backend instance and is released with it.
type Context struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// AdapterName returns the driver-reported name of the selected adapter.
func (c *Context) AdapterName() string {
	return c.adapter.GetInfo().Name
}

// Release destroys the device and drops the instance. The context must not
// be used afterwards.
func (c *Context) Release() {
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}

// Availability is probed once per process: creating an instance and
// requesting any adapter. No mutex needed beyond the once.
var (
	probeOnce sync.Once
	probeOK   bool
)

// Available reports whether a usable accelerator exists on this platform.
// The result is resolved on first call and cached for the process lifetime.
func Available() bool {
	probeOnce.Do(func() {
		instance := wgpu.CreateInstance(nil)
		if instance == nil {
			return
		}
		defer instance.Release()

		adapter, err := instance.RequestAdapter(nil)
		if err != nil || adapter == nil {
			return
		}
		adapter.Release()

		probeOK = true
	})

	return probeOK
}

// DefaultContext acquires a context on the best available adapter,
// preferring high performance and falling back to low power, then to the
// runtime default.
func DefaultContext() (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, fmt.Errorf("gpu: failed to create WebGPU instance")
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			PowerPreference: wgpu.PowerPreferenceLowPower,
		})
	}
	if err != nil || adapter == nil {
		adapter, err = instance.RequestAdapter(nil)
	}
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: no usable adapter: %w", err)
	}
	if adapter == nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: no usable adapter")
	}

	return finishContext(instance, adapter)
}

// ContextFor resolves a device selector to a context. An unresolvable
// selector is a construction-time error, never a fallback to another
// device.
func ContextFor(sel DeviceSelector) (*Context, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, fmt.Errorf("gpu: failed to create WebGPU instance")
	}

	adapters := instance.EnumerateAdapters(nil)

	var adapter *wgpu.Adapter
	switch {
	case sel.byIndex:
		if sel.index < 0 || sel.index >= len(adapters) {
			instance.Release()
			return nil, fmt.Errorf("gpu: adapter index %d out of range, %d adapters available", sel.index, len(adapters))
		}
		adapter = adapters[sel.index]
	case sel.name != "":
		want := strings.ToLower(sel.name)
		for _, a := range adapters {
			info := a.GetInfo()
			if strings.Contains(strings.ToLower(info.Name), want) ||
				strings.Contains(strings.ToLower(info.VendorName), want) {
				adapter = a
				break
			}
		}
		if adapter == nil {
			instance.Release()
			return nil, fmt.Errorf("gpu: no adapter matching %q", sel.name)
		}
	default:
		instance.Release()
		return nil, fmt.Errorf("gpu: empty device selector")
	}

	return finishContext(instance, adapter)
}

func finishContext(instance *wgpu.Instance, adapter *wgpu.Adapter) (*Context, error) {
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	return &Context{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}
