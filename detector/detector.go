// Package detector probes what the machine can run: the WebGPU adapter
// and its compute limits on one side, the CPU's core count and SIMD
// feature flags on the other. Callers use the reports to size reduction
// grids before launching anything.
package detector

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openfluke/webgpu/wgpu"
)

// Report is a portable summary of the default adapter's compute caps.
type Report struct {
	WhenISO     string          `json:"when_iso"`
	Backend     string          `json:"backend"`
	AdapterType string          `json:"adapter_type"`
	VendorID    string          `json:"vendor_id_hex"`
	DeviceID    string          `json:"device_id_hex"`
	Name        string          `json:"name"`
	Driver      string          `json:"driver"`
	Limits      Limits          `json:"limits"`
	Recommended Recommendations `json:"recommended"`
}

type Limits struct {
	MaxComputeInvocationsPerWorkgroup uint32 `json:"max_compute_invocations_per_workgroup"`
	MaxComputeWorkgroupSizeX          uint32 `json:"max_compute_workgroup_size_x"`
	MaxComputeWorkgroupsPerDimension  uint32 `json:"max_compute_workgroups_per_dimension"`
	MaxComputeWorkgroupStorageSize    uint32 `json:"max_compute_workgroup_storage_size"`
	MaxStorageBufferBindingSize       uint64 `json:"max_storage_buffer_binding_size"`
	MaxBufferSize                     uint64 `json:"max_buffer_size"`
}

type Recommendations struct {
	// WorkgroupSize is the widest one-dimensional workgroup that fits
	// the adapter's invocation and shared-storage limits. Reduction
	// workgroups want width: fewer passes, fewer partials.
	WorkgroupSize uint32 `json:"workgroup_size"`

	// MaxGroupsPerDispatch caps a single reduction pass.
	MaxGroupsPerDispatch uint32 `json:"max_groups_per_dispatch"`
}

// DetectJSON runs a probe and returns the report as indented JSON.
func DetectJSON() (string, error) {
	rep, err := Detect()
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Detect probes the default high-performance adapter and synthesizes a
// report.
func Detect() (*Report, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, fmt.Errorf("wgpu.CreateInstance returned nil")
	}
	defer inst.Release()

	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	if adapter == nil {
		return nil, fmt.Errorf("no adapter")
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	limits := adapter.GetLimits()

	return &Report{
		WhenISO:     time.Now().UTC().Format(time.RFC3339),
		Backend:     info.BackendType.String(),
		AdapterType: info.AdapterType.String(),
		VendorID:    fmt.Sprintf("0x%04x", info.VendorId),
		DeviceID:    fmt.Sprintf("0x%04x", info.DeviceId),
		Name:        strings.TrimSpace(info.Name),
		Driver:      strings.TrimSpace(info.DriverDescription),
		Limits: Limits{
			MaxComputeInvocationsPerWorkgroup: limits.Limits.MaxComputeInvocationsPerWorkgroup,
			MaxComputeWorkgroupSizeX:          limits.Limits.MaxComputeWorkgroupSizeX,
			MaxComputeWorkgroupsPerDimension:  limits.Limits.MaxComputeWorkgroupsPerDimension,
			MaxComputeWorkgroupStorageSize:    limits.Limits.MaxComputeWorkgroupStorageSize,
			MaxStorageBufferBindingSize:       limits.Limits.MaxStorageBufferBindingSize,
			MaxBufferSize:                     limits.Limits.MaxBufferSize,
		},
		Recommended: Recommendations{
			WorkgroupSize:        chooseWorkgroup(limits),
			MaxGroupsPerDispatch: chooseGroups(limits),
		},
	}, nil
}

// chooseWorkgroup picks the widest power-of-two workgroup the adapter
// allows: width is what a tree reduction wants, and the power of two
// keeps every in-shader halving exact.
func chooseWorkgroup(l wgpu.SupportedLimits) uint32 {
	maxX := l.Limits.MaxComputeWorkgroupSizeX
	maxTot := l.Limits.MaxComputeInvocationsPerWorkgroup
	// One f32 scratch slot per invocation.
	maxBySMem := l.Limits.MaxComputeWorkgroupStorageSize / 4

	for _, c := range []uint32{256, 128, 64, 32, 16, 8, 4, 1} {
		if c <= maxX && c <= maxTot && c <= maxBySMem {
			return c
		}
	}
	return 1
}

func chooseGroups(l wgpu.SupportedLimits) uint32 {
	g := l.Limits.MaxComputeWorkgroupsPerDimension
	// A grid-stride pass has no use for millions of groups; cap where
	// partial-result traffic stops paying for itself.
	if g > 1024 {
		g = 1024
	}
	if g < 1 {
		g = 1
	}
	return g
}
