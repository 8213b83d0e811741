package detector

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// CPUReport summarizes the host CPU for sizing device-backend grids.
type CPUReport struct {
	Arch     string   `json:"arch"`
	Logical  int      `json:"logical_cpus"`
	Features []string `json:"features,omitempty"`

	// RecommendedWorkers is how many groups should execute concurrently.
	RecommendedWorkers int `json:"recommended_workers"`

	// RecommendedBlockSize is the lanes-per-group default. Goroutine
	// lanes are cheap but barrier rounds are not free, so this stays
	// well below GPU workgroup widths.
	RecommendedBlockSize int `json:"recommended_block_size"`
}

// DetectCPU reports the host CPU's parallel capabilities. It cannot
// fail: a machine with no recognizable SIMD features still reduces fine,
// just without wide loads.
func DetectCPU() *CPUReport {
	logical := runtime.NumCPU()

	rep := &CPUReport{
		Arch:                 runtime.GOARCH,
		Logical:              logical,
		Features:             cpuFeatures(),
		RecommendedWorkers:   logical,
		RecommendedBlockSize: 64,
	}
	return rep
}

func cpuFeatures() []string {
	var feats []string
	add := func(name string, has bool) {
		if has {
			feats = append(feats, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64":
		add("sse4.2", cpu.X86.HasSSE42)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("fma", cpu.X86.HasFMA)
		add("avx512f", cpu.X86.HasAVX512F)
		add("avx512vl", cpu.X86.HasAVX512VL)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("fp", cpu.ARM64.HasFP)
		add("sve", cpu.ARM64.HasSVE)
		add("atomics", cpu.ARM64.HasATOMICS)
	}
	return feats
}
