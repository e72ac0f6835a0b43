package dgemm

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks instruction set extensions relevant to how well the
// compiler can schedule the scalar kernels (FMA fusion, vector width).
type CPUFeatures struct {
	Arch        string `json:"arch"`
	NumCPU      int    `json:"num_cpu"`
	HasSSE4     bool   `json:"sse4,omitempty"`
	HasAVX      bool   `json:"avx,omitempty"`
	HasAVX2     bool   `json:"avx2,omitempty"`
	HasFMA      bool   `json:"fma,omitempty"`
	HasAVX512F  bool   `json:"avx512f,omitempty"`
	HasAVX512DQ bool   `json:"avx512dq,omitempty"`
	HasASIMD    bool   `json:"asimd,omitempty"`
	HasSVE      bool   `json:"sve,omitempty"`
}

// Global CPU feature detection
var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		Arch:        runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		HasSSE4:     cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:      cpu.X86.HasAVX,
		HasAVX2:     cpu.X86.HasAVX2,
		HasFMA:      cpu.X86.HasFMA || runtime.GOARCH == "arm64",
		HasAVX512F:  cpu.X86.HasAVX512F,
		HasAVX512DQ: cpu.X86.HasAVX512DQ,
		HasASIMD:    cpu.ARM64.HasASIMD,
		HasSVE:      cpu.ARM64.HasSVE,
	}
}

// Features returns the detected CPU features.
func Features() CPUFeatures {
	return cpuFeatures
}

// List returns the names of the detected extensions.
func (f CPUFeatures) List() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	add(f.HasSSE4, "SSE4")
	add(f.HasAVX, "AVX")
	add(f.HasAVX2, "AVX2")
	add(f.HasFMA, "FMA")
	add(f.HasAVX512F, "AVX512F")
	add(f.HasAVX512DQ, "AVX512DQ")
	add(f.HasASIMD, "ASIMD")
	add(f.HasSVE, "SVE")
	return features
}

// GetCPUInfo returns a string describing available CPU features
func GetCPUInfo() string {
	features := cpuFeatures.List()
	if len(features) == 0 {
		return "No SIMD extensions detected"
	}
	return "CPU features: " + strings.Join(features, ", ")
}
