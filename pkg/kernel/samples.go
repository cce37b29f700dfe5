package kernel

import (
	"fmt"
	"sort"
)

// SampleFunc builds one reference solid.
type SampleFunc func(k Kernel) Solid

// samples are the named reference solids offered by "meshlens sample".
// Dimensions are millimetres.
var samples = map[string]SampleFunc{
	"box": func(k Kernel) Solid {
		return k.Box(40, 30, 20)
	},
	"cylinder": func(k Kernel) Solid {
		return k.Cylinder(40, 12)
	},
	// bracket is an L of two plates with a through hole in the base.
	"bracket": func(k Kernel) Solid {
		base := k.Box(60, 30, 6)
		wall := k.Translate(k.Box(6, 30, 40), 0, 0, 6)
		hole := k.Translate(k.Cylinder(20, 5), 35, 15, 3)
		return k.Difference(k.Union(base, wall), hole)
	},
}

// SampleNames returns the available sample names, sorted.
func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for n := range samples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sample builds the named reference solid with k.
func Sample(k Kernel, name string) (Solid, error) {
	fn, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q, want one of %v", name, SampleNames())
	}
	return fn(k), nil
}
