// Package tessellate turns kernel solids into canonical meshes: the kernel
// produces triangle soup, which is normalized and checked exactly like an
// uploaded file.
package tessellate

import (
	"fmt"

	"github.com/chazu/meshlens/pkg/kernel"
	"github.com/chazu/meshlens/pkg/mesh"
	"github.com/chazu/meshlens/pkg/topology"
)

// Part is one tessellated solid.
type Part struct {
	Name       string
	Mesh       *mesh.Mesh
	Validation topology.Result
}

// Solid tessellates s with k and normalizes the result. The tessellator is
// read-only and never mutates the solid.
func Solid(k kernel.Kernel, s kernel.Solid) (*mesh.Mesh, error) {
	if s == nil {
		return nil, fmt.Errorf("tessellate: nil solid")
	}
	raw, err := k.Tessellate(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return mesh.Normalize(raw), nil
}

// Sample builds the named reference solid with k and tessellates it.
func Sample(k kernel.Kernel, name string) (*Part, error) {
	s, err := kernel.Sample(k, name)
	if err != nil {
		return nil, err
	}
	m, err := Solid(k, s)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", name, err)
	}
	return &Part{Name: name, Mesh: m, Validation: topology.Validate(m)}, nil
}
