// Package kernel defines the solid modeling interface meshlens uses to
// generate reference solids. A kernel builds solids from primitives and
// booleans and tessellates them into triangle soup, which then flows
// through the same normalize/validate pipeline as an uploaded file.
package kernel

import "github.com/chazu/meshlens/pkg/mesh"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid modeling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Tessellate converts a solid into triangle soup: three raw vertices
	// per triangle, faces sequential.
	Tessellate(s Solid) (*mesh.RawBlock, error)
}
