// Package tessellate turns quad meshes into the triangle meshes that
// renderers and the JSON export consume. The quad mesh is only read, though
// its normal cache may be filled in.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/quadsurf/pkg/kernel"
	"github.com/chazu/quadsurf/pkg/kernel/sdfx"
	"github.com/chazu/quadsurf/pkg/mesh"
)

// Mode selects how normals are attached to the triangles.
type Mode int

const (
	// Flat gives every triangle corner the normal of its quad. Corners are
	// not shared, so each face contributes six vertices.
	Flat Mode = iota
	// Smooth gives every corner its vertex normal. Corners are emitted in
	// the same order as Flat.
	Smooth
	// Indexed shares one vertex per mesh vertex, carrying its smooth normal,
	// and references it from the index buffer.
	Indexed
	// Facet gives each triangle its own normal, so a non-planar quad shows
	// its crease. Corners are not shared.
	Facet
)

// String returns the mode name as used on the command line.
func (m Mode) String() string {
	switch m {
	case Flat:
		return "flat"
	case Smooth:
		return "smooth"
	case Indexed:
		return "indexed"
	case Facet:
		return "facet"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Flat, Smooth, Indexed, Facet} {
		if m.String() == s {
			return m, nil
		}
	}
	return Flat, fmt.Errorf("tessellate: unknown mode %q", s)
}

// Tessellate converts m into a triangle mesh named name. Each quad becomes
// the triangles (0,1,2) and (0,2,3). Smooth and Indexed need a closed mesh.
// Facet accepts open meshes but rejects any face with a zero-area triangle.
func Tessellate(m *mesh.Mesh, mode Mode, name string) (*kernel.Mesh, error) {
	if m == nil {
		return nil, fmt.Errorf("tessellate: nil mesh")
	}

	var (
		out *kernel.Mesh
		err error
	)
	switch mode {
	case Flat, Smooth:
		out, err = fromStream(m, mode == Smooth)
	case Indexed:
		out, err = fromVertices(m)
	case Facet:
		out, err = fromFacets(m, name)
	default:
		return nil, fmt.Errorf("tessellate: unknown mode %v", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s: %w", mode, err)
	}
	out.PartName = name
	return out, nil
}

// Converter returns a function that tessellates with a fixed mode and name,
// in the shape kernel.JSONExporter expects.
func Converter(mode Mode, name string) func(*mesh.Mesh) (*kernel.Mesh, error) {
	return func(m *mesh.Mesh) (*kernel.Mesh, error) {
		return Tessellate(m, mode, name)
	}
}

// fromStream lays the triangulated vertex stream out with sequential indices.
func fromStream(m *mesh.Mesh, smooth bool) (*kernel.Mesh, error) {
	stream, err := m.TriangulatedVertexStream(smooth)
	if err != nil {
		return nil, err
	}

	vertices := make([]float32, 0, len(stream)*3)
	normals := make([]float32, 0, len(stream)*3)
	indices := make([]uint32, 0, len(stream))
	for i, sv := range stream {
		vertices = append(vertices, float32(sv.Position.X), float32(sv.Position.Y), float32(sv.Position.Z))
		normals = append(normals, float32(sv.Normal.X), float32(sv.Normal.Y), float32(sv.Normal.Z))
		indices = append(indices, uint32(i))
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// fromVertices emits one vertex per mesh vertex and indexes into them.
func fromVertices(m *mesh.Mesh) (*kernel.Mesh, error) {
	if err := m.ComputeNormals(); err != nil {
		return nil, err
	}

	vertices := make([]float32, 0, m.VertexCount()*3)
	normals := make([]float32, 0, m.VertexCount()*3)
	for v := 0; v < m.VertexCount(); v++ {
		vx, _ := m.Vertex(mesh.VertexID(v))
		vertices = append(vertices, float32(vx.Position.X), float32(vx.Position.Y), float32(vx.Position.Z))
		normals = append(normals, float32(vx.Normal.X), float32(vx.Normal.Y), float32(vx.Normal.Z))
	}

	indices := make([]uint32, 0, m.FaceCount()*6)
	for f := 0; f < m.FaceCount(); f++ {
		c, _ := m.FaceVertices(mesh.FaceID(f))
		for _, k := range [6]int{0, 1, 2, 0, 2, 3} {
			indices = append(indices, uint32(c[k]))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// fromFacets triangulates through sdfx and rejects triangles whose normal
// could not be computed.
func fromFacets(m *mesh.Mesh, name string) (*kernel.Mesh, error) {
	out := sdfx.ToMesh(sdfx.Triangles(m), name)
	// Each triangle repeats its normal three times, nine floats in all.
	for i := 0; i < len(out.Normals); i += 9 {
		n := out.Normals[i : i+3]
		if !finite32(n[0]) || !finite32(n[1]) || !finite32(n[2]) || n[0] == 0 && n[1] == 0 && n[2] == 0 {
			tri := i / 9
			return nil, fmt.Errorf("face %d triangle %d: %w", tri/2, tri%2, mesh.ErrDegenerateFace)
		}
	}
	return out, nil
}

func finite32(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
