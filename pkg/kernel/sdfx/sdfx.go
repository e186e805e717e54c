// Package sdfx exports quad meshes through the github.com/deadsy/sdfx
// rendering package. Each quad is split into two sdf.Triangle3 values so the
// mesh can be written with sdfx's STL writer or fed to anything else that
// consumes sdfx triangles.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/quadsurf/pkg/kernel"
	"github.com/chazu/quadsurf/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Exporter = (*STLExporter)(nil)

// STLExporter writes binary STL files through sdfx.
type STLExporter struct{}

// New returns a new STLExporter.
func New() *STLExporter {
	return &STLExporter{}
}

// Export writes m to path as STL.
func (e *STLExporter) Export(path string, m *mesh.Mesh) error {
	return SaveSTL(path, m)
}

// Triangles splits every face of m into the triangles (0,1,2) and (0,2,3),
// in face order.
func Triangles(m *mesh.Mesh) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, 2*m.FaceCount())
	for f := 0; f < m.FaceCount(); f++ {
		vs, _ := m.FaceVertices(mesh.FaceID(f))
		var p [4]v3.Vec
		for i, v := range vs {
			p[i] = m.Position(v)
		}
		tris = append(tris,
			&sdf.Triangle3{p[0], p[1], p[2]},
			&sdf.Triangle3{p[0], p[2], p[3]},
		)
	}
	return tris
}

// SaveSTL writes the triangulated mesh to path.
func SaveSTL(path string, m *mesh.Mesh) error {
	if m.FaceCount() == 0 {
		return fmt.Errorf("sdfx: save %s: mesh has no faces", path)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

// BoundingBox returns the axis-aligned bounds of the vertex positions.
// An empty mesh yields the zero box.
func BoundingBox(m *mesh.Mesh) sdf.Box3 {
	if m.VertexCount() == 0 {
		return sdf.Box3{}
	}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for v := 0; v < m.VertexCount(); v++ {
		p := m.Position(mesh.VertexID(v))
		lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// ToMesh converts sdfx triangles to a flat kernel mesh, one normal per
// triangle. Vertices are not shared between triangles.
func ToMesh(triangles []*sdf.Triangle3, name string) *kernel.Mesh {
	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		PartName: name,
	}
}
