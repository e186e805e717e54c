package mesh

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// degenerateEpsilon is the cross product length below which a triangle is
// treated as having zero area.
const degenerateEpsilon = 1e-12

// FaceNormal computes the flat normal of f. The quad is split into the
// triangles (0,1,3) and (2,3,1) and their unit normals are averaged, which
// tolerates slightly non-planar quads. If one triangle has zero area the
// other one decides the normal.
func (m *Mesh) FaceNormal(f FaceID) (v3.Vec, error) {
	if !m.validFace(f) {
		return v3.Vec{}, fmt.Errorf("mesh: face normal: face %d: %w", f, ErrInvalidHandle)
	}
	c := m.corners(f)
	p0 := m.vertices[c[0]].Position
	p1 := m.vertices[c[1]].Position
	p2 := m.vertices[c[2]].Position
	p3 := m.vertices[c[3]].Position

	for i, p := range [4]v3.Vec{p0, p1, p2, p3} {
		if !finite(p) {
			return v3.Vec{}, fmt.Errorf("mesh: face %d corner %d is not finite: %w", f, i, ErrDegenerateFace)
		}
	}

	n0 := p0.Sub(p1).Cross(p0.Sub(p3))
	n1 := p2.Sub(p3).Cross(p2.Sub(p1))
	l0, l1 := n0.Length(), n1.Length()

	switch {
	case tiny(l0) && tiny(l1):
		return v3.Vec{}, fmt.Errorf("mesh: face %d has zero area: %w", f, ErrDegenerateFace)
	case tiny(l0):
		return n1.DivScalar(l1), nil
	case tiny(l1):
		return n0.DivScalar(l0), nil
	}

	n := n0.DivScalar(l0).Add(n1.DivScalar(l1)).DivScalar(2)
	if tiny(n.Length()) {
		return v3.Vec{}, fmt.Errorf("mesh: face %d folds onto itself: %w", f, ErrDegenerateFace)
	}
	return n, nil
}

// tiny reports whether a length is too small to normalize by. NaN counts
// as tiny.
func tiny(l float64) bool {
	return !(l > degenerateEpsilon)
}

func finite(p v3.Vec) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// VertexNormal returns the smooth normal of v: the mean flat normal of the
// faces around it. Vertices that no face uses get the zero vector.
func (m *Mesh) VertexNormal(v VertexID) (v3.Vec, error) {
	if !m.validVertex(v) {
		return v3.Vec{}, fmt.Errorf("mesh: vertex normal: vertex %d: %w", v, ErrInvalidVertexHandle)
	}
	if err := m.ensureVertexNormals(); err != nil {
		return v3.Vec{}, err
	}
	return m.vertices[v].Normal, nil
}

// ComputeNormals fills the flat normal of every face and the smooth normal
// of every vertex. Results are kept until the next AddVertex or AddFace.
func (m *Mesh) ComputeNormals() error {
	return m.ensureVertexNormals()
}

func (m *Mesh) ensureFaceNormals() error {
	if m.faceNormalsValid {
		return nil
	}
	for i := range m.faces {
		n, err := m.FaceNormal(FaceID(i))
		if err != nil {
			return err
		}
		m.faces[i].Normal = n
	}
	m.faceNormalsValid = true
	return nil
}

func (m *Mesh) ensureVertexNormals() error {
	if m.vertexNormalsValid {
		return nil
	}
	if err := m.CheckClosed(); err != nil {
		return err
	}
	if err := m.ensureFaceNormals(); err != nil {
		return err
	}

	normals := make([]v3.Vec, len(m.vertices))
	for i := range m.vertices {
		h, ok := m.vertices[i].Outgoing()
		if !ok {
			continue
		}
		var sum v3.Vec
		n, err := m.Rotate(h, func(in HalfEdgeID) {
			sum = sum.Add(m.faces[m.halfEdges[in].Face].Normal)
		})
		if err != nil {
			return err
		}
		normals[i] = sum.DivScalar(float64(n))
	}
	for i := range m.vertices {
		m.vertices[i].Normal = normals[i]
	}
	m.vertexNormalsValid = true
	return nil
}
