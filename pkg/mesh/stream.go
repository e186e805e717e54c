package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// StreamVertex is one corner of a rendered triangle.
type StreamVertex struct {
	Position v3.Vec
	Normal   v3.Vec
}

// Segment is a line segment between two points.
type Segment [2]v3.Vec

// TriangulatedVertexStream splits every quad into the triangles (0,1,2) and
// (0,2,3) and returns their corners, six per face. With smooth set the
// corners carry vertex normals, otherwise every corner carries the flat
// normal of its face. Normals are computed on demand and cached.
func (m *Mesh) TriangulatedVertexStream(smooth bool) ([]StreamVertex, error) {
	var err error
	if smooth {
		err = m.ensureVertexNormals()
	} else {
		err = m.ensureFaceNormals()
	}
	if err != nil {
		return nil, err
	}

	out := make([]StreamVertex, 0, len(m.faces)*6)
	for i, f := range m.faces {
		c := m.corners(FaceID(i))
		for _, k := range [6]int{0, 1, 2, 0, 2, 3} {
			v := m.vertices[c[k]]
			n := f.Normal
			if smooth {
				n = v.Normal
			}
			out = append(out, StreamVertex{Position: v.Position, Normal: n})
		}
	}
	return out, nil
}

// EdgeSegments returns the four sides of every face. Edges shared by two
// faces appear once per face.
func (m *Mesh) EdgeSegments() []Segment {
	out := make([]Segment, 0, len(m.faces)*4)
	for i := range m.faces {
		c := m.corners(FaceID(i))
		for k := 0; k < 4; k++ {
			out = append(out, Segment{
				m.vertices[c[k]].Position,
				m.vertices[c[(k+1)%4]].Position,
			})
		}
	}
	return out
}
