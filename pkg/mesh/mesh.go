package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a quad mesh in half-edge form. The zero value is not usable;
// create meshes with New.
type Mesh struct {
	vertices  []Vertex
	halfEdges []HalfEdge
	faces     []Face

	// pending holds half-edges still waiting for a twin. Entries are removed
	// once paired and the key moves to paired, so a third face claiming the
	// same edge is detected.
	pending map[edgeKey]HalfEdgeID
	paired  map[edgeKey]struct{}

	faceNormalsValid   bool
	vertexNormalsValid bool
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{
		pending: make(map[edgeKey]HalfEdgeID),
		paired:  make(map[edgeKey]struct{}),
	}
}

// AddVertex appends a vertex at p and returns its handle.
func (m *Mesh) AddVertex(p v3.Vec) VertexID {
	m.vertices = append(m.vertices, Vertex{Position: p})
	m.invalidateNormals()
	return VertexID(len(m.vertices) - 1)
}

// AddFace appends a quad with corners v0..v3 and links its half-edges to
// the half-edges of neighboring faces that share an edge. All faces of a
// mesh must use the same winding.
//
// The mesh is left unchanged when an error is returned.
func (m *Mesh) AddFace(v0, v1, v2, v3 VertexID) (FaceID, error) {
	corners := [4]VertexID{v0, v1, v2, v3}
	for i, v := range corners {
		if !m.validVertex(v) {
			return 0, fmt.Errorf("mesh: add face: corner %d: vertex %d: %w", i, v, ErrInvalidVertexHandle)
		}
		for j := 0; j < i; j++ {
			if corners[j] == v {
				return 0, fmt.Errorf("mesh: add face: vertex %d repeated: %w", v, ErrDegenerateFace)
			}
		}
	}

	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		key := makeEdgeKey(a, b)
		if _, ok := m.paired[key]; ok {
			return 0, fmt.Errorf("mesh: add face: edge %d-%d already shared by two faces: %w", a, b, ErrNonManifoldEdge)
		}
		if twin, ok := m.pending[key]; ok && m.halfEdges[twin].Origin == a {
			return 0, fmt.Errorf("mesh: add face: edge %d->%d runs the same direction as face %d: %w",
				a, b, m.halfEdges[twin].Face, ErrNonManifoldEdge)
		}
	}

	face := FaceID(len(m.faces))
	base := HalfEdgeID(len(m.halfEdges))
	var f Face
	for i, v := range corners {
		h := base + HalfEdgeID(i)
		m.halfEdges = append(m.halfEdges, HalfEdge{
			Origin: v,
			Next:   base + HalfEdgeID((i+1)%4),
			Face:   face,
		})
		f.Edges[i] = h
		if !m.vertices[v].hasEdge {
			m.vertices[v].outgoing = h
			m.vertices[v].hasEdge = true
		}
	}
	for i := range corners {
		m.attach(base+HalfEdgeID(i), corners[i], corners[(i+1)%4])
	}
	m.faces = append(m.faces, f)

	m.invalidateNormals()
	return face, nil
}

// attach pairs h with a pending half-edge on the same undirected edge, or
// records h as pending when there is none.
func (m *Mesh) attach(h HalfEdgeID, a, b VertexID) {
	key := makeEdgeKey(a, b)
	twin, ok := m.pending[key]
	if !ok {
		m.pending[key] = h
		return
	}
	m.halfEdges[twin].opposite, m.halfEdges[twin].paired = h, true
	m.halfEdges[h].opposite, m.halfEdges[h].paired = twin, true
	delete(m.pending, key)
	m.paired[key] = struct{}{}
}

// FindEdge returns the unpaired half-edge between v0 and v1, in either
// direction. It reports false when no face uses the edge or when the edge
// already has both of its half-edges.
func (m *Mesh) FindEdge(v0, v1 VertexID) (HalfEdgeID, bool) {
	h, ok := m.pending[makeEdgeKey(v0, v1)]
	return h, ok
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// HalfEdgeCount returns the number of half-edges.
func (m *Mesh) HalfEdgeCount() int { return len(m.halfEdges) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// Vertex returns the vertex with the given handle.
func (m *Mesh) Vertex(v VertexID) (Vertex, bool) {
	if !m.validVertex(v) {
		return Vertex{}, false
	}
	return m.vertices[v], true
}

// HalfEdge returns the half-edge with the given handle.
func (m *Mesh) HalfEdge(h HalfEdgeID) (HalfEdge, bool) {
	if !m.validHalfEdge(h) {
		return HalfEdge{}, false
	}
	return m.halfEdges[h], true
}

// Face returns the face with the given handle.
func (m *Mesh) Face(f FaceID) (Face, bool) {
	if !m.validFace(f) {
		return Face{}, false
	}
	return m.faces[f], true
}

// Position returns the position of v, or the zero vector for an invalid
// handle.
func (m *Mesh) Position(v VertexID) v3.Vec {
	if !m.validVertex(v) {
		return v3.Vec{}
	}
	return m.vertices[v].Position
}

// FaceVertices returns the four corners of f in winding order.
func (m *Mesh) FaceVertices(f FaceID) ([4]VertexID, bool) {
	if !m.validFace(f) {
		return [4]VertexID{}, false
	}
	return m.corners(f), true
}

// Clone returns a deep copy that shares no storage with m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		vertices:           append([]Vertex(nil), m.vertices...),
		halfEdges:          append([]HalfEdge(nil), m.halfEdges...),
		faces:              append([]Face(nil), m.faces...),
		pending:            make(map[edgeKey]HalfEdgeID, len(m.pending)),
		paired:             make(map[edgeKey]struct{}, len(m.paired)),
		faceNormalsValid:   m.faceNormalsValid,
		vertexNormalsValid: m.vertexNormalsValid,
	}
	for k, v := range m.pending {
		c.pending[k] = v
	}
	for k := range m.paired {
		c.paired[k] = struct{}{}
	}
	return c
}

func (m *Mesh) corners(f FaceID) [4]VertexID {
	var c [4]VertexID
	for i, h := range m.faces[f].Edges {
		c[i] = m.halfEdges[h].Origin
	}
	return c
}

func (m *Mesh) validVertex(v VertexID) bool {
	return v >= 0 && int(v) < len(m.vertices)
}

func (m *Mesh) validHalfEdge(h HalfEdgeID) bool {
	return h >= 0 && int(h) < len(m.halfEdges)
}

func (m *Mesh) validFace(f FaceID) bool {
	return f >= 0 && int(f) < len(m.faces)
}

func (m *Mesh) invalidateNormals() {
	m.faceNormalsValid = false
	m.vertexNormalsValid = false
}
