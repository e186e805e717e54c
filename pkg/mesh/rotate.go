package mesh

import "fmt"

// Rotate walks around the origin vertex of start by repeatedly stepping to
// the opposite half-edge and then to its successor. visit is called once
// per incident face with the incoming half-edge on that face: its Face is
// the incident face and its Origin is a neighboring vertex. Rotate returns
// the number of visits, which is the valence of the vertex.
//
// The walk requires a closed neighborhood. Reaching a half-edge without an
// opposite yields ErrUnpairedEdge; a walk that does not come back to start
// within HalfEdgeCount steps yields ErrNonManifoldEdge.
func (m *Mesh) Rotate(start HalfEdgeID, visit func(in HalfEdgeID)) (int, error) {
	if !m.validHalfEdge(start) {
		return 0, fmt.Errorf("mesh: rotate: half-edge %d: %w", start, ErrInvalidHandle)
	}

	limit := len(m.halfEdges)
	valence := 0
	e := start
	for {
		in, ok := m.halfEdges[e].Opposite()
		if !ok {
			return valence, fmt.Errorf("mesh: rotate around vertex %d: half-edge %d: %w",
				m.halfEdges[start].Origin, e, ErrUnpairedEdge)
		}
		if visit != nil {
			visit(in)
		}
		valence++

		e = m.halfEdges[in].Next
		if e == start {
			return valence, nil
		}
		if valence > limit {
			return valence, fmt.Errorf("mesh: rotate around vertex %d did not close: %w",
				m.halfEdges[start].Origin, ErrNonManifoldEdge)
		}
	}
}

// Valence returns the number of edges incident to v. Vertices that no face
// uses have valence 0.
func (m *Mesh) Valence(v VertexID) (int, error) {
	if !m.validVertex(v) {
		return 0, fmt.Errorf("mesh: valence: vertex %d: %w", v, ErrInvalidVertexHandle)
	}
	h, ok := m.vertices[v].Outgoing()
	if !ok {
		return 0, nil
	}
	return m.Rotate(h, nil)
}
