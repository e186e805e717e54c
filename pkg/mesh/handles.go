package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// VertexID addresses a vertex. Valid handles lie in [0, VertexCount()).
type VertexID int

// HalfEdgeID addresses a half-edge. Valid handles lie in [0, HalfEdgeCount()).
type HalfEdgeID int

// FaceID addresses a face. Valid handles lie in [0, FaceCount()).
type FaceID int

// Vertex is a mesh vertex.
type Vertex struct {
	Position v3.Vec
	Normal   v3.Vec // smooth shading normal, filled by ComputeNormals

	outgoing HalfEdgeID
	hasEdge  bool
}

// Outgoing returns one half-edge that starts at the vertex. It reports false
// for vertices that no face uses.
func (v Vertex) Outgoing() (HalfEdgeID, bool) {
	return v.outgoing, v.hasEdge
}

// HalfEdge is one directed side of a face.
type HalfEdge struct {
	Origin VertexID   // vertex the half-edge starts at
	Next   HalfEdgeID // following half-edge around the same face
	Face   FaceID     // owning face

	opposite HalfEdgeID
	paired   bool
}

// Opposite returns the twin half-edge on the adjacent face. It reports false
// for boundary half-edges.
func (h HalfEdge) Opposite() (HalfEdgeID, bool) {
	return h.opposite, h.paired
}

// Face is a quad. Edges lists its half-edges in winding order; Edges[i]
// starts at corner i.
type Face struct {
	Edges  [4]HalfEdgeID
	Normal v3.Vec // flat shading normal, filled by ComputeNormals
}

// edgeKey identifies an undirected edge by its endpoints in ascending order,
// so (a, b) and (b, a) map to the same key.
type edgeKey struct {
	lo, hi VertexID
}

func makeEdgeKey(a, b VertexID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}
