package mesh

import "errors"

var (
	// ErrInvalidVertexHandle is returned when a vertex handle lies outside
	// the live range of the mesh.
	ErrInvalidVertexHandle = errors.New("invalid vertex handle")

	// ErrInvalidHandle is returned when a half-edge or face handle lies
	// outside the live range of the mesh.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrNonManifoldEdge is returned when more than two faces claim the same
	// undirected edge, or when two faces traverse it in the same direction.
	ErrNonManifoldEdge = errors.New("non-manifold edge")

	// ErrUnpairedEdge is returned when a traversal around a vertex reaches a
	// half-edge without an opposite.
	ErrUnpairedEdge = errors.New("unpaired edge")

	// ErrDegenerateFace is returned for quads with zero area or repeated
	// corners.
	ErrDegenerateFace = errors.New("degenerate face")
)
