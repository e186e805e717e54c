package mesh

import "gonum.org/v1/gonum/stat"

// EdgeLengths returns the length of every undirected edge. Shared edges are
// counted once.
func (m *Mesh) EdgeLengths() []float64 {
	lengths := make([]float64, 0, len(m.halfEdges)/2+1)
	for i, h := range m.halfEdges {
		if h.paired && h.opposite < HalfEdgeID(i) {
			continue
		}
		a := m.vertices[h.Origin].Position
		b := m.vertices[m.halfEdges[h.Next].Origin].Position
		lengths = append(lengths, b.Sub(a).Length())
	}
	return lengths
}

// MeanEdgeLength returns the mean length of the undirected edges, or 0 for
// a mesh without faces.
func (m *Mesh) MeanEdgeLength() float64 {
	lengths := m.EdgeLengths()
	if len(lengths) == 0 {
		return 0
	}
	return stat.Mean(lengths, nil)
}
