// Package subdivide refines closed quad meshes with the Catmull-Clark
// scheme. Every pass builds a new mesh with four times as many faces; the
// input mesh is only read.
package subdivide

import (
	"errors"
	"fmt"

	"github.com/chazu/quadsurf/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidLevel is returned for a negative subdivision level.
var ErrInvalidLevel = errors.New("invalid subdivision level")

// unset marks scratch entries that have not been computed in this pass.
const unset mesh.VertexID = -1

// Subdivide applies level Catmull-Clark passes to m and returns the result.
// Level 0 returns a copy of m.
func Subdivide(m *mesh.Mesh, level int) (*mesh.Mesh, error) {
	if level < 0 {
		return nil, fmt.Errorf("subdivide: level %d: %w", level, ErrInvalidLevel)
	}
	if level == 0 {
		return m.Clone(), nil
	}

	cur := m
	for i := 1; i <= level; i++ {
		next, err := Once(cur)
		if err != nil {
			return nil, fmt.Errorf("subdivide: level %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// Once performs a single Catmull-Clark pass. The input must be closed: a
// half-edge without an opposite makes the pass fail with
// mesh.ErrUnpairedEdge before any vertex is visited.
//
// The output vertices are laid out as all face points, then all edge
// points, then the repositioned original vertices in the order they are
// first reached. Original vertices that no face uses are dropped.
func Once(m *mesh.Mesh) (*mesh.Mesh, error) {
	if err := m.CheckClosed(); err != nil {
		return nil, err
	}

	p := newPass(m)
	p.facePoints()
	p.edgePoints()
	if err := p.vertexPoints(); err != nil {
		return nil, err
	}
	return p.build()
}

// pass holds the scratch state of one subdivision call. Nothing here is
// written back to the source mesh.
type pass struct {
	src       *mesh.Mesh
	positions []v3.Vec

	centers   []mesh.VertexID // by source face
	midpoints []mesh.VertexID // by source half-edge
	targets   []mesh.VertexID // by source vertex
}

func newPass(m *mesh.Mesh) *pass {
	p := &pass{
		src:       m,
		positions: make([]v3.Vec, 0, m.FaceCount()+m.HalfEdgeCount()/2+m.VertexCount()),
		centers:   make([]mesh.VertexID, m.FaceCount()),
		midpoints: make([]mesh.VertexID, m.HalfEdgeCount()),
		targets:   make([]mesh.VertexID, m.VertexCount()),
	}
	for i := range p.midpoints {
		p.midpoints[i] = unset
	}
	for i := range p.targets {
		p.targets[i] = unset
	}
	return p
}

func (p *pass) add(pos v3.Vec) mesh.VertexID {
	p.positions = append(p.positions, pos)
	return mesh.VertexID(len(p.positions) - 1)
}

// facePoints places one vertex at the average of each face's corners.
func (p *pass) facePoints() {
	for f := range p.centers {
		c, _ := p.src.FaceVertices(mesh.FaceID(f))
		sum := p.src.Position(c[0]).
			Add(p.src.Position(c[1])).
			Add(p.src.Position(c[2])).
			Add(p.src.Position(c[3]))
		p.centers[f] = p.add(sum.DivScalar(4))
	}
}

// edgePoints places one vertex per undirected edge at the average of the
// edge's endpoints and the face points of its two faces. Both half-edges of
// an edge share the vertex.
func (p *pass) edgePoints() {
	for f := 0; f < p.src.FaceCount(); f++ {
		face, _ := p.src.Face(mesh.FaceID(f))
		for _, h := range face.Edges {
			if p.midpoints[h] != unset {
				continue
			}
			he, _ := p.src.HalfEdge(h)
			opp, _ := he.Opposite()
			if p.midpoints[opp] != unset {
				p.midpoints[h] = p.midpoints[opp]
				continue
			}
			oe, _ := p.src.HalfEdge(opp)

			sum := p.src.Position(he.Origin).
				Add(p.src.Position(oe.Origin)).
				Add(p.positions[p.centers[he.Face]]).
				Add(p.positions[p.centers[oe.Face]])
			id := p.add(sum.DivScalar(4))
			p.midpoints[h] = id
			p.midpoints[opp] = id
		}
	}
}

// vertexPoints moves every original vertex used by a face to
//
//	(F/n + 2R/n + (n-3)P) / n
//
// where n is the valence, F the sum of the surrounding face points, R the
// sum of the midpoints of the incident edges and P the old position. Each
// vertex is computed once and shared by all of its faces.
func (p *pass) vertexPoints() error {
	for f := 0; f < p.src.FaceCount(); f++ {
		face, _ := p.src.Face(mesh.FaceID(f))
		for _, h := range face.Edges {
			he, _ := p.src.HalfEdge(h)
			v := he.Origin
			if p.targets[v] != unset {
				continue
			}

			old := p.src.Position(v)
			var sumCenters, sumMidpoints v3.Vec
			n, err := p.src.Rotate(h, func(in mesh.HalfEdgeID) {
				ie, _ := p.src.HalfEdge(in)
				sumMidpoints = sumMidpoints.Add(p.src.Position(ie.Origin).Add(old).DivScalar(2))
				sumCenters = sumCenters.Add(p.positions[p.centers[ie.Face]])
			})
			if err != nil {
				return err
			}

			valence := float64(n)
			pos := sumCenters.DivScalar(valence).
				Add(sumMidpoints.DivScalar(valence).MulScalar(2)).
				Add(old.MulScalar(valence - 3)).
				DivScalar(valence)
			p.targets[v] = p.add(pos)
		}
	}
	return nil
}

// build assembles the refined mesh. Each face (c0,c1,c2,c3) with edge
// points m0..m3 on edges c0c1..c3c0 and face point f becomes the four quads
// (c'i, mi, f, m(i-1)), which keeps the original winding.
func (p *pass) build() (*mesh.Mesh, error) {
	out := mesh.New()
	for _, pos := range p.positions {
		out.AddVertex(pos)
	}

	for f := 0; f < p.src.FaceCount(); f++ {
		face, _ := p.src.Face(mesh.FaceID(f))
		c, _ := p.src.FaceVertices(mesh.FaceID(f))
		center := p.centers[f]
		for i := 0; i < 4; i++ {
			prev := (i + 3) % 4
			_, err := out.AddFace(
				p.targets[c[i]],
				p.midpoints[face.Edges[i]],
				center,
				p.midpoints[face.Edges[prev]],
			)
			if err != nil {
				return nil, fmt.Errorf("subdivide: face %d corner %d: %w", f, i, err)
			}
		}
	}
	return out, nil
}
