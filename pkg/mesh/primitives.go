package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// cubeFaces lists the corners of each cube face, wound so that the flat
// normals point outward.
var cubeFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 4, 7, 1},
	{3, 2, 6, 5},
	{1, 7, 6, 2},
	{0, 3, 5, 4},
}

// AddCube appends an axis-aligned closed cube with the given edge length
// centered at c and returns its faces.
func (m *Mesh) AddCube(c v3.Vec, size float64) ([6]FaceID, error) {
	h := size / 2
	corners := [8]v3.Vec{
		{X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: h},
		{X: -h, Y: h, Z: h},
		{X: -h, Y: -h, Z: h},
		{X: h, Y: -h, Z: -h},
		{X: -h, Y: -h, Z: -h},
		{X: -h, Y: h, Z: -h},
		{X: h, Y: h, Z: -h},
	}
	var ids [8]VertexID
	for i, p := range corners {
		ids[i] = m.AddVertex(c.Add(p))
	}

	var faces [6]FaceID
	for i, f := range cubeFaces {
		id, err := m.AddFace(ids[f[0]], ids[f[1]], ids[f[2]], ids[f[3]])
		if err != nil {
			return faces, err
		}
		faces[i] = id
	}
	return faces, nil
}

// NewCube returns a mesh holding a single closed cube with the given edge
// length centered at the origin.
func NewCube(size float64) *Mesh {
	m := New()
	// A fresh cube on an empty mesh cannot collide with existing edges.
	if _, err := m.AddCube(v3.Vec{}, size); err != nil {
		panic("mesh: NewCube: " + err.Error())
	}
	return m
}
