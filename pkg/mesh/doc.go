// Package mesh implements a quad polygon mesh stored as a half-edge
// structure. Each face owns four half-edges linked into a cycle; each
// undirected edge of a closed mesh is represented by two half-edges on
// adjacent faces that point at each other through their opposite links.
//
// Meshes are append-only. Vertices, half-edges and faces are addressed by
// dense integer handles that stay valid for the lifetime of the mesh.
package mesh
