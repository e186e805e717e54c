// Package kernel defines the triangle mesh format handed to renderers and
// file writers, and the Exporter interface that output backends (sdfx STL,
// OBJ, JSON) implement. Backends can be swapped without touching the quad
// mesh or subdivision code.
package kernel

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chazu/quadsurf/pkg/mesh"
)

// Exporter writes a quad mesh to a file in some backend-specific format.
type Exporter interface {
	Export(path string, m *mesh.Mesh) error
}

// ExporterFunc adapts a plain function to the Exporter interface.
type ExporterFunc func(path string, m *mesh.Mesh) error

// Export calls f(path, m).
func (f ExporterFunc) Export(path string, m *mesh.Mesh) error {
	return f(path, m)
}

// JSONExporter writes the triangulated mesh as JSON in the Mesh layout.
type JSONExporter struct {
	// Convert turns the quad mesh into a triangle mesh.
	Convert func(m *mesh.Mesh) (*Mesh, error)
}

// Export converts m and writes it to path.
func (e JSONExporter) Export(path string, m *mesh.Mesh) error {
	if e.Convert == nil {
		return fmt.Errorf("kernel: json export: no converter")
	}
	tm, err := e.Convert(m)
	if err != nil {
		return fmt.Errorf("kernel: json export: %w", err)
	}
	data, err := json.Marshal(tm)
	if err != nil {
		return fmt.Errorf("kernel: json export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("kernel: json export: %w", err)
	}
	return nil
}
