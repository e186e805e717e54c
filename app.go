package main

import (
	"log"

	"github.com/chazu/quadsurf/pkg/engine"
	"github.com/chazu/quadsurf/pkg/mesh"
	"github.com/chazu/quadsurf/pkg/subdivide"
	"github.com/chazu/quadsurf/pkg/tessellate"
)

// Part name and display color of the subdivided surface mesh.
const (
	surfaceName  = "surface"
	surfaceColor = "#4A90D9"
)

// App evaluates scripts and turns their meshes into render data. It is the
// backend a viewer binds to.
type App struct {
	engine *engine.Engine
	mode   tessellate.Mode
}

// MeshData is the JSON-serializable mesh format sent to a viewer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	// Edges holds the quad outlines as line segments, 6 floats each.
	Edges    []float32 `json:"edges"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	// Min and Max bound the tessellated vertices.
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Levels   int             `json:"levels"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App that renders with indexed smooth normals.
func NewApp() *App {
	return NewAppWithMode(tessellate.Indexed)
}

// NewAppWithMode creates a new App that renders with the given mode.
func NewAppWithMode(mode tessellate.Mode) *App {
	return &App{
		engine: engine.NewEngine(),
		mode:   mode,
	}
}

// Evaluate runs a script, subdivides the cage it builds to the requested
// level and returns the surface as render data.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a control cage.
	script, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the result format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.Levels = script.Levels

	// Step 3: Report structural problems of the cage as warnings.
	for _, ve := range script.Mesh.Validate() {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: ve.Error()})
	}

	if script.Mesh.FaceCount() == 0 {
		return result
	}

	// Step 4: Subdivide.
	surface, err := subdivide.Subdivide(script.Mesh, script.Levels)
	if err != nil {
		log.Printf("Subdivide error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "subdivision failed: " + err.Error(),
		})
		return result
	}
	log.Printf("subdivided to level %d: %d vertices, %d faces, mean edge %.4g",
		script.Levels, surface.VertexCount(), surface.FaceCount(), surface.MeanEdgeLength())

	// Step 5: Tessellate. Open surfaces have no smooth normals, so they
	// fall back to flat shading.
	mode := a.mode
	smooth := mode == tessellate.Smooth || mode == tessellate.Indexed
	if smooth && surface.CheckClosed() != nil {
		mode = tessellate.Flat
	}
	tm, err := tessellate.Tessellate(surface, mode, surfaceName)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	lo, hi := tm.Bounds()
	result.Meshes = append(result.Meshes, MeshData{
		Vertices: tm.Vertices,
		Normals:  tm.Normals,
		Indices:  tm.Indices,
		Edges:    edgeData(surface),
		PartName: tm.PartName,
		Color:    surfaceColor,
		Min:      lo,
		Max:      hi,
	})
	return result
}

// edgeData flattens the wireframe of m into float32 triples.
func edgeData(m *mesh.Mesh) []float32 {
	segs := m.EdgeSegments()
	out := make([]float32, 0, len(segs)*6)
	for _, s := range segs {
		for _, p := range s {
			out = append(out, float32(p.X), float32(p.Y), float32(p.Z))
		}
	}
	return out
}
