package main

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/chazu/quadsurf/pkg/tessellate"
)

// TestE2ECubeExample exercises the full pipeline: script -> engine -> cage
// -> subdivide -> tessellate -> render data.
func TestE2ECubeExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/cube.qs")
	if err != nil {
		t.Fatalf("failed to read cube.qs: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if result.Levels != 2 {
		t.Errorf("Levels = %d, want 2", result.Levels)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}

	m := result.Meshes[0]
	// Two levels on a cube: 98 vertices, 96 quads.
	if len(m.Vertices) != 98*3 {
		t.Errorf("got %d vertex floats, want %d", len(m.Vertices), 98*3)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	if len(m.Indices) != 96*6 {
		t.Errorf("got %d indices, want %d", len(m.Indices), 96*6)
	}
	if len(m.Edges) != 96*4*6 {
		t.Errorf("got %d edge floats, want %d", len(m.Edges), 96*4*6)
	}
	if m.PartName != surfaceName || m.Color == "" {
		t.Errorf("part %q color %q", m.PartName, m.Color)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(cube :size 2")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2EFlatMode ensures the flat renderer emits unshared corners.
func TestE2EFlatMode(t *testing.T) {
	app := NewAppWithMode(tessellate.Flat)
	result := app.Evaluate(`(cube :size 2)`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if got := len(result.Meshes[0].Vertices); got != 36*3 {
		t.Errorf("got %d vertex floats, want %d", got, 36*3)
	}
	m := result.Meshes[0]
	if m.Min != [3]float64{-1, -1, -1} || m.Max != [3]float64{1, 1, 1} {
		t.Errorf("bounds = %v..%v, want [-1 -1 -1]..[1 1 1]", m.Min, m.Max)
	}
}

func TestE2EFacetMode(t *testing.T) {
	app := NewAppWithMode(tessellate.Facet)
	result := app.Evaluate(`(cube :size 2) (subdivide 1)`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	// 24 quads after one level, two triangles each, three corners each.
	if got := len(m.Indices); got != 24*2*3 {
		t.Errorf("got %d indices, want %d", got, 24*2*3)
	}
	for i := 0; i < 3; i++ {
		if m.Min[i] >= 0 || m.Max[i] <= 0 || m.Max[i] > 1 {
			t.Errorf("axis %d bounds %v..%v should straddle 0 inside the cage", i, m.Min[i], m.Max[i])
		}
	}
}

// TestE2EResultJSON ensures the result serializes with the expected keys.
func TestE2EResultJSON(t *testing.T) {
	result := NewApp().Evaluate(`(cube)`)
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"meshes", "levels", "errors", "warnings"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}
