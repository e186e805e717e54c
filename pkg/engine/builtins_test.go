package engine

import (
	"errors"
	"testing"

	"github.com/chazu/quadsurf/pkg/mesh"
	"github.com/chazu/quadsurf/pkg/subdivide"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cube :size 2)`,
			expect: `(cube "__kw_size" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cube :size 2 :at p)`,
			expect: `(cube "__kw_size" 2 "__kw_at" p)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(vertex-count)`,
			expect: `(vertex_count)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:edge-length`,
			expect: `"__kw_edge-length"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *Script {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil script")
	}
	return s
}

// evalFail evaluates source and returns the eval errors, failing the test if
// there are none.
func evalFail(t *testing.T, source string) []EvalError {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil script on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs
}

// ---------------------------------------------------------------------------
// Construction tests
// ---------------------------------------------------------------------------

func TestVertexAndFace(t *testing.T) {
	s := evalOK(t, `
; a unit quad in the z=0 plane
(def v0 (vertex 0 0 0))
(def v1 (vertex 1 0 0))
(def v2 (vertex 1 1 0))
(def v3 (vertex 0 1 0))
(face v0 v1 v2 v3)
`)
	m := s.Mesh
	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Fatalf("got %d vertices / %d faces, want 4 / 1", m.VertexCount(), m.FaceCount())
	}
	if p := m.Position(2); p != (v3.Vec{X: 1, Y: 1, Z: 0}) {
		t.Errorf("vertex 2 = %v, want (1,1,0)", p)
	}
	vs, ok := m.FaceVertices(0)
	if !ok || vs != [4]mesh.VertexID{0, 1, 2, 3} {
		t.Errorf("face 0 = %v, %v, want [0 1 2 3]", vs, ok)
	}
	n, err := m.FaceNormal(0)
	if err != nil {
		t.Fatalf("FaceNormal: %v", err)
	}
	if n != (v3.Vec{X: 0, Y: 0, Z: 1}) {
		t.Errorf("normal = %v, want (0,0,1)", n)
	}
}

func TestVertexFromVec3AndFloats(t *testing.T) {
	s := evalOK(t, `
(vertex (vec3 0.5 1.5 2))
(vertex 1 2.25 3)
`)
	want := []v3.Vec{{X: 0.5, Y: 1.5, Z: 2}, {X: 1, Y: 2.25, Z: 3}}
	for i, w := range want {
		if p := s.Mesh.Position(mesh.VertexID(i)); p != w {
			t.Errorf("vertex %d = %v, want %v", i, p, w)
		}
	}
}

func TestCubeAndSubdivide(t *testing.T) {
	s := evalOK(t, `
(def edge 2)
(cube :size edge)
(subdivide 2)
`)
	if s.Levels != 2 {
		t.Errorf("Levels = %d, want 2", s.Levels)
	}
	if s.Mesh.VertexCount() != 8 || s.Mesh.FaceCount() != 6 {
		t.Fatalf("got %d vertices / %d faces, want 8 / 6", s.Mesh.VertexCount(), s.Mesh.FaceCount())
	}
	if err := s.Mesh.CheckClosed(); err != nil {
		t.Errorf("CheckClosed: %v", err)
	}
	if p := s.Mesh.Position(0); p != (v3.Vec{X: 1, Y: -1, Z: 1}) {
		t.Errorf("vertex 0 = %v, want (1,-1,1)", p)
	}

	out, err := subdivide.Subdivide(s.Mesh, s.Levels)
	if err != nil {
		t.Fatalf("Subdivide: %v", err)
	}
	if out.FaceCount() != 96 {
		t.Errorf("subdivided face count = %d, want 96", out.FaceCount())
	}
}

func TestCubeAt(t *testing.T) {
	s := evalOK(t, `(cube :size 2 :at (vec3 10 0 0))`)
	if p := s.Mesh.Position(0); p != (v3.Vec{X: 11, Y: -1, Z: 1}) {
		t.Errorf("vertex 0 = %v, want (11,-1,1)", p)
	}
}

func TestCubeDefaultSize(t *testing.T) {
	s := evalOK(t, `(cube)`)
	if p := s.Mesh.Position(1); p != (v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("vertex 1 = %v, want (0.5,0.5,0.5)", p)
	}
}

func TestCounts(t *testing.T) {
	s := evalOK(t, `
(cube :size 1)
(def n (vertex-count))
(def f (face-count))
(vertex n f 0)
`)
	// The extra vertex records the counts seen after the cube was built.
	if p := s.Mesh.Position(8); p != (v3.Vec{X: 8, Y: 6, Z: 0}) {
		t.Errorf("vertex 8 = %v, want (8,6,0)", p)
	}
}

// ---------------------------------------------------------------------------
// Error tests
// ---------------------------------------------------------------------------

func TestFaceErrorsKeepSentinel(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{
			name: "unknown vertex",
			source: `
(vertex 0 0 0) (vertex 1 0 0) (vertex 1 1 0)
(face 0 1 2 3)`,
			want: mesh.ErrInvalidVertexHandle,
		},
		{
			name: "repeated vertex",
			source: `
(vertex 0 0 0) (vertex 1 0 0) (vertex 1 1 0)
(face 0 1 2 2)`,
			want: mesh.ErrDegenerateFace,
		},
		{
			name: "same winding twice",
			source: `
(vertex 0 0 0) (vertex 1 0 0) (vertex 1 1 0) (vertex 0 1 0)
(vertex 1 0 1) (vertex 0 0 1)
(face 0 1 2 3)
(face 0 1 4 5)`,
			want: mesh.ErrNonManifoldEdge,
		},
		{
			name:   "negative level",
			source: `(subdivide (- 0 1))`,
			want:   subdivide.ErrInvalidLevel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalErrs := evalFail(t, tt.source)
			if !errors.Is(evalErrs[0], tt.want) {
				t.Errorf("error = %v, want %v", evalErrs[0], tt.want)
			}
			if evalErrs[0].Message == "" {
				t.Error("eval error message should not be empty")
			}
		})
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"vertex arity", `(vertex 1 2)`},
		{"vertex non-number", `(vertex 1 "two" 3)`},
		{"face arity", `(face 0 1 2)`},
		{"face float handle", `(cube) (face 0 1 2 3.5)`},
		{"cube bad size", `(cube :size "big")`},
		{"cube zero size", `(cube :size 0)`},
		{"cube bad at", `(cube :at 3)`},
		{"vec3 arity", `(vec3 1 2)`},
		{"subdivide arity", `(subdivide)`},
		{"subdivide float", `(subdivide 1.5)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalErrs := evalFail(t, tt.source)
			if evalErrs[0].Err != nil {
				t.Errorf("argument error should not carry a mesh error, got %v", evalErrs[0].Err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Plain arithmetic still works (regression)
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	s := evalOK(t, "(+ 1 2)")
	if s.Mesh.VertexCount() != 0 {
		t.Errorf("expected empty mesh, got %d vertices", s.Mesh.VertexCount())
	}
}
