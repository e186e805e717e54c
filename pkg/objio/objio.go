// Package objio reads and writes quad meshes in a subset of the Wavefront
// OBJ text format: "v x y z" vertex records and "f a b c d" face records
// with 1-based vertex indices. Other lines are ignored on input.
package objio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/quadsurf/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxLineLength is the longest input line Read accepts, in bytes.
const MaxLineLength = 1 << 20

// ErrMalformedFile is wrapped by every ParseError.
var ErrMalformedFile = errors.New("malformed mesh file")

// ParseError reports a problem on a specific input line.
type ParseError struct {
	Line    int
	Message string
	Err     error // underlying cause, if any
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Unwrap exposes ErrMalformedFile, plus the construction error when a face
// was rejected by the mesh.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedFile, e.Err}
	}
	return []error{ErrMalformedFile}
}

// Load reads the mesh stored at path.
func Load(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objio: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("objio: %s: %w", path, err)
	}
	return m, nil
}

// Read parses a mesh from r. Face indices refer to the vertices defined so
// far; an index outside that range, or a number that does not parse, fails
// the whole read.
func Read(r io.Reader) (*mesh.Mesh, error) {
	m := mesh.New()
	var ids []mesh.VertexID

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		switch {
		case len(fields) == 4 && fields[0] == "v":
			p, err := parseVertex(fields[1:])
			if err != nil {
				return nil, &ParseError{Line: line, Message: err.Error()}
			}
			ids = append(ids, m.AddVertex(p))

		case len(fields) == 5 && fields[0] == "f":
			var corners [4]mesh.VertexID
			for i, tok := range fields[1:] {
				idx, err := parseIndex(tok, len(ids))
				if err != nil {
					return nil, &ParseError{Line: line, Message: err.Error()}
				}
				corners[i] = ids[idx]
			}
			if _, err := m.AddFace(corners[0], corners[1], corners[2], corners[3]); err != nil {
				return nil, &ParseError{Line: line, Message: "face rejected", Err: err}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{
				Line:    line + 1,
				Message: fmt.Sprintf("line longer than %d bytes", MaxLineLength),
				Err:     err,
			}
		}
		return nil, fmt.Errorf("objio: read: %w", err)
	}
	return m, nil
}

func parseVertex(tokens []string) (v3.Vec, error) {
	var c [3]float64
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return v3.Vec{}, fmt.Errorf("vertex coordinate %d: invalid number %q", i+1, tok)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v3.Vec{}, fmt.Errorf("vertex coordinate %d: %q is not finite", i+1, tok)
		}
		c[i] = f
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseIndex converts a 1-based face index to a 0-based one. Texture and
// normal references after a slash ("3/1/2") are ignored.
func parseIndex(tok string, count int) (int, error) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		tok = tok[:i]
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("face index: invalid number %q", tok)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("face index %d out of range, %d vertices defined", n, count)
	}
	return n - 1, nil
}

// Save writes m to path, replacing any existing file.
func Save(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("objio: %w", err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("objio: %w", err)
	}
	return nil
}

// Write emits m as "v" and "f" records. Reading the output back yields a
// mesh with the same vertices, faces and adjacency.
func Write(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(mesh.VertexID(i))
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	for i := 0; i < m.FaceCount(); i++ {
		c, _ := m.FaceVertices(mesh.FaceID(i))
		fmt.Fprintf(bw, "f %d %d %d %d\n", c[0]+1, c[1]+1, c[2]+1, c[3]+1)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("objio: write: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
