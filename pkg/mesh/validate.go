package mesh

import (
	"errors"
	"fmt"
)

// Severity indicates whether a validation finding blocks subdivision and
// smooth shading or is merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks subdivision
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Err holds the
// error kind so findings can be matched with errors.Is.
type ValidationError struct {
	Message  string
	Severity Severity
	Err      error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
}

func (e ValidationError) Unwrap() error { return e.Err }

// Validate checks the mesh for properties that subdivision and smooth
// normals rely on. It reports every boundary half-edge as an error, and
// zero-area faces and vertices no face uses as warnings. An empty result
// means the mesh is closed and well formed. Validate never mutates the mesh.
func (m *Mesh) Validate() []ValidationError {
	var errs []ValidationError

	for i, h := range m.halfEdges {
		if h.paired {
			continue
		}
		to := m.halfEdges[h.Next].Origin
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("half-edge %d (%d->%d) of face %d has no opposite", i, h.Origin, to, h.Face),
			Severity: SeverityError,
			Err:      ErrUnpairedEdge,
		})
	}

	for i := range m.faces {
		if _, err := m.FaceNormal(FaceID(i)); err != nil && errors.Is(err, ErrDegenerateFace) {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("face %d has zero area", i),
				Severity: SeverityWarning,
				Err:      ErrDegenerateFace,
			})
		}
	}

	for i, v := range m.vertices {
		if !v.hasEdge {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("vertex %d is not used by any face", i),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// CheckClosed returns an ErrUnpairedEdge error naming the first half-edge
// without an opposite, or nil when every edge is shared by two faces.
func (m *Mesh) CheckClosed() error {
	for i, h := range m.halfEdges {
		if !h.paired {
			to := m.halfEdges[h.Next].Origin
			return fmt.Errorf("mesh: half-edge %d (%d->%d) of face %d: %w", i, h.Origin, to, h.Face, ErrUnpairedEdge)
		}
	}
	return nil
}
