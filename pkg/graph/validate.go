package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding marks the sketch
// as unusable for face detection or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // precondition violated
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Edge     *Edge              // offending edge, nil for point-level findings
	Point    PointID            // offending point, zero if edge-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Edge != nil {
		return fmt.Sprintf("[%s] edge %s: %s", e.Severity, e.Edge, e.Message)
	}
	if e.Point != 0 {
		return fmt.Sprintf("[%s] point %d: %s", e.Severity, e.Point, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Edge    *Edge
	Point   PointID
	Message string
}

// ValidationResult bundles errors and warnings from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result carries no errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks on a points/edges snapshot. An empty
// slice means every edge references existing, distinct points. The inputs
// are never mutated.
func Validate(points []Point, edges []Edge) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePointIDs(points)...)
	errs = append(errs, validateReferences(points, edges)...)
	errs = append(errs, validateSelfLoops(edges)...)
	return errs
}

// ValidateAll runs the structural and geometric tiers and returns errors and
// warnings separately.
func ValidateAll(points []Point, edges []Edge) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(points, edges)
	result.Warnings = append(result.Warnings, validateDuplicateEdges(edges)...)
	result.Warnings = append(result.Warnings, validateZeroLength(points, edges)...)
	return result
}

// validatePointIDs checks that no two points share an id.
func validatePointIDs(points []Point) []ValidationError {
	var errs []ValidationError
	seen := make(map[PointID]bool, len(points))
	for _, p := range points {
		if seen[p.ID] {
			errs = append(errs, ValidationError{
				Point:    p.ID,
				Message:  "duplicate point id",
				Severity: SeverityError,
			})
			continue
		}
		seen[p.ID] = true
	}
	return errs
}

// validateReferences checks that both endpoints of every edge exist.
// Snapping tolerates dangling edges, but faces drawn from them cannot be
// resolved to coordinates.
func validateReferences(points []Point, edges []Edge) []ValidationError {
	var errs []ValidationError
	known := make(map[PointID]bool, len(points))
	for _, p := range points {
		known[p.ID] = true
	}
	for i := range edges {
		e := edges[i]
		for _, id := range []PointID{e.From, e.To} {
			if !known[id] {
				errs = append(errs, ValidationError{
					Edge:     &e,
					Message:  fmt.Sprintf("endpoint %d does not exist", id),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateSelfLoops flags edges whose endpoints coincide by id.
func validateSelfLoops(edges []Edge) []ValidationError {
	var errs []ValidationError
	for i := range edges {
		e := edges[i]
		if e.From == e.To {
			errs = append(errs, ValidationError{
				Edge:     &e,
				Message:  "self-loop: from and to are the same point",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateDuplicateEdges warns about repeated edges. A reversed copy is a
// distinct record to the face search and can be walked a second time.
func validateDuplicateEdges(edges []Edge) []ValidationWarning {
	var warnings []ValidationWarning
	seen := make(map[Edge]bool, len(edges))
	for i := range edges {
		e := edges[i]
		switch {
		case seen[e]:
			warnings = append(warnings, ValidationWarning{
				Edge:    &e,
				Message: "duplicate edge",
			})
		case seen[e.Reversed()]:
			warnings = append(warnings, ValidationWarning{
				Edge:    &e,
				Message: "edge duplicates a reversed edge; face search may walk it twice",
			})
		}
		seen[e] = true
	}
	return warnings
}

// validateZeroLength warns about edges whose endpoints sit at the same
// coordinates. Such edges can never be snapped onto.
func validateZeroLength(points []Point, edges []Edge) []ValidationWarning {
	var warnings []ValidationWarning
	for i := range edges {
		e := edges[i]
		a, okA := FindPoint(points, e.From)
		b, okB := FindPoint(points, e.To)
		if !okA || !okB || e.From == e.To {
			continue
		}
		if a.X == b.X && a.Y == b.Y {
			warnings = append(warnings, ValidationWarning{
				Edge:    &e,
				Message: fmt.Sprintf("zero-length edge at (%.1f, %.1f)", a.X, a.Y),
			})
		}
	}
	return warnings
}
