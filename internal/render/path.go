package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/comalice/graphview/internal/geom"
)

// PathStyle selects how connector geometry is turned into SVG path data.
type PathStyle string

const (
	// StyleLine draws a straight segment between the endpoints.
	StyleLine PathStyle = "line"
	// StyleCurve draws a cubic curve leaving and entering horizontally.
	StyleCurve PathStyle = "curve"
)

var ErrUnknownPathStyle = errors.New("unknown path style")

// ParsePathStyle validates a configured style name. Empty means StyleLine.
func ParsePathStyle(s string) (PathStyle, error) {
	switch PathStyle(s) {
	case "", StyleLine:
		return StyleLine, nil
	case StyleCurve:
		return StyleCurve, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPathStyle, s)
}

// Format returns the SVG path data for a connector from a to b.
func (s PathStyle) Format(a, b geom.Point) string {
	if s == StyleCurve {
		// control points pulled halfway along x, at least 20 units
		dx := math.Max(math.Abs(b.X-a.X)/2, 20)
		return fmt.Sprintf("M%g,%g C%g,%g %g,%g %g,%g",
			a.X, a.Y, a.X+dx, a.Y, b.X-dx, b.Y, b.X, b.Y)
	}
	return fmt.Sprintf("M%g,%g L%g,%g", a.X, a.Y, b.X, b.Y)
}
