package behavior

import "github.com/MurilloYonamine/go-boid-study/pkg/geometry"

// Mode is the movement state of a unit.
type Mode int

const (
	// ModeAutonomous wanders along an internal heading.
	ModeAutonomous Mode = iota
	// ModeNavigated follows waypoints towards a designated target.
	ModeNavigated
)

func (m Mode) String() string {
	switch m {
	case ModeAutonomous:
		return "autonomous"
	case ModeNavigated:
		return "navigated"
	default:
		return "unknown"
	}
}

// Steering blends a unit's intended direction with its avoidance vector.
type Steering struct {
	Smoothing             float64 // lerp weight applied to the autonomous heading each tick
	AutonomousAvoidWeight float64
	NavigationAvoidWeight float64
	BoundaryMargin        float64 // distance from an area edge where headings reflect
}

// DefaultSteering returns the pond defaults.
func DefaultSteering() Steering {
	return Steering{
		Smoothing:             0.1,
		AutonomousAvoidWeight: 0.5,
		NavigationAvoidWeight: 0.3,
		BoundaryMargin:        50,
	}
}

// Autonomous nudges heading towards heading+avoidance and returns a unit vector.
// With no avoidance the heading is returned unchanged.
func (s Steering) Autonomous(heading, avoidance geometry.Vector2D) geometry.Vector2D {
	combined := heading.Add(avoidance.Mul(s.AutonomousAvoidWeight)).Normalize()
	// renormalized so the unit keeps its full speed while turning
	next := heading.Lerp(combined, s.Smoothing).Normalize()
	if next.IsZero() {
		// heading and push cancelled out exactly
		return heading
	}
	return next
}

// Reflect negates the heading axis that points out of area while the position is
// within the boundary margin of that side. Axes pointing back inside are left alone
// so a unit does not jitter while it is still inside the margin.
func (s Steering) Reflect(heading, position geometry.Vector2D, area geometry.Rect) geometry.Vector2D {
	areaMin, areaMax := area.Min(), area.Max()

	// only an outward axis flips, so the heading does not jitter inside the margin

	if (position.X <= areaMin.X+s.BoundaryMargin && heading.X < 0) ||
		(position.X >= areaMax.X-s.BoundaryMargin && heading.X > 0) {
		heading.X = -heading.X
	}
	if (position.Y <= areaMin.Y+s.BoundaryMargin && heading.Y < 0) ||
		(position.Y >= areaMax.Y-s.BoundaryMargin && heading.Y > 0) {
		heading.Y = -heading.Y
	}
	return heading
}

// Navigated blends the direction to the next waypoint with a smaller avoidance weight.
func (s Steering) Navigated(toWaypoint, avoidance geometry.Vector2D) geometry.Vector2D {
	return toWaypoint.Normalize().Add(avoidance.Mul(s.NavigationAvoidWeight)).Normalize()
}
