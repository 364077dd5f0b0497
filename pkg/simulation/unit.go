package simulation

import (
	"github.com/MurilloYonamine/go-boid-study/pkg/behavior"
	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
	"github.com/MurilloYonamine/go-boid-study/pkg/navigation"
)

// bodySize is the side of the square collision body used against obstacles.
const bodySize = 12.0

// Unit is one fish in the pond.
type Unit struct {
	ID       string
	Kind     int
	KindName string
	Mass     float64
	Speed    float64

	Position geometry.Vector2D
	Velocity geometry.Vector2D
	Heading  geometry.Vector2D // unit vector used while autonomous
	Mode     behavior.Mode
	FlipH    bool

	// Avoidance is the last computed repulsion, refreshed every avoidance interval.
	Avoidance geometry.Vector2D

	nearby     []*Unit
	avoidClock float64
	agent      *navigation.Agent
}

func newUnit(id string, kindIndex int, kind UnitKind, pos, heading geometry.Vector2D, agent *navigation.Agent) *Unit {
	h := heading.Normalize()
	if h.IsZero() {
		h = geometry.Right
	}
	return &Unit{
		ID:       id,
		Kind:     kindIndex,
		KindName: kind.Name,
		Mass:     kind.Mass,
		Speed:    kind.Speed,
		Position: pos,
		Heading:  h,
		Mode:     behavior.ModeAutonomous,
		FlipH:    h.X < 0,
		agent:    agent,
	}
}

// ============================================================================
// Nearby set, fed by proximity enter/exit events
// ============================================================================

func (u *Unit) enter(other *Unit) {
	for _, n := range u.nearby {
		if n == other {
			return
		}
	}
	u.nearby = append(u.nearby, other)
}

func (u *Unit) exit(id string) {
	for i, n := range u.nearby {
		if n.ID == id {
			last := len(u.nearby) - 1
			u.nearby[i] = u.nearby[last]
			u.nearby[last] = nil
			u.nearby = u.nearby[:last]
			return
		}
	}
}

// NearbyIDs lists the units currently inside the detection area, in no particular order.
func (u *Unit) NearbyIDs() []string {
	ids := make([]string, len(u.nearby))
	for i, n := range u.nearby {
		ids[i] = n.ID
	}
	return ids
}

func (u *Unit) neighbors() []behavior.Neighbor {
	out := make([]behavior.Neighbor, len(u.nearby))
	for i, n := range u.nearby {
		out[i] = behavior.Neighbor{Position: n.Position, Mass: n.Mass}
	}
	return out
}

// updateAvoidance recomputes Avoidance when its clock runs out. The clock starts
// expired so a fresh unit reacts on its first tick.
func (u *Unit) updateAvoidance(dt, interval float64, rule behavior.Avoidance) {
	u.avoidClock -= dt
	if u.avoidClock > 0 {
		return
	}
	u.Avoidance = rule.Force(u.Position, u.Mass, u.neighbors())
	u.avoidClock = interval
}

// ============================================================================
// Movement state machine
// ============================================================================

// step advances the unit by dt seconds.
func (u *Unit) step(dt float64, s behavior.Steering, area geometry.Rect, obstacles []geometry.Rect) {
	switch u.Mode {
	case behavior.ModeNavigated:
		u.stepNavigated(dt, s, obstacles)
	default:
		u.stepAutonomous(dt, s, area, obstacles)
	}
}

func (u *Unit) stepAutonomous(dt float64, s behavior.Steering, area geometry.Rect, obstacles []geometry.Rect) {
	u.Heading = s.Autonomous(u.Heading, u.Avoidance)
	u.Velocity = u.Heading.Mul(u.Speed)

	blockedX, blockedY := u.moveAndSlide(dt, obstacles)
	// bounce off obstacles the same way as off the area edge
	if blockedX {
		u.Heading.X = -u.Heading.X
	}
	if blockedY {
		u.Heading.Y = -u.Heading.Y
	}

	u.Heading = s.Reflect(u.Heading, u.Position, area)
	u.FlipH = u.Heading.X < 0
}

func (u *Unit) stepNavigated(dt float64, s behavior.Steering, obstacles []geometry.Rect) {
	if u.agent == nil || u.agent.IsFinished(u.Position) {
		u.finishNavigation()
		return
	}

	next := u.agent.NextPathPosition(u.Position)
	direction := s.Navigated(next.Sub(u.Position), u.Avoidance)
	u.Velocity = direction.Mul(u.Speed)
	u.moveAndSlide(dt, obstacles)
	u.FlipH = direction.X < 0
}

// finishNavigation returns to wandering along the last direction of travel.
func (u *Unit) finishNavigation() {
	if !u.Velocity.IsZero() {
		u.Heading = u.Velocity.Normalize()
	}
	u.Velocity = geometry.Zero
	u.Mode = behavior.ModeAutonomous
	if u.agent != nil {
		u.agent.Clear()
	}
}

// navigate asks the agent for a path to target and switches to ModeNavigated.
// On failure the unit keeps wandering.
func (u *Unit) navigate(target geometry.Vector2D) error {
	if u.agent == nil {
		return navigation.ErrNoPath
	}
	if err := u.agent.SetTarget(u.Position, target); err != nil {
		if u.Mode == behavior.ModeNavigated {
			u.finishNavigation()
		}
		return err
	}
	u.Mode = behavior.ModeNavigated
	return nil
}

// Target returns the navigation target, and false while the unit is autonomous.
func (u *Unit) Target() (geometry.Vector2D, bool) {
	if u.agent == nil || u.Mode != behavior.ModeNavigated {
		return geometry.Zero, false
	}
	return u.agent.Target(), true
}

// Path returns the waypoints still ahead when navigating.
func (u *Unit) Path() []geometry.Vector2D {
	if u.agent == nil || u.Mode != behavior.ModeNavigated {
		return nil
	}
	return u.agent.Path()
}

// moveAndSlide applies Velocity for dt seconds one axis at a time, cancelling
// the component that would push the body into an obstacle. It reports which
// axes were blocked.
func (u *Unit) moveAndSlide(dt float64, obstacles []geometry.Rect) (blockedX, blockedY bool) {
	motion := u.Velocity.Mul(dt)

	// already overlapping something (spawned there): let it swim out
	if collides(u.Position, obstacles) {
		u.Position = u.Position.Add(motion)
		return false, false
	}

	if motion.X != 0 {
		next := geometry.Vector2D{X: u.Position.X + motion.X, Y: u.Position.Y}
		if collides(next, obstacles) {
			blockedX = true
			u.Velocity.X = 0
		} else {
			u.Position = next
		}
	}
	if motion.Y != 0 {
		next := geometry.Vector2D{X: u.Position.X, Y: u.Position.Y + motion.Y}
		if collides(next, obstacles) {
			blockedY = true
			u.Velocity.Y = 0
		} else {
			u.Position = next
		}
	}
	return blockedX, blockedY
}

func collides(pos geometry.Vector2D, obstacles []geometry.Rect) bool {
	body := geometry.RectFromCenter(pos, geometry.Vector2D{X: bodySize, Y: bodySize})
	for _, o := range obstacles {
		if body.Intersects(o) {
			return true
		}
	}
	return false
}
