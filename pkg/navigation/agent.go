package navigation

import (
	"fmt"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

// Default follow distances, in world units.
const (
	DefaultPathDesiredDistance   = 10.0
	DefaultTargetDesiredDistance = 10.0
)

// Agent follows a path produced by a Service, one waypoint at a time.
type Agent struct {
	// PathDesiredDistance is how close the unit must get to a waypoint before moving on.
	PathDesiredDistance float64
	// TargetDesiredDistance is how close the unit must get to the final point to finish.
	TargetDesiredDistance float64

	service Service
	target  geometry.Vector2D
	path    []geometry.Vector2D
	index   int
}

// NewAgent creates an idle agent backed by service.
func NewAgent(service Service, pathDesiredDistance, targetDesiredDistance float64) *Agent {
	return &Agent{
		PathDesiredDistance:   pathDesiredDistance,
		TargetDesiredDistance: targetDesiredDistance,
		service:               service,
	}
}

// SetTarget asks the service for a path from `from` to the navigable point
// closest to `to`. On failure the agent is left idle.
func (a *Agent) SetTarget(from, to geometry.Vector2D) error {
	a.Clear()
	if a.service == nil {
		return fmt.Errorf("%w: agent has no navigation service", ErrNoPath)
	}

	target := a.service.ClosestPoint(to)
	path, err := a.service.FindPath(from, target)
	if err != nil {
		return err
	}
	a.target = target
	a.path = path
	return nil
}

// Target is the snapped target of the current path.
func (a *Agent) Target() geometry.Vector2D { return a.target }

// Path returns the waypoints still ahead of the agent.
func (a *Agent) Path() []geometry.Vector2D {
	if a.index >= len(a.path) {
		return nil
	}
	remaining := make([]geometry.Vector2D, len(a.path)-a.index)
	copy(remaining, a.path[a.index:])
	return remaining
}

// Clear drops the current path.
func (a *Agent) Clear() {
	a.path = a.path[:0]
	a.index = 0
	a.target = geometry.Zero
}

// IsFinished reports whether there is nothing left to follow from pos.
func (a *Agent) IsFinished(pos geometry.Vector2D) bool {
	a.advance(pos)
	return a.index >= len(a.path)
}

// NextPathPosition returns the waypoint to steer towards from pos,
// or pos itself when the path is exhausted.
func (a *Agent) NextPathPosition(pos geometry.Vector2D) geometry.Vector2D {
	a.advance(pos)
	if a.index >= len(a.path) {
		return pos
	}
	return a.path[a.index]
}

func (a *Agent) advance(pos geometry.Vector2D) {
	for a.index < len(a.path) {
		last := a.index == len(a.path)-1
		reach := a.PathDesiredDistance
		if last {
			reach = a.TargetDesiredDistance
		}
		if pos.DistanceTo(a.path[a.index]) > reach {
			return
		}
		a.index++
	}
}
