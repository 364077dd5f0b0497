package simulation

import (
	"time"

	"github.com/MurilloYonamine/go-boid-study/pkg/behavior"
	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

// UnitView is a copy of a unit's state that is safe to read from another goroutine.
type UnitView struct {
	ID        string
	Kind      int
	KindName  string
	Mass      float64
	Position  geometry.Vector2D
	Velocity  geometry.Vector2D
	Heading   geometry.Vector2D
	Avoidance geometry.Vector2D
	Mode      behavior.Mode
	FlipH     bool
	Nearby    []string
	Path      []geometry.Vector2D
	Target    geometry.Vector2D
	HasTarget bool
}

// Snapshot is what the world publishes to the renderer after each tick.
type Snapshot struct {
	Tick            uint64
	Elapsed         time.Duration
	DetectionRadius float64
	Layout          Layout
	Units           []UnitView
}

// Snapshot copies the current state of every unit.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:            w.tick,
		Elapsed:         w.elapsed,
		DetectionRadius: w.avoidance.DetectionRadius,
		Layout:          w.layout,
		Units:           make([]UnitView, 0, len(w.units)),
	}
	for _, u := range w.units {
		target, hasTarget := u.Target()
		s.Units = append(s.Units, UnitView{
			ID:        u.ID,
			Kind:      u.Kind,
			KindName:  u.KindName,
			Mass:      u.Mass,
			Position:  u.Position,
			Velocity:  u.Velocity,
			Heading:   u.Heading,
			Avoidance: u.Avoidance,
			Mode:      u.Mode,
			FlipH:     u.FlipH,
			Nearby:    u.NearbyIDs(),
			Path:      u.Path(),
			Target:    target,
			HasTarget: hasTarget,
		})
	}
	return s
}

// Find returns the view of the unit with the given ID.
func (s *Snapshot) Find(id string) (UnitView, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return UnitView{}, false
}

// Navigating counts the units following a path.
func (s *Snapshot) Navigating() int {
	n := 0
	for _, u := range s.Units {
		if u.Mode == behavior.ModeNavigated {
			n++
		}
	}
	return n
}

// CountByKind returns the population per kind name.
func (s *Snapshot) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, u := range s.Units {
		counts[u.KindName]++
	}
	return counts
}

// LatestSnapshot empties ch and returns the newest snapshot it held, or current
// when nothing was waiting. The world publishes after commands as well as ticks,
// so a reader taking one value per frame would fall behind.
func LatestSnapshot(ch <-chan *Snapshot, current *Snapshot) *Snapshot {
	for {
		select {
		case snap := <-ch:
			current = snap
		default:
			return current
		}
	}
}
