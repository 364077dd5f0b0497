package simulation

import (
	"math"

	"github.com/google/uuid"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
	"github.com/MurilloYonamine/go-boid-study/pkg/navigation"
)

// spawnAttempts bounds the search for a position that is not inside an obstacle.
const spawnAttempts = 16

// SpawnInitial creates the starting population at random positions inside the
// spawn area shrunk by the spawn margin, with random kinds and headings.
func (w *World) SpawnInitial() []*Unit {
	safe := w.layout.SpawnArea.Shrink(w.cfg.SpawnMargin)
	spawned := make([]*Unit, 0, w.cfg.SpawnCount)
	for i := 0; i < w.cfg.SpawnCount; i++ {
		pos := w.freePositionIn(safe)
		spawned = append(spawned, w.spawn(w.randomKind(), pos, w.randomHeading()))
	}
	w.logger.Infof("spawned %d units in %s", len(spawned), safe)
	return spawned
}

// SpawnIntruder creates a unit of a random kind just outside the right edge of
// the spawn area, heading for its center.
func (w *World) SpawnIntruder() *Unit {
	area := w.layout.SpawnArea
	center := area.Center()
	pos := geometry.Vector2D{X: center.X + area.Size.X/2 + w.cfg.IntruderOffset, Y: center.Y}

	u := w.spawn(w.randomKind(), pos, pos.DirectionTo(center))
	w.logger.Infof("intruder %s (%s) at %s", u.ID, u.KindName, u.Position)
	return u
}

// SpawnKind creates a unit of the kind at index. An index outside the configured
// kinds is ignored and reported with ok == false.
func (w *World) SpawnKind(index int, pos geometry.Vector2D) (*Unit, bool) {
	if index < 0 || index >= len(w.cfg.Kinds) {
		w.logger.Warnf("no unit kind at index %d", index)
		return nil, false
	}
	return w.spawn(index, pos, w.randomHeading()), true
}

// SpawnKindAnywhere creates a unit of the kind at index somewhere in the full spawn area.
func (w *World) SpawnKindAnywhere(index int) (*Unit, bool) {
	return w.SpawnKind(index, w.freePositionIn(w.layout.SpawnArea))
}

// Despawn removes a unit. Units that were watching it get an exit event.
func (w *World) Despawn(id string) bool {
	u, ok := w.byID[id]
	if !ok {
		return false
	}
	delete(w.byID, id)
	for i, other := range w.units {
		if other == u {
			w.units = append(w.units[:i], w.units[i+1:]...)
			break
		}
	}
	w.applyEvents(w.sensor.Remove(id))
	return true
}

func (w *World) spawn(kind int, pos, heading geometry.Vector2D) *Unit {
	agent := navigation.NewAgent(w.nav, w.cfg.PathDesiredDistance, w.cfg.TargetDesiredDistance)
	u := newUnit(uuid.NewString(), kind, w.cfg.Kinds[kind], pos, heading, agent)
	w.units = append(w.units, u)
	w.byID[u.ID] = u
	return u
}

func (w *World) randomKind() int {
	return w.rng.IntN(len(w.cfg.Kinds))
}

func (w *World) randomHeading() geometry.Vector2D {
	return geometry.NewVectorPolar(1, w.rng.Float64()*2*math.Pi)
}

func (w *World) randomPositionIn(area geometry.Rect) geometry.Vector2D {
	return geometry.Vector2D{
		X: area.Position.X + w.rng.Float64()*area.Size.X,
		Y: area.Position.Y + w.rng.Float64()*area.Size.Y,
	}
}

// freePositionIn draws random positions until one is clear of obstacles.
// After spawnAttempts tries the last draw is used anyway.
func (w *World) freePositionIn(area geometry.Rect) geometry.Vector2D {
	pos := w.randomPositionIn(area)
	for i := 1; i < spawnAttempts && collides(pos, w.layout.Obstacles); i++ {
		pos = w.randomPositionIn(area)
	}
	return pos
}
