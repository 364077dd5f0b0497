package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/MurilloYonamine/go-boid-study/pkg/behavior"
	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

const frame = 1.0 / 60.0

var left = geometry.Vector2D{X: -1}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.WorldWidth = 400
	cfg.WorldHeight = 400
	cfg.SpawnCount = 5
	cfg.Seed = 42
	return cfg
}

func newTestWorld(t *testing.T, cfg *Config, obstacles ...geometry.Rect) *World {
	t.Helper()
	layout := DefaultLayout(cfg)
	layout.Obstacles = obstacles
	w, err := NewWorld(cfg, layout, golog.DiscardLogger)
	require.NoError(t, err)
	return w
}

// spawnHeading places a carp at pos facing heading.
func spawnHeading(t *testing.T, w *World, pos, heading geometry.Vector2D) *Unit {
	t.Helper()
	u, ok := w.SpawnKind(1, pos)
	require.True(t, ok)
	u.Heading = heading
	return u
}

func TestNewWorld_InvalidNavigation(t *testing.T) {
	cfg := testConfig()
	cfg.NavCellSize = 0

	_, err := NewWorld(cfg, DefaultLayout(cfg), nil)
	assert.Error(t, err)
}

func TestWorld_StepMovesAlongHeading(t *testing.T) {
	w := newTestWorld(t, testConfig())
	u := spawnHeading(t, w, geometry.Vector2D{X: 200, Y: 200}, geometry.Right)

	w.Step(frame)

	assert.InDelta(t, 200+u.Speed*frame, u.Position.X, 1e-9)
	assert.InDelta(t, 200, u.Position.Y, 1e-9)
	assert.Equal(t, uint64(1), w.Tick())
	assert.False(t, u.FlipH)
	assert.True(t, u.Avoidance.IsZero(), "alone in the pond")
}

func TestWorld_StepIgnoresNonPositiveDelta(t *testing.T) {
	w := newTestWorld(t, testConfig())
	u := spawnHeading(t, w, geometry.Vector2D{X: 200, Y: 200}, geometry.Right)

	w.Step(0)
	w.Step(-1)

	assert.Equal(t, geometry.Vector2D{X: 200, Y: 200}, u.Position)
	assert.Equal(t, uint64(0), w.Tick())
}

func TestWorld_NearbySetFollowsProximity(t *testing.T) {
	w := newTestWorld(t, testConfig())
	a := spawnHeading(t, w, geometry.Vector2D{X: 150, Y: 200}, geometry.Vector2D{Y: -1})
	b := spawnHeading(t, w, geometry.Vector2D{X: 170, Y: 200}, geometry.Vector2D{Y: -1})
	far := spawnHeading(t, w, geometry.Vector2D{X: 350, Y: 350}, geometry.Vector2D{Y: -1})

	w.Step(frame)

	assert.Equal(t, []string{b.ID}, a.NearbyIDs())
	assert.Equal(t, []string{a.ID}, b.NearbyIDs())
	assert.Empty(t, far.NearbyIDs())

	require.True(t, w.Despawn(b.ID))
	assert.Empty(t, a.NearbyIDs())
	assert.False(t, w.Despawn(b.ID), "already gone")
	_, ok := w.Unit(b.ID)
	assert.False(t, ok)
	assert.Len(t, w.Units(), 2)
}

func TestWorld_AvoidanceRunsOnInterval(t *testing.T) {
	w := newTestWorld(t, testConfig())
	up := geometry.Vector2D{Y: -1}
	a := spawnHeading(t, w, geometry.Vector2D{X: 150, Y: 200}, up)
	spawnHeading(t, w, geometry.Vector2D{X: 170, Y: 200}, up)

	// first tick computes straight away
	w.Step(frame)
	require.False(t, a.Avoidance.IsZero())
	assert.Less(t, a.Avoidance.X, 0.0, "pushed away from the neighbour on its right")

	a.Avoidance = geometry.Zero
	for range 5 {
		w.Step(frame)
	}
	assert.True(t, a.Avoidance.IsZero(), "not recomputed before the interval elapsed")

	w.Step(frame)
	w.Step(frame)
	assert.False(t, a.Avoidance.IsZero())
}

func TestWorld_HeavierNeighbourPushesHarder(t *testing.T) {
	w := newTestWorld(t, testConfig())
	up := geometry.Vector2D{Y: -1}
	minnow, _ := w.SpawnKind(0, geometry.Vector2D{X: 150, Y: 200})
	pike, _ := w.SpawnKind(2, geometry.Vector2D{X: 180, Y: 200})
	minnow.Heading, pike.Heading = up, up

	w.Step(frame)

	assert.Greater(t, minnow.Avoidance.Len(), pike.Avoidance.Len())
}

func TestWorld_ReflectsAtAreaMargin(t *testing.T) {
	w := newTestWorld(t, testConfig())
	u := spawnHeading(t, w, geometry.Vector2D{X: 20, Y: 200}, left)

	w.Step(frame)

	assert.True(t, u.Heading.Eq(geometry.Right), "got %v", u.Heading)
	assert.False(t, u.FlipH)
}

func TestWorld_BouncesOffObstacles(t *testing.T) {
	rock := geometry.NewRect(200, 150, 50, 100)
	w := newTestWorld(t, testConfig(), rock)
	u := spawnHeading(t, w, geometry.Vector2D{X: 193, Y: 200}, geometry.Right)

	w.Step(frame)

	assert.Equal(t, 193.0, u.Position.X, "blocked by the rock")
	assert.True(t, u.Heading.Eq(left), "got %v", u.Heading)
	assert.True(t, u.FlipH)
}

func TestWorld_NavigateThenResumeWandering(t *testing.T) {
	w := newTestWorld(t, testConfig())
	u := spawnHeading(t, w, geometry.Vector2D{X: 100, Y: 100}, geometry.Vector2D{Y: 1})
	target := geometry.Vector2D{X: 300, Y: 100}

	require.Equal(t, 1, w.Navigate(target))
	assert.Equal(t, behavior.ModeNavigated, u.Mode)
	assert.NotEmpty(t, u.Path())
	view, ok := w.Snapshot().Find(u.ID)
	require.True(t, ok)
	assert.True(t, view.HasTarget)
	assert.True(t, view.Target.Eq(target), "got %v", view.Target)

	for i := 0; i < 600 && u.Mode == behavior.ModeNavigated; i++ {
		w.Step(frame)
	}

	require.Equal(t, behavior.ModeAutonomous, u.Mode)
	assert.Less(t, u.Position.DistanceTo(target), 15.0)
	assert.Greater(t, u.Heading.X, 0.9, "keeps the last direction of travel")
	assert.True(t, u.Velocity.IsZero())
	assert.Empty(t, u.Path())
	_, navigating := u.Target()
	assert.False(t, navigating)
}

func TestWorld_NavigateUnreachableKeepsWandering(t *testing.T) {
	wall := geometry.NewRect(180, 0, 40, 400)
	w := newTestWorld(t, testConfig(), wall)
	u := spawnHeading(t, w, geometry.Vector2D{X: 100, Y: 200}, geometry.Right)

	assert.Equal(t, 0, w.Navigate(geometry.Vector2D{X: 300, Y: 200}))
	assert.Equal(t, behavior.ModeAutonomous, u.Mode)
}

func TestWorld_Tune(t *testing.T) {
	w := newTestWorld(t, testConfig())

	require.NoError(t, w.Tune(ParamDetectionRadius, 90))
	assert.Equal(t, 90.0, w.Avoidance().DetectionRadius)
	assert.Equal(t, 90.0, w.sensor.radius)

	require.NoError(t, w.Tune(ParamRepulsionStrength, 2.5))
	require.NoError(t, w.Tune(ParamAutonomousAvoidWeight, 0.8))
	require.NoError(t, w.Tune(ParamNavigationAvoidWeight, 0))
	assert.Equal(t, 2.5, w.Avoidance().RepulsionStrength)
	assert.Equal(t, 0.8, w.Steering().AutonomousAvoidWeight)
	assert.Equal(t, 0.0, w.Steering().NavigationAvoidWeight)

	assert.ErrorIs(t, w.Tune("speed", 1), ErrUnknownParameter)
	assert.Error(t, w.Tune(ParamRepulsionStrength, -1))
	assert.Error(t, w.Tune(ParamDetectionRadius, 0))
}

func TestWorld_TuneRejectsNonFinite(t *testing.T) {
	w := newTestWorld(t, testConfig())

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Error(t, w.Tune(ParamDetectionRadius, v), "radius %g", v)
		assert.Error(t, w.Tune(ParamRepulsionStrength, v), "strength %g", v)
		assert.Error(t, w.Tune(ParamAutonomousAvoidWeight, v), "weight %g", v)
	}
	assert.Equal(t, 60.0, w.Avoidance().DetectionRadius)
	assert.Equal(t, 60.0, w.sensor.radius)
	assert.Equal(t, 1.0, w.Avoidance().RepulsionStrength)

	// detection still works after the rejected values
	a := spawnHeading(t, w, geometry.Vector2D{X: 200, Y: 200}, geometry.Right)
	b := spawnHeading(t, w, geometry.Vector2D{X: 210, Y: 200}, geometry.Right)
	w.Step(frame)

	assert.Equal(t, []string{b.ID}, a.NearbyIDs())
	assert.Less(t, a.Avoidance.X, 0.0, "a is pushed away from b")
}

func TestWorld_SpawnInitial(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(t, cfg)

	units := w.SpawnInitial()

	require.Len(t, units, cfg.SpawnCount)
	safe := w.Layout().SpawnArea.Shrink(cfg.SpawnMargin)
	ids := map[string]bool{}
	for _, u := range units {
		assert.True(t, safe.HasPoint(u.Position), "%v outside %v", u.Position, safe)
		assert.InDelta(t, 1, u.Heading.Len(), 1e-9)
		assert.Equal(t, behavior.ModeAutonomous, u.Mode)
		assert.Equal(t, cfg.Kinds[u.Kind].Mass, u.Mass)
		ids[u.ID] = true
	}
	assert.Len(t, ids, cfg.SpawnCount, "IDs are unique")
}

func TestWorld_SpawnAvoidsObstacles(t *testing.T) {
	cfg := testConfig()
	cfg.SpawnCount = 50
	// covers the left half of the safe area
	rock := geometry.NewRect(80, 80, 120, 240)
	w := newTestWorld(t, cfg, rock)

	inside := 0
	for _, u := range w.SpawnInitial() {
		if collides(u.Position, []geometry.Rect{rock}) {
			inside++
		}
	}
	assert.LessOrEqual(t, inside, 1)
}

func TestWorld_SpawnIntruder(t *testing.T) {
	w := newTestWorld(t, testConfig())

	u := w.SpawnIntruder()

	assert.Equal(t, geometry.Vector2D{X: 500, Y: 200}, u.Position)
	assert.True(t, u.Heading.Eq(left), "heads for the centre, got %v", u.Heading)
	assert.True(t, u.FlipH)

	// swims back into the area instead of being reflected away
	for range 120 {
		w.Step(frame)
	}
	assert.Less(t, u.Position.X, 400.0)
}

func TestWorld_SpawnKind(t *testing.T) {
	w := newTestWorld(t, testConfig())

	u, ok := w.SpawnKind(2, geometry.Vector2D{X: 10, Y: 20})
	require.True(t, ok)
	assert.Equal(t, "pike", u.KindName)
	assert.Equal(t, geometry.Vector2D{X: 10, Y: 20}, u.Position)

	_, ok = w.SpawnKind(3, geometry.Zero)
	assert.False(t, ok)
	_, ok = w.SpawnKind(-1, geometry.Zero)
	assert.False(t, ok)
	assert.Len(t, w.Units(), 1)

	anywhere, ok := w.SpawnKindAnywhere(0)
	require.True(t, ok)
	assert.True(t, w.Layout().SpawnArea.HasPoint(anywhere.Position))
}

func TestWorld_Snapshot(t *testing.T) {
	w := newTestWorld(t, testConfig())
	a := spawnHeading(t, w, geometry.Vector2D{X: 150, Y: 200}, geometry.Right)
	spawnHeading(t, w, geometry.Vector2D{X: 170, Y: 200}, geometry.Right)
	w.Step(frame)
	w.Navigate(geometry.Vector2D{X: 350, Y: 350})

	snap := w.Snapshot()

	require.Len(t, snap.Units, 2)
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, 60.0, snap.DetectionRadius)
	assert.Equal(t, 2, snap.Navigating())
	assert.Equal(t, map[string]int{"carp": 2}, snap.CountByKind())

	view, ok := snap.Find(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.Position, view.Position)
	assert.Len(t, view.Nearby, 1)
	assert.NotEmpty(t, view.Path)

	// the snapshot is a copy
	a.Position = geometry.Zero
	assert.NotEqual(t, a.Position, view.Position)
	_, ok = snap.Find("nobody")
	assert.False(t, ok)
}
