package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/MurilloYonamine/go-boid-study/pkg/behavior"
	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
	"github.com/MurilloYonamine/go-boid-study/pkg/navigation"
)

// Tunable parameter names accepted by Tune.
const (
	ParamRepulsionStrength     = "repulsionStrength"
	ParamDetectionRadius       = "detectionRadius"
	ParamAutonomousAvoidWeight = "autonomousAvoidWeight"
	ParamNavigationAvoidWeight = "navigationAvoidWeight"
)

// ErrUnknownParameter is returned by Tune for a name it does not know.
var ErrUnknownParameter = errors.New("unknown parameter")

// Layout is the static geometry a world runs in.
type Layout struct {
	Bounds     geometry.Rect   // whole map
	SpawnArea  geometry.Rect   // where units spawn and wander
	Navigation geometry.Rect   // navigable region
	Obstacles  []geometry.Rect // blocking rectangles
}

// DefaultLayout is an open pond covering the configured world size.
func DefaultLayout(cfg *Config) Layout {
	bounds := geometry.NewRect(0, 0, cfg.WorldWidth, cfg.WorldHeight)
	return Layout{Bounds: bounds, SpawnArea: bounds, Navigation: bounds}
}

// World owns every unit and advances them one tick at a time.
// It is not safe for concurrent use: the WorldActor serializes access.
type World struct {
	cfg       *Config
	layout    Layout
	avoidance behavior.Avoidance
	steering  behavior.Steering
	nav       navigation.Service
	sensor    *ProximitySensor
	rng       *rand.Rand
	logger    golog.Logger

	units []*Unit
	byID  map[string]*Unit

	tick    uint64
	elapsed time.Duration
}

// NewWorld builds an empty world. The navigation grid is derived from the layout.
func NewWorld(cfg *Config, layout Layout, logger golog.Logger) (*World, error) {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	grid, err := navigation.NewGrid(layout.Navigation, cfg.NavCellSize, layout.Obstacles)
	if err != nil {
		return nil, fmt.Errorf("failed to build navigation grid: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &World{
		cfg:       cfg,
		layout:    layout,
		avoidance: cfg.Avoidance(),
		steering:  cfg.Steering(),
		nav:       grid,
		sensor:    NewProximitySensor(cfg.DetectionRadius),
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger:    logger,
		byID:      make(map[string]*Unit),
	}, nil
}

// Layout returns the geometry the world runs in.
func (w *World) Layout() Layout { return w.layout }

// Units returns the live units in spawn order.
func (w *World) Units() []*Unit { return w.units }

// Unit looks a unit up by ID.
func (w *World) Unit(id string) (*Unit, bool) {
	u, ok := w.byID[id]
	return u, ok
}

// Tick is the number of steps taken so far.
func (w *World) Tick() uint64 { return w.tick }

// Step advances the simulation by dt seconds: proximity events first, then
// avoidance on its own interval, then movement.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.tick++
	w.elapsed += time.Duration(dt * float64(time.Second))

	w.applyEvents(w.sensor.Update(w.units))

	for _, u := range w.units {
		u.updateAvoidance(dt, w.cfg.AvoidanceInterval, w.avoidance)
	}
	for _, u := range w.units {
		u.step(dt, w.steering, w.layout.SpawnArea, w.layout.Obstacles)
	}
}

func (w *World) applyEvents(events []ProximityEvent) {
	for _, ev := range events {
		watcher, ok := w.byID[ev.Watcher]
		if !ok {
			continue
		}
		switch ev.Kind {
		case EventEnter:
			if other, ok := w.byID[ev.Other]; ok {
				watcher.enter(other)
			}
		case EventExit:
			watcher.exit(ev.Other)
		}
	}
}

// Navigate sends every unit towards the navigable point closest to target.
// Units that cannot reach it keep wandering. It returns how many units accepted the target.
func (w *World) Navigate(target geometry.Vector2D) int {
	point := w.nav.ClosestPoint(target)
	accepted := 0
	for _, u := range w.units {
		if err := u.navigate(point); err != nil {
			w.logger.Debugf("[%s] cannot navigate to %s: %v", u.ID, point, err)
			continue
		}
		accepted++
	}
	w.logger.Infof("navigate to %s: %d/%d units on their way", point, accepted, len(w.units))
	return accepted
}

// Tune changes one runtime parameter.
func (w *World) Tune(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number, got %g", name, value)
	}
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %g", name, value)
	}
	switch name {
	case ParamRepulsionStrength:
		w.cfg.RepulsionStrength = value
		w.avoidance.RepulsionStrength = value
	case ParamDetectionRadius:
		if value == 0 {
			return fmt.Errorf("%s must be positive", name)
		}
		w.cfg.DetectionRadius = value
		w.avoidance.DetectionRadius = value
		w.sensor.SetRadius(value)
	case ParamAutonomousAvoidWeight:
		w.cfg.AutonomousAvoidWeight = value
		w.steering.AutonomousAvoidWeight = value
	case ParamNavigationAvoidWeight:
		w.cfg.NavigationAvoidWeight = value
		w.steering.NavigationAvoidWeight = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return nil
}

// Avoidance is the avoidance rule currently in force.
func (w *World) Avoidance() behavior.Avoidance { return w.avoidance }

// Steering is the steering rule currently in force.
func (w *World) Steering() behavior.Steering { return w.steering }
