package simulation

import (
	"math"
	"sort"
)

// EventKind tells whether a unit came into or left another unit's detection area.
type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
)

func (k EventKind) String() string {
	if k == EventEnter {
		return "enter"
	}
	return "exit"
}

// ProximityEvent is emitted for the Watcher whenever Other crosses its detection radius.
type ProximityEvent struct {
	Kind    EventKind
	Watcher string
	Other   string
}

type gridKey struct {
	x, y int
}

// ProximitySensor tracks which units are within a radius of each other.
// It uses a spatial hash so each unit only looks at the 3x3 cells around it.
type ProximitySensor struct {
	radius   float64
	grid     map[gridKey][]*Unit
	contacts map[string]map[string]struct{} // watcher -> others inside its radius
}

// NewProximitySensor creates a sensor for the given detection radius.
func NewProximitySensor(radius float64) *ProximitySensor {
	return &ProximitySensor{
		radius:   radius,
		grid:     make(map[gridKey][]*Unit),
		contacts: make(map[string]map[string]struct{}),
	}
}

// SetRadius changes the detection radius. The next Update emits the resulting events.
func (p *ProximitySensor) SetRadius(r float64) { p.radius = r }

func (p *ProximitySensor) cellSize() float64 {
	// Clamp to a minimum of 10 to avoid tiny grids or div by zero
	return math.Max(p.radius, 10.0)
}

func (p *ProximitySensor) cellOf(x, y float64) gridKey {
	cs := p.cellSize()
	return gridKey{x: int(math.Floor(x / cs)), y: int(math.Floor(y / cs))}
}

func (p *ProximitySensor) rebuildGrid(units []*Unit) {
	// keep slice capacity between ticks
	for k := range p.grid {
		p.grid[k] = p.grid[k][:0]
	}
	for _, u := range units {
		key := p.cellOf(u.Position.X, u.Position.Y)
		p.grid[key] = append(p.grid[key], u)
	}
}

// Update compares the current positions with the previous contacts and returns
// the enter and exit events, grouped by watcher in the order of units.
// A unit touching the radius edge counts as inside.
func (p *ProximitySensor) Update(units []*Unit) []ProximityEvent {
	p.rebuildGrid(units)
	radiusSq := p.radius * p.radius

	var events []ProximityEvent
	for _, me := range units {
		previous := p.contacts[me.ID]
		current := make(map[string]struct{}, len(previous))

		center := p.cellOf(me.Position.X, me.Position.Y)
		for i := center.x - 1; i <= center.x+1; i++ {
			for j := center.y - 1; j <= center.y+1; j++ {
				for _, other := range p.grid[gridKey{x: i, y: j}] {
					if other == me || me.Position.DistanceSquaredTo(other.Position) > radiusSq {
						continue
					}
					current[other.ID] = struct{}{}
					if _, seen := previous[other.ID]; !seen {
						events = append(events, ProximityEvent{Kind: EventEnter, Watcher: me.ID, Other: other.ID})
					}
				}
			}
		}

		var gone []string
		for id := range previous {
			if _, still := current[id]; !still {
				gone = append(gone, id)
			}
		}
		sort.Strings(gone)
		for _, id := range gone {
			events = append(events, ProximityEvent{Kind: EventExit, Watcher: me.ID, Other: id})
		}

		p.contacts[me.ID] = current
	}
	return events
}

// Remove forgets a unit and returns an exit event for every unit that was watching it.
func (p *ProximitySensor) Remove(id string) []ProximityEvent {
	delete(p.contacts, id)

	var watchers []string
	for watcher, others := range p.contacts {
		if _, ok := others[id]; ok {
			delete(others, id)
			watchers = append(watchers, watcher)
		}
	}
	sort.Strings(watchers)

	events := make([]ProximityEvent, 0, len(watchers))
	for _, w := range watchers {
		events = append(events, ProximityEvent{Kind: EventExit, Watcher: w, Other: id})
	}
	return events
}
