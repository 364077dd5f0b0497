// Package navigation answers "where can a unit go and how does it get there".
// Units never search paths themselves: they ask a Service, usually a Grid
// built from the scene's navigation region and obstacles.
package navigation

import (
	"errors"
	"fmt"
	"math"

	astar "github.com/beefsack/go-astar"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

var (
	// ErrNoPath is returned when the target cannot be reached from the start.
	ErrNoPath = errors.New("no navigable path")
	// ErrInvalidGrid is returned when a grid cannot be built from its parameters.
	ErrInvalidGrid = errors.New("invalid navigation grid")
)

// Service is the navigation backend used by agents.
type Service interface {
	// ClosestPoint returns the navigable point nearest to p.
	ClosestPoint(p geometry.Vector2D) geometry.Vector2D
	// FindPath returns the waypoints leading from `from` to `to`, excluding the start.
	FindPath(from, to geometry.Vector2D) ([]geometry.Vector2D, error)
}

// Grid is a walkability grid over a rectangular region.
type Grid struct {
	Region   geometry.Rect
	CellSize float64
	Width    int
	Height   int
	nodes    [][]*node
}

var _ Service = (*Grid)(nil)

// node implements astar.Pather
type node struct {
	x, y     int
	walkable bool
	grid     *Grid
}

// NewGrid builds a grid covering region, marking every cell that overlaps an obstacle as blocked.
func NewGrid(region geometry.Rect, cellSize float64, obstacles []geometry.Rect) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidGrid, cellSize)
	}
	if region.Size.X <= 0 || region.Size.Y <= 0 {
		return nil, fmt.Errorf("%w: empty region %s", ErrInvalidGrid, region)
	}

	g := &Grid{
		Region:   region,
		CellSize: cellSize,
		Width:    int(math.Ceil(region.Size.X / cellSize)),
		Height:   int(math.Ceil(region.Size.Y / cellSize)),
	}
	g.nodes = make([][]*node, g.Height)
	for y := 0; y < g.Height; y++ {
		g.nodes[y] = make([]*node, g.Width)
		for x := 0; x < g.Width; x++ {
			cell := geometry.NewRect(
				region.Position.X+float64(x)*cellSize,
				region.Position.Y+float64(y)*cellSize,
				cellSize, cellSize,
			)
			walkable := true
			for _, o := range obstacles {
				if cell.Intersects(o) {
					walkable = false
					break
				}
			}
			g.nodes[y][x] = &node{x: x, y: y, walkable: walkable, grid: g}
		}
	}
	return g, nil
}

// PathNeighbors returns adjacent walkable nodes. Diagonals are only allowed
// when both orthogonal cells are open, so paths never clip an obstacle corner.
func (n *node) PathNeighbors() []astar.Pather {
	neighbors := make([]astar.Pather, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			next := n.grid.at(n.x+dx, n.y+dy)
			if next == nil || !next.walkable {
				continue
			}
			if dx != 0 && dy != 0 {
				a, b := n.grid.at(n.x+dx, n.y), n.grid.at(n.x, n.y+dy)
				if a == nil || b == nil || !a.walkable || !b.walkable {
					continue
				}
			}
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}

// PathNeighborCost is the Euclidean step length in cells.
func (n *node) PathNeighborCost(to astar.Pather) float64 {
	return n.PathEstimatedCost(to)
}

// PathEstimatedCost returns heuristic distance to target.
func (n *node) PathEstimatedCost(to astar.Pather) float64 {
	t := to.(*node)
	return math.Hypot(float64(t.x-n.x), float64(t.y-n.y))
}

func (g *Grid) at(x, y int) *node {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return nil
	}
	return g.nodes[y][x]
}

// cellOf returns the cell containing p, clamped to the grid.
func (g *Grid) cellOf(p geometry.Vector2D) (int, int) {
	local := p.Sub(g.Region.Position)
	x := int(math.Floor(local.X / g.CellSize))
	y := int(math.Floor(local.Y / g.CellSize))
	return max(0, min(g.Width-1, x)), max(0, min(g.Height-1, y))
}

func (g *Grid) center(n *node) geometry.Vector2D {
	return geometry.Vector2D{
		X: g.Region.Position.X + (float64(n.x)+0.5)*g.CellSize,
		Y: g.Region.Position.Y + (float64(n.y)+0.5)*g.CellSize,
	}
}

// walkableAt reports whether p lies inside the region on an open cell.
func (g *Grid) walkableAt(p geometry.Vector2D) bool {
	if !g.Region.HasPoint(p) {
		return false
	}
	return g.at(g.cellOf(p)).walkable
}

// nearestWalkable searches rings of growing radius around p and returns the
// open cell whose center is closest to p.
func (g *Grid) nearestWalkable(p geometry.Vector2D) *node {
	cx, cy := g.cellOf(p)
	if n := g.at(cx, cy); n.walkable {
		return n
	}

	maxRadius := max(g.Width, g.Height)
	for radius := 1; radius <= maxRadius; radius++ {
		var best *node
		bestDist := math.MaxFloat64
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(absInt(dx), absInt(dy)) != radius {
					continue // ring only
				}
				n := g.at(cx+dx, cy+dy)
				if n == nil || !n.walkable {
					continue
				}
				if d := g.center(n).DistanceSquaredTo(p); d < bestDist {
					best, bestDist = n, d
				}
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

// ClosestPoint clamps p into the region and moves it out of blocked cells.
func (g *Grid) ClosestPoint(p geometry.Vector2D) geometry.Vector2D {
	q := g.Region.Clamp(p)
	x, y := g.cellOf(q)
	if g.at(x, y).walkable {
		return q
	}
	if n := g.nearestWalkable(q); n != nil {
		return g.center(n)
	}
	return q
}

// FindPath runs A* between the cells of from and to. The returned waypoints are
// the centers of the traversed cells followed by the closest navigable point to `to`.
func (g *Grid) FindPath(from, to geometry.Vector2D) ([]geometry.Vector2D, error) {
	start := g.nearestWalkable(from)
	goal := g.nearestWalkable(to)
	if start == nil || goal == nil {
		return nil, ErrNoPath
	}
	target := g.ClosestPoint(to)
	if start == goal {
		return []geometry.Vector2D{target}, nil
	}

	found, _, ok := astar.Path(start, goal)
	if !ok || len(found) == 0 {
		return nil, fmt.Errorf("%w: from %s to %s", ErrNoPath, from, to)
	}
	// go-astar hands the path back goal first
	if found[0] != astar.Pather(start) {
		for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
			found[i], found[j] = found[j], found[i]
		}
	}

	waypoints := make([]geometry.Vector2D, 0, len(found))
	for _, p := range found[1 : len(found)-1] {
		waypoints = append(waypoints, g.center(p.(*node)))
	}
	return append(waypoints, target), nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
