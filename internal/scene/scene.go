// Package scene reads the pond layout from a Tiled map.
//
// A scene map carries three object groups:
//
//	SpawnArea   the first object is the rectangle units spawn and wander in
//	Obstacles   rectangles units slide against and paths avoid
//	Navigation  optional navigable region, defaults to the spawn area
package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

// Object group names looked up in the map.
const (
	GroupSpawnArea  = "SpawnArea"
	GroupObstacles  = "Obstacles"
	GroupNavigation = "Navigation"
)

// ErrNoSpawnArea is returned when the map has no usable SpawnArea object.
var ErrNoSpawnArea = errors.New("scene has no spawn area")

// Obstacle is a named blocking rectangle.
type Obstacle struct {
	Name string
	Rect geometry.Rect
}

// Scene is the static layout of a pond.
type Scene struct {
	Name       string
	Width      float64
	Height     float64
	SpawnArea  geometry.Rect
	Navigation geometry.Rect
	Obstacles  []Obstacle
}

// ObstacleRects returns the obstacle rectangles only.
func (s *Scene) ObstacleRects() []geometry.Rect {
	rects := make([]geometry.Rect, len(s.Obstacles))
	for i, o := range s.Obstacles {
		rects[i] = o.Rect
	}
	return rects
}

// Bounds is the whole map rectangle.
func (s *Scene) Bounds() geometry.Rect {
	return geometry.NewRect(0, 0, s.Width, s.Height)
}

// Load parses the TMX file at tmxPath inside fsys. Callers pass embed.FS for the
// bundled scenes or os.DirFS for scenes on disk.
func Load(fsys fs.FS, tmxPath string) (*Scene, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	s := &Scene{
		Name:   strings.TrimSuffix(path.Base(tmxPath), path.Ext(tmxPath)),
		Width:  float64(levelMap.Width * levelMap.TileWidth),
		Height: float64(levelMap.Height * levelMap.TileHeight),
	}

	spawnFound, navFound := false, false
	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case GroupSpawnArea:
			if r, ok := firstRect(og.Objects); ok {
				s.SpawnArea = r
				spawnFound = true
			}
		case GroupNavigation:
			if r, ok := firstRect(og.Objects); ok {
				s.Navigation = r
				navFound = true
			}
		case GroupObstacles:
			for _, o := range og.Objects {
				if o.Width <= 0 || o.Height <= 0 {
					continue
				}
				s.Obstacles = append(s.Obstacles, Obstacle{
					Name: o.Name,
					Rect: geometry.NewRect(o.X, o.Y, o.Width, o.Height),
				})
			}
		}
	}

	if !spawnFound {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrNoSpawnArea)
	}
	if !navFound {
		s.Navigation = s.SpawnArea
	}
	return s, nil
}

// firstRect returns the first object with a non-empty area.
func firstRect(objects []*tiled.Object) (geometry.Rect, bool) {
	for _, o := range objects {
		if o.Width > 0 && o.Height > 0 {
			return geometry.NewRect(o.X, o.Y, o.Width, o.Height), true
		}
	}
	return geometry.Rect{}, false
}
