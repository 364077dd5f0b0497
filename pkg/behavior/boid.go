package behavior

import (
	"math"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

// Default tuning, matching what the pond scene ships with.
const (
	DefaultRepulsionStrength = 1.0
	DefaultDetectionRadius   = 60.0
)

// Mass response curve. Heavier neighbours push harder, lighter ones push weaker.
const (
	heavierExponent = 1.5
	lighterExponent = 0.7
	maxInfluence    = 5.0
	minInfluence    = 0.1
	baseInfluence   = 1.0

	distanceFalloffExponent = 0.5
)

// Neighbor is what a unit knows about another unit it has detected.
type Neighbor struct {
	Position geometry.Vector2D
	Mass     float64
}

// Avoidance is the boid separation rule reduced to a single neighbour: a unit
// steers away from the closest unit inside its detection radius, and how hard
// it steers depends on the relative mass and on how close that unit is.
// Boids is an artificial life program, developed by Craig Reynolds in 1986.
// https://en.wikipedia.org/wiki/Boids
type Avoidance struct {
	RepulsionStrength float64
	DetectionRadius   float64
}

// NewAvoidance returns an Avoidance with the given strength and radius.
func NewAvoidance(repulsionStrength, detectionRadius float64) Avoidance {
	return Avoidance{RepulsionStrength: repulsionStrength, DetectionRadius: detectionRadius}
}

// DefaultAvoidance uses DefaultRepulsionStrength and DefaultDetectionRadius.
func DefaultAvoidance() Avoidance {
	return NewAvoidance(DefaultRepulsionStrength, DefaultDetectionRadius)
}

// Closest finds the nearest neighbour strictly inside the detection radius.
// On equal distances the first one in the slice wins.
func (a Avoidance) Closest(position geometry.Vector2D, neighbors []Neighbor) (Neighbor, float64, bool) {
	var closest Neighbor
	closestDist := math.MaxFloat64
	found := false

	for _, n := range neighbors {
		d := position.DistanceTo(n.Position)
		if d < closestDist && d < a.DetectionRadius {
			closest = n
			closestDist = d
			found = true
		}
	}
	return closest, closestDist, found
}

// Force computes the avoidance vector for a unit of selfMass at position.
// It is zero when nothing is inside the detection radius.
func (a Avoidance) Force(position geometry.Vector2D, selfMass float64, neighbors []Neighbor) geometry.Vector2D {
	if len(neighbors) == 0 {
		return geometry.Zero
	}

	closest, dist, ok := a.Closest(position, neighbors)
	if !ok {
		return geometry.Zero
	}

	direction := position.Sub(closest.Position).Normalize()
	strength := a.RepulsionStrength * MassInfluence(selfMass, closest.Mass) * a.DistanceFactor(dist)
	return direction.Mul(strength)
}

// DistanceFactor is (1 - d/r)^0.5: 1 when touching, 0 at the radius edge.
// Anything at or beyond the radius gives 0.
func (a Avoidance) DistanceFactor(distance float64) float64 {
	if a.DetectionRadius <= 0 || distance >= a.DetectionRadius {
		return 0
	}
	factor := 1 - distance/a.DetectionRadius
	return math.Pow(math.Max(factor, 0), distanceFalloffExponent)
}

// MassInfluence scales the push of a neighbour by the mass ratio other/self.
// A non-positive selfMass is treated as a neutral ratio.
func MassInfluence(selfMass, otherMass float64) float64 {
	if selfMass <= 0 {
		return baseInfluence
	}
	ratio := otherMass / selfMass

	if ratio > baseInfluence {
		return geometry.Clamp(math.Pow(ratio, heavierExponent), baseInfluence, maxInfluence)
	}
	return geometry.Clamp(math.Pow(ratio, lighterExponent), minInfluence, baseInfluence)
}
