package surveil

import "math"

// Adversary is a mobile intruder that follows the fails-forward
// wall-following policy: walk straight until the next step (accounting for
// its radius) would leave the grid or enter a solid cell, then rotate +90
// degrees and try again next tick (spec.md §4.13, grounded on adversary.py's
// Adversary.update).
type Adversary struct {
	Pose
	Radius float64 // cm
	Speed  float64 // cm per timestep

	grid *OccupancyGrid
}

// NewAdversary places an adversary at pose with the given radius and speed,
// bound to grid for its motion collision checks.
func NewAdversary(pose Pose, radius, speed float64, grid *OccupancyGrid) *Adversary {
	return &Adversary{Pose: pose, Radius: radius, Speed: speed, grid: grid}
}

// Contains reports whether the point (x, y) falls within the adversary's
// body radius.
func (a *Adversary) Contains(x, y float64) bool {
	dx, dy := x-a.X, y-a.Y
	return math.Hypot(dx, dy) <= a.Radius
}

// Step advances the adversary one timestep: walk forward if clear,
// otherwise rotate a quarter turn and remain in place.
func (a *Adversary) Step() {
	nx := a.X + a.Speed*math.Cos(a.Theta)
	ny := a.Y + a.Speed*math.Sin(a.Theta)

	// Check the leading edge of the body, not just its centre, so a wide
	// adversary doesn't clip a wall it's about to graze.
	edgeX := nx + a.Radius*math.Cos(a.Theta)
	edgeY := ny + a.Radius*math.Sin(a.Theta)

	if a.grid.InEnvironment(edgeX, edgeY) && !a.grid.InObject(edgeX, edgeY) {
		a.X, a.Y = nx, ny
		return
	}
	a.Theta = normalizeAngle(a.Theta + math.Pi/2)
}

// AdversaryPool is the set of intruders a sensor's Detect call checks
// against.
type AdversaryPool struct {
	Adversaries []*Adversary
}

// Contains reports whether any adversary in the pool covers (x, y).
func (p *AdversaryPool) Contains(x, y float64) bool {
	for _, a := range p.Adversaries {
		if a.Contains(x, y) {
			return true
		}
	}
	return false
}

// Step advances every adversary in the pool by one timestep.
func (p *AdversaryPool) Step() {
	for _, a := range p.Adversaries {
		a.Step()
	}
}
