package surveil

import "math"

// LineSensor is a breakbeam detector: a single ray from its pose along
// theta, truncated at range or the first solid cell. It fires when any
// adversary overlaps the sampled segment. It never moves (grounded on
// line.py's LineSensor, whose update is a no-op).
type LineSensor struct {
	basePlacement
	Range float64 // cm, may be +Inf
}

// NewLineSensor constructs an unplaced line sensor. A zero or negative
// Range is treated as unbounded.
func NewLineSensor(name string, grid *OccupancyGrid, rangeCM float64) *LineSensor {
	if rangeCM <= 0 {
		rangeCM = math.Inf(1)
	}
	return &LineSensor{
		basePlacement: basePlacement{name: name, grid: grid},
		Range:         rangeCM,
	}
}

func (s *LineSensor) Kind() SensorKind { return SensorLine }

// Place fixes the sensor's pose. Called once by the Line Sensor Placement
// stage.
func (s *LineSensor) Place(pose Pose) { s.place(pose) }

// endpoint returns where the beam terminates: at Range, the grid boundary,
// or the first solid cell, whichever comes first.
func (s *LineSensor) endpoint() (float64, float64) {
	p := s.Pose()
	// Cap an unbounded beam at the grid diagonal so the march ends at the
	// grid boundary instead of aiming at infinity.
	r := math.Min(s.Range, math.Hypot(float64(s.grid.Cols()), float64(s.grid.Rows()))*s.grid.PixelToCM())
	tx := p.X + r*math.Cos(p.Theta)
	ty := p.Y + r*math.Sin(p.Theta)
	hx, hy, _ := castRay(s.grid, p.X, p.Y, tx, ty)
	return hx, hy
}

// Detect reports whether any adversary in pool overlaps the beam, sampled
// every rayStepCM along its length (spec.md §4.6).
func (s *LineSensor) Detect(pool *AdversaryPool) bool {
	p := s.Pose()
	ex, ey := s.endpoint()
	length := math.Hypot(ex-p.X, ey-p.Y)

	for d := 0.0; d < length; d += rayStepCM {
		x := p.X + d*math.Cos(p.Theta)
		y := p.Y + d*math.Sin(p.Theta)
		if pool.Contains(x, y) {
			return true
		}
	}
	return false
}

// Update is a no-op: a line sensor's beam is fixed once placed.
func (s *LineSensor) Update() {}
