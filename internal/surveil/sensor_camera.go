package surveil

import (
	"math"
)

// degPerRay is the angular spacing used to size a fan of detection rays
// from a sensor's field of view, matching camera.py's DEG_PER_RAY constant.
const degPerRay = 3.0

// CameraSensor is a fixed-pose, fixed-FOV detector. It fires a fan of
// num_rays = ceil(fov_deg / 3) rays across its cone each detection check
// and reports a hit if any ray's sampled segment overlaps an adversary. It
// never moves (grounded on camera.py's CameraSensor, whose update is a
// no-op).
type CameraSensor struct {
	basePlacement
	FOV     float64 // radians, total arc width
	Range   float64 // cm, may be +Inf
	numRays int
}

// NewCameraSensor constructs an unplaced camera. fovDeg is the total field
// of view in degrees; a zero or negative rangeCM is unbounded.
func NewCameraSensor(name string, grid *OccupancyGrid, fovDeg, rangeCM float64) *CameraSensor {
	if rangeCM <= 0 {
		rangeCM = math.Inf(1)
	}
	return &CameraSensor{
		basePlacement: basePlacement{name: name, grid: grid},
		FOV:           fovDeg * math.Pi / 180,
		Range:         rangeCM,
		numRays:       int(math.Ceil(fovDeg / degPerRay)),
	}
}

func (s *CameraSensor) Kind() SensorKind { return SensorCamera }

// Place fixes the camera's pose and heading. Called once by the Camera
// Placement stage.
func (s *CameraSensor) Place(pose Pose) { s.place(pose) }

// InViewCone reports whether (px, py) is within the camera's FOV and range,
// ignoring occlusion — used by the Camera Placement stage to score corner
// coverage before any ray casting happens.
func (s *CameraSensor) InViewCone(px, py float64) bool {
	p := s.Pose()
	if math.Hypot(px-p.X, py-p.Y) > s.Range {
		return false
	}
	return inViewCone(p.X, p.Y, p.Theta, s.FOV, px, py)
}

func (s *CameraSensor) rayEndpoint(theta float64) (float64, float64) {
	p := s.Pose()
	// Cap an unbounded range at the grid diagonal so the march ends at the
	// grid boundary instead of aiming at infinity.
	r := math.Min(s.Range, math.Hypot(float64(s.grid.Cols()), float64(s.grid.Rows()))*s.grid.PixelToCM())
	tx := p.X + r*math.Cos(theta)
	ty := p.Y + r*math.Sin(theta)
	hx, hy, _ := castRay(s.grid, p.X, p.Y, tx, ty)
	return hx, hy
}

// Detect reports whether any adversary overlaps one of the camera's
// num_rays sampled rays (spec.md §4.6).
func (s *CameraSensor) Detect(pool *AdversaryPool) bool {
	p := s.Pose()
	for _, theta := range sampleFOVRays(p.Theta, s.FOV, s.numRays) {
		ex, ey := s.rayEndpoint(theta)
		length := math.Hypot(ex-p.X, ey-p.Y)
		for d := 0.0; d < length; d += rayStepCM {
			x := p.X + d*math.Cos(theta)
			y := p.Y + d*math.Sin(theta)
			if pool.Contains(x, y) {
				return true
			}
		}
	}
	return false
}

// Update is a no-op: a camera's pose and heading are fixed once placed.
func (s *CameraSensor) Update() {}
