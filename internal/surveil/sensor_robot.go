package surveil

import "math"

// Robot is a mobile LIDAR-equipped detector: a circular body with a
// fixed-FOV sensor fan on its front, stepped at AngleResolution radians
// rather than the camera's fixed ray count. Between detection checks it
// advances with the same fails-forward wall-following policy as Adversary:
// walk forward, and if the body's leading edge would leave the grid or
// enter a solid cell, rotate +90 degrees instead (grounded on robot.py's
// Robot).
type Robot struct {
	basePlacement
	Radius          float64 // cm
	Speed           float64 // cm per timestep
	FOV             float64 // radians, total arc width
	Range           float64 // cm, may be +Inf
	AngleResolution float64 // radians between successive LIDAR rays
}

// NewRobot constructs an unplaced robot. angleResolutionDeg is the spacing
// between LIDAR rays in degrees; a zero or negative rangeCM is unbounded.
func NewRobot(name string, grid *OccupancyGrid, radius, speed, fovRad, rangeCM, angleResolutionDeg float64) *Robot {
	if rangeCM <= 0 {
		rangeCM = math.Inf(1)
	}
	return &Robot{
		basePlacement:   basePlacement{name: name, grid: grid},
		Radius:          radius,
		Speed:           speed,
		FOV:             fovRad,
		Range:           rangeCM,
		AngleResolution: angleResolutionDeg * math.Pi / 180,
	}
}

func (s *Robot) Kind() SensorKind { return SensorRobot }

// Place fixes the robot's starting pose. Called once by the Robot
// Placement stage; subsequent motion happens through Update.
func (s *Robot) Place(pose Pose) { s.place(pose) }

// rayAngles returns the robot's LIDAR fan, stepped at AngleResolution
// across its FOV, rather than the camera's fixed ray count (spec.md §4.6).
func (s *Robot) rayAngles(heading float64) []float64 {
	if s.AngleResolution <= 0 {
		return []float64{heading}
	}
	n := int(math.Floor(s.FOV/s.AngleResolution)) + 1
	angles := make([]float64, 0, n)
	start := heading - s.FOV/2
	for a := start; a <= heading+s.FOV/2+1e-9; a += s.AngleResolution {
		angles = append(angles, normalizeAngle(a))
	}
	return angles
}

func (s *Robot) rayEndpoint(theta float64) (float64, float64) {
	p := s.Pose()
	// Cap an unbounded range at the grid diagonal so the march ends at the
	// grid boundary instead of aiming at infinity.
	r := math.Min(s.Range, math.Hypot(float64(s.grid.Cols()), float64(s.grid.Rows()))*s.grid.PixelToCM())
	tx := p.X + r*math.Cos(theta)
	ty := p.Y + r*math.Sin(theta)
	hx, hy, _ := castRay(s.grid, p.X, p.Y, tx, ty)
	return hx, hy
}

// Detect reports whether any adversary overlaps one of the robot's LIDAR
// rays (spec.md §4.6).
func (s *Robot) Detect(pool *AdversaryPool) bool {
	p := s.Pose()
	for _, theta := range s.rayAngles(p.Theta) {
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

// Update advances the robot one timestep using the fails-forward
// wall-following policy shared with Adversary.Step.
func (s *Robot) Update() {
	p := s.Pose()
	nx := p.X + s.Speed*math.Cos(p.Theta)
	ny := p.Y + s.Speed*math.Sin(p.Theta)

	edgeX := nx + s.Radius*math.Cos(p.Theta)
	edgeY := ny + s.Radius*math.Sin(p.Theta)

	if s.grid.InEnvironment(edgeX, edgeY) && !s.grid.InObject(edgeX, edgeY) {
		s.pose.X, s.pose.Y = nx, ny
		return
	}
	s.pose.Theta = normalizeAngle(p.Theta + math.Pi/2)
}
