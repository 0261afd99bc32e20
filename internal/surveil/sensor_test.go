package surveil

import (
	"math"
	"testing"
)

func openRoomGrid() *OccupancyGrid {
	return gridFromRows([]string{
		"##########",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"##########",
	})
}

func TestBasePlacement_PoseBeforePlacePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when querying pose before placement")
		}
	}()
	s := NewLineSensor("beam", openRoomGrid(), 100)
	_ = s.Pose()
}

func TestLineSensor_DetectsAdversaryOnBeam(t *testing.T) {
	grid := openRoomGrid()
	s := NewLineSensor("beam", grid, 0) // unbounded range
	s.Place(Pose{X: 15, Y: 25, Theta: 0})

	pool := &AdversaryPool{Adversaries: []*Adversary{
		NewAdversary(Pose{X: 55, Y: 25}, 3, 0, grid),
	}}
	if !s.Detect(pool) {
		t.Fatal("expected the line sensor to detect an adversary sitting on its beam")
	}
}

func TestLineSensor_MissesAdversaryOffBeam(t *testing.T) {
	grid := openRoomGrid()
	s := NewLineSensor("beam", grid, 0)
	s.Place(Pose{X: 15, Y: 15, Theta: 0})

	pool := &AdversaryPool{Adversaries: []*Adversary{
		NewAdversary(Pose{X: 55, Y: 45}, 2, 0, grid),
	}}
	if s.Detect(pool) {
		t.Fatal("expected no detection for an adversary far off the beam")
	}
}

func TestLineSensor_ZeroRangeIsUnbounded(t *testing.T) {
	s := NewLineSensor("beam", openRoomGrid(), 0)
	if !math.IsInf(s.Range, 1) {
		t.Fatalf("expected a non-positive range to become +Inf, got %v", s.Range)
	}
}

func TestCameraSensor_NumRaysMatchesSpecFormula(t *testing.T) {
	cam := NewCameraSensor("cam", openRoomGrid(), 90, 100)
	if cam.numRays != 30 { // ceil(90/3)
		t.Fatalf("expected 30 rays for a 90 degree FOV, got %d", cam.numRays)
	}
}

func TestCameraSensor_InViewConeRespectsFOVAndRange(t *testing.T) {
	cam := NewCameraSensor("cam", openRoomGrid(), 90, 20)
	cam.Place(Pose{X: 15, Y: 25, Theta: 0})

	if !cam.InViewCone(30, 25) {
		t.Fatal("a point straight ahead within range should be in view")
	}
	if cam.InViewCone(5, 25) {
		t.Fatal("a point behind the camera should not be in view")
	}
	if cam.InViewCone(60, 25) {
		t.Fatal("a point beyond range should not be in view even on-axis")
	}
}

func TestCameraSensor_DetectsAdversaryInCone(t *testing.T) {
	grid := openRoomGrid()
	cam := NewCameraSensor("cam", grid, 90, 0)
	cam.Place(Pose{X: 15, Y: 25, Theta: 0})

	pool := &AdversaryPool{Adversaries: []*Adversary{
		NewAdversary(Pose{X: 50, Y: 25}, 3, 0, grid),
	}}
	if !cam.Detect(pool) {
		t.Fatal("expected the camera to detect an adversary directly ahead")
	}
}

func TestRobot_RayAnglesSpanFOVAtAngleResolution(t *testing.T) {
	r := NewRobot("r1", openRoomGrid(), 5, 5, math.Pi/2, 100, 15) // 15 degree steps
	angles := r.rayAngles(0)
	if len(angles) < 2 {
		t.Fatalf("expected multiple LIDAR rays, got %d", len(angles))
	}
	if math.Abs(angles[0]-(-math.Pi/4)) > 1e-9 {
		t.Fatalf("expected the first ray at the left edge of the FOV, got %v", angles[0])
	}
}

func TestRobot_UpdateWalksForwardThenRotatesAtWall(t *testing.T) {
	grid := openRoomGrid()
	r := NewRobot("r1", grid, 2, 10, math.Pi/2, 50, 15)
	r.Place(Pose{X: 15, Y: 25, Theta: 0})

	r.Update()
	if r.Pose().X <= 15 {
		t.Fatal("expected the robot to advance while the path ahead is clear")
	}

	r.Place(Pose{X: 88, Y: 25, Theta: 0}) // hard against the east wall
	r.Update()
	if math.Abs(r.Pose().Theta-math.Pi/2) > 1e-9 {
		t.Fatalf("expected a quarter turn at the wall, got theta=%.2f", r.Pose().Theta)
	}
}

func TestRobot_DetectsAdversaryOnLidarFan(t *testing.T) {
	grid := openRoomGrid()
	r := NewRobot("r1", grid, 2, 0, math.Pi/2, 0, 15)
	r.Place(Pose{X: 15, Y: 25, Theta: 0})

	pool := &AdversaryPool{Adversaries: []*Adversary{
		NewAdversary(Pose{X: 55, Y: 25}, 3, 0, grid),
	}}
	if !r.Detect(pool) {
		t.Fatal("expected the robot's LIDAR fan to detect an adversary ahead of it")
	}
}
