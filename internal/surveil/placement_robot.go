package surveil

import (
	"errors"
	"math/rand"
)

var errNoRoomsForRobots = errors.New("no room nodes available to place robots in")

// RobotPlacement places each robot at a uniformly-random room node's world
// position with theta=0 and passes the graph through unmodified — an
// explicit stand-in baseline, not a coverage-optimal placement (spec.md
// §4.4.3, grounded on placement/robot.py).
type RobotPlacement struct {
	rng *rand.Rand
}

func (p *RobotPlacement) Place(sensors []Sensor, graph *ReducedGraph) (PlacementResult, error) {
	robots := filterByKind(sensors, SensorRobot)
	if len(robots) == 0 {
		return PlacementResult{Graph: graph}, nil
	}

	rooms := graph.RoomNodesByAreaDesc()
	if len(rooms) == 0 {
		return PlacementResult{}, &GraphError{Err: errNoRoomsForRobots}
	}

	rng := p.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic fallback, not security sensitive
	}

	placements := make([]Placement, 0, len(robots))
	for _, sensor := range robots {
		room := graph.Node(rooms[rng.Intn(len(rooms))])
		x, y := (room.X+0.5)*graph.PixelToCM(), (room.Y+0.5)*graph.PixelToCM()
		pose := Pose{X: x, Y: y, Theta: 0}
		sensor.(*Robot).Place(pose)
		placements = append(placements, Placement{Sensor: sensor, Pose: pose})
	}

	return PlacementResult{Graph: graph, Placements: placements}, nil
}
