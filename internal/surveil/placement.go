package surveil

import "math/rand"

// Placement pairs a sensor with the pose a stage chose for it.
type Placement struct {
	Sensor Sensor
	Pose   Pose
}

// PlacementResult is a stage's output: the placements it made plus the
// graph as mutated by that stage (line placement removes segmenting
// nodes; camera placement only shrinks room area/room_nodes; robot
// placement passes the graph through unchanged).
type PlacementResult struct {
	Graph      *ReducedGraph
	Placements []Placement
}

// Stage is one step of the placement pipeline: it consumes the sensors of
// its own kind from the working list and the graph as left by the previous
// stage, and returns where it placed them plus the graph it leaves behind
// (spec.md §4.4.4).
type Stage interface {
	Place(sensors []Sensor, graph *ReducedGraph) (PlacementResult, error)
}

// Pipeline is the fixed Line -> Camera -> Robot sequence (spec.md §4.4).
// Line sensors segment the topology first so camera and robot placement
// see the true post-segmentation graph.
type Pipeline struct {
	stages   []Stage
	coverage *RoomCoverageReport
}

// NewPipeline builds the standard three-stage pipeline. rng drives Robot
// Placement's random room choice; pass rand.New(rand.NewSource(seed)) for a
// deterministic run.
func NewPipeline(grid *OccupancyGrid, rng *rand.Rand) *Pipeline {
	return &Pipeline{stages: []Stage{
		&LineSensorPlacement{},
		&CameraSensorPlacement{},
		&RobotPlacement{rng: rng},
	}}
}

// Run drives every sensor through the pipeline and returns the union of all
// stage placements plus the final graph. A sensor of a kind no stage
// claims at all is a PlacementError. A sensor whose kind a stage claims but
// chose not to place (e.g. a camera left over once no room has a coverable
// corner left) is not an error — it is simply left out of the returned
// placements, same as the stage that skipped it reported.
func (p *Pipeline) Run(sensors []Sensor, graph *ReducedGraph) ([]Placement, *ReducedGraph, error) {
	remaining := append([]Sensor(nil), sensors...)
	var all []Placement

	for _, stage := range p.stages {
		before := graph
		_, isCameraStage := stage.(*CameraSensorPlacement)
		if isCameraStage {
			before = graph.Clone()
		}

		result, err := stage.Place(remaining, graph)
		if err != nil {
			return nil, nil, err
		}
		graph = result.Graph
		if isCameraStage {
			p.coverage = NewRoomCoverageReport(before, graph)
		}
		all = append(all, result.Placements...)
		remaining = subtractPlaced(remaining, result.Placements)
	}

	for _, s := range remaining {
		if !isPlaceableKind(s.Kind()) {
			return nil, nil, &PlacementError{SensorName: s.Name(), Kind: s.Kind()}
		}
	}
	return all, graph, nil
}

// Coverage returns the per-room area before and after the most recent Run's
// Camera Placement stage, or nil if no CameraSensorPlacement stage has run
// yet. A run with no camera sensors still records a report, with every
// room's area unchanged.
func (p *Pipeline) Coverage() *RoomCoverageReport { return p.coverage }

// isPlaceableKind reports whether some stage's filterByKind claims kind at
// all, independent of whether that stage actually found room to place it.
func isPlaceableKind(kind SensorKind) bool {
	switch kind {
	case SensorLine, SensorCamera, SensorRobot:
		return true
	default:
		return false
	}
}

func subtractPlaced(sensors []Sensor, placed []Placement) []Sensor {
	placedSet := make(map[Sensor]bool, len(placed))
	for _, p := range placed {
		placedSet[p.Sensor] = true
	}
	var out []Sensor
	for _, s := range sensors {
		if !placedSet[s] {
			out = append(out, s)
		}
	}
	return out
}
