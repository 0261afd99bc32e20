package surveil

import (
	"math/rand"
	"testing"
)

// ringGraph builds a 4-node cycle 0-1-2-3-0, every node tagged as a
// hallway, so LineSensorPlacement has real cycle-breaking work to do.
func ringGraph() *ReducedGraph {
	m := &ReducedGraph{pixelToCM: 10, nodes: map[int]*ReducedNode{
		0: {Index: 0, Neighbours: []int{1, 3}, Type: ReducedHallway},
		1: {Index: 1, Neighbours: []int{0, 2}, Type: ReducedHallway},
		2: {Index: 2, Neighbours: []int{1, 3}, Type: ReducedHallway},
		3: {Index: 3, Neighbours: []int{2, 0}, Type: ReducedHallway},
	}}
	return m
}

func TestLineSensorPlacement_BreaksTheOnlyCycle(t *testing.T) {
	grid := gridFromRows([]string{"########", "#......#", "########"})
	graph := ringGraph()
	line := NewLineSensor("l1", grid, 100)

	stage := LineSensorPlacement{}
	result, err := stage.Place([]Sensor{line}, graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("expected exactly one placement, got %d", len(result.Placements))
	}
	if NumberOfCycles(result.Graph) != 0 {
		t.Fatalf("expected the cycle to be broken, still have %d cycles", NumberOfCycles(result.Graph))
	}
}

func TestLineSensorPlacement_ErrorsWhenNotEnoughHallways(t *testing.T) {
	grid := gridFromRows([]string{"###", "#.#", "###"})
	graph := &ReducedGraph{pixelToCM: 10, nodes: map[int]*ReducedNode{
		0: {Index: 0, Type: ReducedRoom},
	}}
	lines := []Sensor{NewLineSensor("l1", grid, 100), NewLineSensor("l2", grid, 100)}

	stage := LineSensorPlacement{}
	_, err := stage.Place(lines, graph)
	if _, ok := err.(*GraphError); !ok {
		t.Fatalf("expected *GraphError, got %T (%v)", err, err)
	}
}

func TestLineSensorPlacement_NoOpWithoutLineSensors(t *testing.T) {
	graph := ringGraph()
	stage := LineSensorPlacement{}
	result, err := stage.Place(nil, graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Graph.Len() != graph.Len() {
		t.Fatal("expected the graph to pass through unchanged with no line sensors")
	}
	if len(result.Placements) != 0 {
		t.Fatal("expected no placements with no line sensors")
	}
}

func TestCombinations_CountAndContent(t *testing.T) {
	combos := combinations([]int{1, 2, 3, 4}, 2)
	if len(combos) != 6 {
		t.Fatalf("expected C(4,2)=6 combinations, got %d", len(combos))
	}
	if combos[0][0] != 1 || combos[0][1] != 2 {
		t.Fatalf("expected the first combination to be [1 2], got %v", combos[0])
	}
	if combos[len(combos)-1][0] != 3 || combos[len(combos)-1][1] != 4 {
		t.Fatalf("expected the last combination to be [3 4], got %v", combos[len(combos)-1])
	}
}

func roomGraphWithCorners() (*ReducedGraph, int) {
	pixelToCM := 10.0
	room := &ReducedNode{
		Index: 0, Type: ReducedRoom, Area: 4, X: 2, Y: 2,
		RoomNodes: []RoomCell{
			{Index: 0, Col: 1, Row: 1, RawType: CellCornerCCV},
			{Index: 1, Col: 3, Row: 1, RawType: CellCornerCCV},
			{Index: 2, Col: 1, Row: 3, RawType: CellCornerCCV},
			{Index: 3, Col: 3, Row: 3, RawType: CellCornerCCV},
		},
		Corners: []RoomCell{
			{Index: 0, Col: 1, Row: 1, RawType: CellCornerCCV},
			{Index: 1, Col: 3, Row: 1, RawType: CellCornerCCV},
			{Index: 2, Col: 1, Row: 3, RawType: CellCornerCCV},
			{Index: 3, Col: 3, Row: 3, RawType: CellCornerCCV},
		},
	}
	m := &ReducedGraph{pixelToCM: pixelToCM, nodes: map[int]*ReducedNode{0: room}}
	return m, 0
}

func TestCameraSensorPlacement_PlacesAtACornerAndDepletesRoom(t *testing.T) {
	grid := gridFromRows([]string{
		"######",
		"#....#",
		"#....#",
		"#....#",
		"######",
	})
	graph, roomIdx := roomGraphWithCorners()
	cam := NewCameraSensor("c1", grid, 90, 0)

	stage := CameraSensorPlacement{}
	result, err := stage.Place([]Sensor{cam}, graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("expected one camera placement, got %d", len(result.Placements))
	}
	if !cam.basePlacement.placed {
		t.Fatal("expected the camera's pose to be fixed after placement")
	}
	room := graph.Node(roomIdx)
	if room.Area >= 4 {
		t.Fatalf("expected the room's area to shrink after camera coverage, got %d", room.Area)
	}
}

func TestCameraSensorPlacement_NoOpWithoutCoverableCorners(t *testing.T) {
	room := &ReducedNode{Index: 0, Type: ReducedRoom, Area: 1, RoomNodes: nil, Corners: nil}
	graph := &ReducedGraph{pixelToCM: 10, nodes: map[int]*ReducedNode{0: room}}
	cam := NewCameraSensor("c1", gridFromRows([]string{"###", "#.#", "###"}), 90, 0)

	stage := CameraSensorPlacement{}
	result, err := stage.Place([]Sensor{cam}, graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 0 {
		t.Fatal("expected no placement when no room has a coverable corner")
	}
}

func TestRobotPlacement_PlacesAtARoomNode(t *testing.T) {
	graph, roomIdx := roomGraphWithCorners()
	robot := NewRobot("r1", gridFromRows([]string{"###", "#.#", "###"}), 5, 2, 1.0, 100, 10)

	stage := RobotPlacement{rng: rand.New(rand.NewSource(1))}
	result, err := stage.Place([]Sensor{robot}, graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("expected one robot placement, got %d", len(result.Placements))
	}
	room := graph.Node(roomIdx)
	expectedX := (room.X + 0.5) * graph.PixelToCM()
	if result.Placements[0].Pose.X != expectedX {
		t.Fatalf("expected the robot placed at the room's world position, got %v want %v", result.Placements[0].Pose.X, expectedX)
	}
}

func TestRobotPlacement_ErrorsWithNoRooms(t *testing.T) {
	graph := &ReducedGraph{pixelToCM: 10, nodes: map[int]*ReducedNode{
		0: {Index: 0, Type: ReducedHallway},
	}}
	robot := NewRobot("r1", gridFromRows([]string{"###", "#.#", "###"}), 5, 2, 1.0, 100, 10)

	stage := RobotPlacement{}
	_, err := stage.Place([]Sensor{robot}, graph)
	if _, ok := err.(*GraphError); !ok {
		t.Fatalf("expected *GraphError, got %T (%v)", err, err)
	}
}

func TestPipeline_RunOrdersLineBeforeCameraBeforeRobot(t *testing.T) {
	grid := gridFromRows([]string{
		"################",
		"#......##......#",
		"#......##......#",
		"#..............#",
		"#......##......#",
		"################",
	})
	graph := Reduce(BuildCellGraph(grid))

	line := NewLineSensor("l1", grid, 0)
	cam := NewCameraSensor("c1", grid, 90, 0)
	robot := NewRobot("r1", grid, 5, 2, 1.0, 100, 10)

	pipeline := NewPipeline(grid, rand.New(rand.NewSource(7)))
	placements, _, err := pipeline.Run([]Sensor{line, cam, robot}, graph)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(placements) == 0 {
		t.Fatal("expected at least some sensors to be placed")
	}
	if len(placements) != 3 || placements[0].Sensor.Kind() != SensorLine ||
		placements[1].Sensor.Kind() != SensorCamera || placements[2].Sensor.Kind() != SensorRobot {
		t.Fatalf("expected line, camera, robot placements in that order, got %v", placements)
	}
}

func TestPipeline_RunSkipsUnplaceableCameraWithoutError(t *testing.T) {
	grid := gridFromRows([]string{
		"######",
		"#....#",
		"#....#",
		"#....#",
		"######",
	})
	graph, _ := roomGraphWithCorners()
	cam1 := NewCameraSensor("c1", grid, 90, 0)
	cam2 := NewCameraSensor("c2", grid, 90, 0)

	pipeline := &Pipeline{stages: []Stage{&CameraSensorPlacement{}}}
	placements, _, err := pipeline.Run([]Sensor{cam1, cam2}, graph)
	if err != nil {
		t.Fatalf("expected no error when a second camera finds no coverable corner left, got %v", err)
	}
	if len(placements) != 1 {
		t.Fatalf("expected exactly one camera to be placed, got %d", len(placements))
	}
}

// fakeKindSensor is a Sensor double reporting a SensorKind no Stage in this
// package recognises, for exercising Pipeline.Run's unrecognised-kind path
// without adding a fourth real sensor family.
type fakeKindSensor struct {
	basePlacement
}

func (f *fakeKindSensor) Kind() SensorKind            { return SensorKind(99) }
func (f *fakeKindSensor) Detect(_ *AdversaryPool) bool { return false }
func (f *fakeKindSensor) Update()                      {}

func TestPipeline_RunErrorsOnUnrecognisedSensorKind(t *testing.T) {
	graph, _ := roomGraphWithCorners()
	pipeline := &Pipeline{stages: []Stage{&CameraSensorPlacement{}}}

	_, _, err := pipeline.Run([]Sensor{&fakeKindSensor{basePlacement{name: "x1"}}}, graph)
	if _, ok := err.(*PlacementError); !ok {
		t.Fatalf("expected *PlacementError for a kind no configured stage claims, got %T (%v)", err, err)
	}
}

func TestPipeline_RunRecordsRoomCoverage(t *testing.T) {
	grid := gridFromRows([]string{
		"######",
		"#....#",
		"#....#",
		"#....#",
		"######",
	})
	graph, roomIdx := roomGraphWithCorners()
	cam := NewCameraSensor("c1", grid, 90, 0)

	pipeline := &Pipeline{stages: []Stage{&CameraSensorPlacement{}}}
	if _, _, err := pipeline.Run([]Sensor{cam}, graph); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coverage := pipeline.Coverage()
	if coverage == nil {
		t.Fatal("expected Coverage() to report after a run with camera sensors")
	}
	if len(coverage.Rooms) != 1 || coverage.Rooms[0].NodeIndex != roomIdx {
		t.Fatalf("expected one room's coverage at index %d, got %v", roomIdx, coverage.Rooms)
	}
	if coverage.Rooms[0].AreaBefore != 4 {
		t.Fatalf("expected AreaBefore to reflect the pre-placement snapshot of 4, got %d", coverage.Rooms[0].AreaBefore)
	}
	if coverage.Rooms[0].AreaAfter >= coverage.Rooms[0].AreaBefore {
		t.Fatalf("expected AreaAfter to shrink below AreaBefore, got before=%d after=%d",
			coverage.Rooms[0].AreaBefore, coverage.Rooms[0].AreaAfter)
	}
}

func TestPipeline_CoverageNilWithoutCameraStageRun(t *testing.T) {
	pipeline := &Pipeline{stages: []Stage{&LineSensorPlacement{}}}
	if _, _, err := pipeline.Run(nil, ringGraph()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pipeline.Coverage() != nil {
		t.Fatal("expected Coverage() to stay nil when no Camera Placement stage ran")
	}
}
