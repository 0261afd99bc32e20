package surveil

// CameraSensorPlacement places cameras greedily, one at a time, in the
// corner of whichever room currently has the most uncovered area, facing
// that room's centroid. The original source stubs this stage out entirely
// (placement/camera.py never gets past unpacking G and M); this completes
// the algorithm spec.md §4.4.2 describes in full: per camera, scan every
// non-convex corner of every room (largest-area first) for the corner
// whose view cone covers the most still-uncovered cells, place there, and
// deplete that room's area and room_nodes by exactly what got covered.
type CameraSensorPlacement struct{}

func (CameraSensorPlacement) Place(sensors []Sensor, graph *ReducedGraph) (PlacementResult, error) {
	cameras := filterByKind(sensors, SensorCamera)
	if len(cameras) == 0 {
		return PlacementResult{Graph: graph}, nil
	}

	var placements []Placement
	for _, sensor := range cameras {
		cam := sensor.(*CameraSensor)
		pose, roomIdx, covered, ok := bestCameraPlacement(graph, cam)
		if !ok {
			// No room has any coverable corner left; the remaining cameras
			// simply see nothing, matching the source's treatment of a
			// fully-surveilled building as "nothing left to do" rather
			// than an error.
			continue
		}
		cam.Place(pose)
		placements = append(placements, Placement{Sensor: sensor, Pose: pose})
		depleteRoom(graph.Node(roomIdx), covered)
	}

	return PlacementResult{Graph: graph, Placements: placements}, nil
}

// bestCameraPlacement scans every room (largest uncovered area first) and
// every non-convex corner of each, returning the pose and covered cell set
// achieving the largest coverage anywhere. ok is false when no corner's
// view cone covers any still-uncovered cell.
func bestCameraPlacement(graph *ReducedGraph, cam *CameraSensor) (pose Pose, roomIdx int, covered []RoomCell, ok bool) {
	bestCoverage := 0

	for _, rIdx := range graph.RoomNodesByAreaDesc() {
		room := graph.Node(rIdx)
		cx, cy := (room.X+0.5)*graph.PixelToCM(), (room.Y+0.5)*graph.PixelToCM()

		for _, corner := range room.Corners {
			if corner.RawType == CellCornerCVX {
				continue
			}
			px, py := (float64(corner.Col)+0.5)*graph.PixelToCM(), (float64(corner.Row)+0.5)*graph.PixelToCM()
			heading := angleTo(px, py, cx, cy)
			trial := &CameraSensor{basePlacement: basePlacement{grid: cam.grid}, FOV: cam.FOV, Range: cam.Range}
			trial.place(Pose{X: px, Y: py, Theta: heading})

			var hits []RoomCell
			for _, cell := range room.RoomNodes {
				wx, wy := (float64(cell.Col)+0.5)*graph.PixelToCM(), (float64(cell.Row)+0.5)*graph.PixelToCM()
				if trial.InViewCone(wx, wy) {
					hits = append(hits, cell)
				}
			}

			if len(hits) > bestCoverage {
				bestCoverage = len(hits)
				pose = Pose{X: px, Y: py, Theta: heading}
				roomIdx = rIdx
				covered = hits
				ok = true
			}
		}
	}
	return pose, roomIdx, covered, ok
}

// depleteRoom removes covered cells from room.RoomNodes and subtracts their
// count from room.Area, so later cameras see the true remaining area
// (spec.md §9 "area and room_nodes must shrink in lock-step").
func depleteRoom(room *ReducedNode, covered []RoomCell) {
	if room == nil || len(covered) == 0 {
		return
	}
	coveredSet := make(map[int]bool, len(covered))
	for _, c := range covered {
		coveredSet[c.Index] = true
	}
	var remaining []RoomCell
	for _, cell := range room.RoomNodes {
		if !coveredSet[cell.Index] {
			remaining = append(remaining, cell)
		}
	}
	room.RoomNodes = remaining
	room.Area -= len(covered)
}
