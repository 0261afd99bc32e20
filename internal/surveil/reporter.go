package surveil

import (
	"fmt"
	"strings"
)

// DeploymentReport is a full snapshot of a completed placement + simulation
// run, formatted to a terminal instead of the original source's interactive
// matplotlib figure (spec.md Non-goals exclude a GUI, but the run's result
// still needs to be legible somewhere).
type DeploymentReport struct {
	MapCols, MapRows int
	PixelToCM        float64

	Placements []Placement
	Timesteps  int
	Events     []DetectionEvent

	RoomCount    int
	HallwayCount int
	JunctionCount int
	CyclesAfterLineSensors int

	Coverage *RoomCoverageReport
}

// RoomCoverage is one room's cell area immediately before and after Camera
// Placement deposits sensors into it — the "area and room_nodes must
// shrink in lock-step" bookkeeping depleteRoom performs, surfaced for
// inspection rather than just consumed internally by Robot Placement.
type RoomCoverage struct {
	NodeIndex  int
	AreaBefore int
	AreaAfter  int
}

// RoomCoverageReport is every room's before/after coverage from one
// Pipeline.Run, in ascending node-index order.
type RoomCoverageReport struct {
	Rooms []RoomCoverage
}

// NewRoomCoverageReport diffs before, the graph as Camera Placement found
// it, against after, the same graph once Camera Placement finished
// depleting room area, room by room. A room absent from after (removed by
// an earlier stage) reports an AreaAfter of 0.
func NewRoomCoverageReport(before, after *ReducedGraph) *RoomCoverageReport {
	r := &RoomCoverageReport{}
	for _, idx := range before.Indices() {
		n := before.Node(idx)
		if n.Type != ReducedRoom {
			continue
		}
		var areaAfter int
		if an := after.Node(idx); an != nil {
			areaAfter = an.Area
		}
		r.Rooms = append(r.Rooms, RoomCoverage{NodeIndex: idx, AreaBefore: n.Area, AreaAfter: areaAfter})
	}
	return r
}

// NewDeploymentReport builds a report from a finished pipeline run and
// simulation. coverage is the pipeline's Coverage(); nil is fine when no
// cameras were placed.
func NewDeploymentReport(grid *OccupancyGrid, graph *ReducedGraph, placements []Placement, sim *Simulation, coverage *RoomCoverageReport) *DeploymentReport {
	r := &DeploymentReport{
		MapCols:                grid.Cols(),
		MapRows:                grid.Rows(),
		PixelToCM:              grid.PixelToCM(),
		Placements:             placements,
		Timesteps:              sim.Timestep(),
		Events:                 sim.Events(),
		CyclesAfterLineSensors: NumberOfCycles(graph),
		Coverage:               coverage,
	}
	for _, idx := range graph.Indices() {
		switch graph.Node(idx).Type {
		case ReducedRoom:
			r.RoomCount++
		case ReducedHallway:
			r.HallwayCount++
		case ReducedJunction:
			r.JunctionCount++
		}
	}
	return r
}

// Format renders the report as plain text suitable for a terminal.
func (r *DeploymentReport) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "=== Surveillance Deployment Report ===\n")
	fmt.Fprintf(&sb, "map: %dx%d cells, %.2f cm/cell\n", r.MapCols, r.MapRows, r.PixelToCM)
	fmt.Fprintf(&sb, "graph: %d rooms, %d hallways, %d junctions, %d cycles remaining after segmentation\n",
		r.RoomCount, r.HallwayCount, r.JunctionCount, r.CyclesAfterLineSensors)

	sb.WriteString("\n--- Placements ---\n")
	for _, p := range r.Placements {
		fmt.Fprintf(&sb, "  %-8s %-12s pos=(%.1f, %.1f) theta=%.2f\n",
			p.Sensor.Kind(), p.Sensor.Name(), p.Pose.X, p.Pose.Y, p.Pose.Theta)
	}

	if r.Coverage != nil {
		sb.WriteString("\n--- Room Coverage ---\n")
		for _, room := range r.Coverage.Rooms {
			covered := room.AreaBefore - room.AreaAfter
			pct := 0.0
			if room.AreaBefore > 0 {
				pct = 100 * float64(covered) / float64(room.AreaBefore)
			}
			fmt.Fprintf(&sb, "  room[%-3d] area %4d -> %4d cells (%.0f%% covered by cameras)\n",
				room.NodeIndex, room.AreaBefore, room.AreaAfter, pct)
		}
	}

	fmt.Fprintf(&sb, "\n--- Simulation (%d timesteps) ---\n", r.Timesteps)
	if len(r.Events) == 0 {
		sb.WriteString("  no detections\n")
	}
	for _, e := range r.Events {
		fmt.Fprintf(&sb, "  t=%-4d %-8s %s detected an adversary\n", e.Timestep, e.Kind, e.SensorName)
	}

	return sb.String()
}
