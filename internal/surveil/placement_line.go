package surveil

import (
	"fmt"
	"math"
)

// LineSensorPlacement chooses hallway nodes to break beam sensors across so
// as to minimise remaining cycles in the reduced graph, breaking ties by
// balancing resulting sub-graph sizes (spec.md §4.4.1, grounded on
// placement/line.py).
type LineSensorPlacement struct{}

func (LineSensorPlacement) Place(sensors []Sensor, graph *ReducedGraph) (PlacementResult, error) {
	lines := filterByKind(sensors, SensorLine)
	if len(lines) == 0 {
		return PlacementResult{Graph: graph}, nil
	}

	hallways := graph.HallwayNodes()
	if len(hallways) < len(lines) {
		return PlacementResult{}, &GraphError{Err: fmt.Errorf(
			"%d line sensors requested but reduction produced only %d hallway nodes", len(lines), len(hallways))}
	}
	combos := combinations(hallways, len(lines))

	var best []lineCombo
	bestCycles := math.MaxInt64

	for _, combo := range combos {
		trial := graph.Clone()
		for _, idx := range combo {
			trial.RemoveNode(idx)
		}
		trial.RemoveIsolatedNodes()
		cycles := NumberOfCycles(trial)

		switch {
		case cycles < bestCycles:
			bestCycles = cycles
			best = []lineCombo{{combo, cycles}}
		case cycles == bestCycles:
			best = append(best, lineCombo{combo, cycles})
		}
	}

	chosen := best[0].combo
	if len(best) > 1 {
		chosen = lowestStddevCombo(graph, best)
	}

	final := graph.Clone()
	for _, idx := range chosen {
		final.RemoveNode(idx)
	}

	placements := make([]Placement, len(chosen))
	for i, idx := range chosen {
		node := graph.Node(idx)
		placements[i] = Placement{
			Sensor: lines[i],
			Pose:   lineSensorPose(node, graph.PixelToCM(), lines[i]),
		}
		lines[i].(*LineSensor).Place(placements[i].Pose)
	}

	return PlacementResult{Graph: final, Placements: placements}, nil
}

type lineCombo struct {
	combo  []int
	cycles int
}

func lowestStddevCombo(graph *ReducedGraph, candidates []lineCombo) []int {
	best := candidates[0].combo
	bestStddev := math.Inf(1)

	for _, c := range candidates {
		trial := graph.Clone()
		for _, idx := range c.combo {
			trial.RemoveNode(idx)
		}
		sizes := SubGraphSizes(trial)
		sd := stddev(sizes)
		if sd < bestStddev {
			bestStddev = sd
			best = c.combo
		}
	}
	return best
}

func stddev(xs []int) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += float64(x)
	}
	mean /= float64(len(xs))

	var sumSq float64
	for _, x := range xs {
		d := float64(x) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// lineSensorPose derives a pose that spans the collapsed hallway's width:
// ray cast along theta=pi first; if that hits a wall within one cell, orient
// perpendicular to it (theta=0); otherwise cast along theta=3pi/2 and
// orient perpendicular to that wall instead (theta=pi/2) — spec.md
// §4.4.1 step 6.
func lineSensorPose(node *ReducedNode, pixelToCM float64, sensor Sensor) Pose {
	ls := sensor.(*LineSensor)
	cx := (node.X + 0.5) * pixelToCM
	cy := (node.Y + 0.5) * pixelToCM

	boxSize := pixelToCM

	if x, y, ok := probeWall(ls.grid, cx, cy, math.Pi, boxSize); ok {
		return Pose{X: x, Y: y, Theta: 0}
	}
	x, y, _ := probeWall(ls.grid, cx, cy, 3*math.Pi/2, boxSize)
	return Pose{X: x, Y: y, Theta: math.Pi / 2}
}

// probeWall steps from (cx,cy) along theta up to maxDist, returning the
// point one step short of the first solid cell hit, or ok=false if none was
// hit within maxDist.
func probeWall(grid *OccupancyGrid, cx, cy, theta, maxDist float64) (float64, float64, bool) {
	lastX, lastY := cx, cy
	for d := rayStepCM; d < maxDist; d += rayStepCM {
		x := cx + d*math.Cos(theta)
		y := cy + d*math.Sin(theta)
		if grid.InObject(x, y) {
			return lastX, lastY, true
		}
		lastX, lastY = x, y
	}
	return lastX, lastY, false
}

func filterByKind(sensors []Sensor, kind SensorKind) []Sensor {
	var out []Sensor
	for _, s := range sensors {
		if s.Kind() == kind {
			out = append(out, s)
		}
	}
	return out
}

// combinations returns every k-element combination of xs, in the order
// itertools.combinations would produce them — deterministic so placement
// ties are broken by a fixed iteration order (spec.md §4.4.1 step 5).
func combinations(xs []int, k int) [][]int {
	n := len(xs)
	if k <= 0 || k > n {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out [][]int
	for {
		combo := make([]int, k)
		for i, v := range idx {
			combo[i] = xs[v]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
