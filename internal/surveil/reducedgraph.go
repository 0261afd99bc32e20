package surveil

import (
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/algorithms"
	"github.com/katalvlaran/lvlath/core"
)

// ReducedNodeType tags a surviving node of the reduced graph M as one of
// the three semantic kinds spec.md §3 describes. The zero value means
// "not yet classified" — only ever observed mid-reduction.
type ReducedNodeType uint8

const (
	reducedUnclassified ReducedNodeType = iota
	ReducedRoom
	ReducedHallway
	ReducedJunction
)

func (t ReducedNodeType) String() string {
	switch t {
	case ReducedRoom:
		return "room"
	case ReducedHallway:
		return "hallway"
	case ReducedJunction:
		return "junction"
	default:
		return "unclassified"
	}
}

// RoomCell is one CellGraph member of a collapsed room cluster. Its
// position and raw type are captured at collapse time because the member's
// own node is deleted from the arena once the cluster merges.
type RoomCell struct {
	Index    int // original CellGraph arena index
	Col, Row int
	RawType  CellType
}

// ReducedNode is one node of the reduced graph M. Room/hallway clusters
// collapse many CellGraph nodes into one; junctions and dead-ends survive
// as single nodes. Position is in grid-cell units (not centimetres).
type ReducedNode struct {
	Index      int
	X, Y       float64
	Neighbours []int
	Type       ReducedNodeType
	Area       int
	IsDeadEnd  bool
	RoomNodes  []RoomCell // cluster members (room nodes only)
	Corners    []RoomCell // subset of RoomNodes whose RawType is a corner_* variant

	rawType CellType // CellGraph raw type, retained only to drive pass-2 tagging
}

// ReducedGraph is the semantic room/hallway/junction graph M, built by
// Reduce. Like CellGraph, nodes are addressed by arena index
// rather than pointer so deletion during reduction and placement is a
// slice fix-up (spec.md §9).
type ReducedGraph struct {
	nodes     map[int]*ReducedNode
	pixelToCM float64
}

// PixelToCM reports the scalar used to convert this graph's cell
// coordinates to centimetres, inherited from the occupancy grid it was
// reduced from.
func (m *ReducedGraph) PixelToCM() float64 { return m.pixelToCM }

// Node returns the node at idx, or nil if it has been removed or never
// existed.
func (m *ReducedGraph) Node(idx int) *ReducedNode { return m.nodes[idx] }

// Len returns the number of live nodes.
func (m *ReducedGraph) Len() int { return len(m.nodes) }

// Indices returns all live node indices in ascending order, for
// deterministic iteration.
func (m *ReducedGraph) Indices() []int {
	idx := make([]int, 0, len(m.nodes))
	for i := range m.nodes {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Clone deep-copies the graph so a stage can try removals speculatively
// without mutating the working graph (used throughout Line Sensor
// Placement's combinatorial search).
func (m *ReducedGraph) Clone() *ReducedGraph {
	out := &ReducedGraph{nodes: make(map[int]*ReducedNode, len(m.nodes)), pixelToCM: m.pixelToCM}
	for idx, n := range m.nodes {
		cp := *n
		cp.Neighbours = append([]int(nil), n.Neighbours...)
		cp.RoomNodes = append([]RoomCell(nil), n.RoomNodes...)
		cp.Corners = append([]RoomCell(nil), n.Corners...)
		out.nodes[idx] = &cp
	}
	return out
}

// RemoveNode deletes node idx and removes it from every neighbour's
// neighbour list. Total and idempotent: removing an already-absent index
// is a no-op (spec.md §4.2 "Deletion semantics").
func (m *ReducedGraph) RemoveNode(idx int) {
	n, ok := m.nodes[idx]
	if !ok {
		return
	}
	for _, nbr := range n.Neighbours {
		if other, ok := m.nodes[nbr]; ok {
			other.Neighbours = removeInt(other.Neighbours, idx)
		}
	}
	delete(m.nodes, idx)
}

// RemoveIsolatedNodes repeatedly deletes any node left with no neighbours,
// since an isolated singleton would otherwise inflate the cycle count
// (spec.md §4.4.1 step 3).
func (m *ReducedGraph) RemoveIsolatedNodes() {
	for {
		var isolated []int
		for idx, n := range m.nodes {
			if len(n.Neighbours) == 0 {
				isolated = append(isolated, idx)
			}
		}
		if len(isolated) == 0 {
			return
		}
		for _, idx := range isolated {
			delete(m.nodes, idx)
		}
	}
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// IsHallwayNode reports whether n is a collapsed hallway chain (spec.md
// §4.2 helper predicate is_hallway_node).
func IsHallwayNode(n *ReducedNode) bool {
	return n != nil && n.Type == ReducedHallway
}

// HallwayNodes returns the indices of every hallway node in M, in
// ascending order.
func (m *ReducedGraph) HallwayNodes() []int {
	var out []int
	for _, idx := range m.Indices() {
		if IsHallwayNode(m.nodes[idx]) {
			out = append(out, idx)
		}
	}
	return out
}

// RoomNodesByAreaDesc returns the indices of every room node, sorted by
// Area descending (spec.md §4.4.2 step 1).
func (m *ReducedGraph) RoomNodesByAreaDesc() []int {
	var out []int
	for _, idx := range m.Indices() {
		if m.nodes[idx].Type == ReducedRoom {
			out = append(out, idx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return m.nodes[out[i]].Area > m.nodes[out[j]].Area
	})
	return out
}

// toLvlath projects M onto a katalvlaran/lvlath core.Graph: one vertex per
// live node, one undirected edge per unordered neighbour pair. Used by
// NumberOfCycles and SubGraphSizes instead of hand-rolling a second
// union-find/BFS implementation.
func (m *ReducedGraph) toLvlath() *core.Graph {
	g := core.NewGraph()
	for _, idx := range m.Indices() {
		_ = g.AddVertex(strconv.Itoa(idx))
	}
	for _, idx := range m.Indices() {
		for _, nbr := range m.nodes[idx].Neighbours {
			if nbr <= idx {
				continue // dedupe: add each undirected pair once
			}
			if _, ok := m.nodes[nbr]; !ok {
				continue
			}
			_, _ = g.AddEdge(strconv.Itoa(idx), strconv.Itoa(nbr), 0)
		}
	}
	return g
}

// components returns, for each connected component of M, the vertex-ID
// strings it contains, in the order BFS visits them. Built by repeated BFS, matching the
// teacher's seedable/deterministic traversal style.
func components(g *core.Graph) [][]string {
	visited := make(map[string]bool)
	var comps [][]string
	for _, id := range g.Vertices() {
		if visited[id] {
			continue
		}
		res, err := algorithms.BFS(g, id, nil)
		if err != nil {
			// A start vertex always exists here; treat failure as a
			// singleton component rather than losing the node.
			comps = append(comps, []string{id})
			visited[id] = true
			continue
		}
		var comp []string
		for _, v := range res.Order {
			comp = append(comp, v.ID)
			visited[v.ID] = true
		}
		comps = append(comps, comp)
	}
	return comps
}

// NumberOfCycles computes |E| - |V| + components(G), the component-aware
// cycle count spec.md §4.2 requires for graphs that may be disconnected
// after sensor removal.
func NumberOfCycles(m *ReducedGraph) int {
	if m.Len() == 0 {
		return 0
	}
	g := m.toLvlath()
	return g.EdgeCount() - g.VertexCount() + len(components(g))
}

// SubGraphSizes returns the size of each connected component of M.
func SubGraphSizes(m *ReducedGraph) []int {
	if m.Len() == 0 {
		return nil
	}
	g := m.toLvlath()
	var sizes []int
	for _, comp := range components(g) {
		sizes = append(sizes, len(comp))
	}
	return sizes
}
