package surveil

import "testing"

// gridFromRows builds an OccupancyGrid from a slice of equal-length strings,
// '.' free and '#' solid, for compact test fixtures.
func gridFromRows(rows []string) *OccupancyGrid {
	h := len(rows)
	w := len(rows[0])
	free := make([]bool, w*h)
	for y, row := range rows {
		for x, c := range row {
			free[y*w+x] = c == '.'
		}
	}
	return NewOccupancyGrid(w, h, free, 10)
}

func TestBuildCellGraph_RoomCenterIsRoom(t *testing.T) {
	grid := gridFromRows([]string{
		"#####",
		"#...#",
		"#...#",
		"#...#",
		"#####",
	})
	g := BuildCellGraph(grid)
	center := g.Node(grid.index(2, 2))
	if center == nil {
		t.Fatal("expected a node at the room centre")
	}
	if center.RawType != CellRoom {
		t.Fatalf("expected room, got %v", center.RawType)
	}
}

func TestBuildCellGraph_StraightHallwayIsHallway(t *testing.T) {
	grid := gridFromRows([]string{
		"#######",
		"#.....#",
		"#######",
	})
	g := BuildCellGraph(grid)
	mid := g.Node(grid.index(3, 1))
	if mid.RawType != CellHallway {
		t.Fatalf("expected hallway, got %v", mid.RawType)
	}
}

func TestBuildCellGraph_CorridorEndIsDeadEnd(t *testing.T) {
	grid := gridFromRows([]string{
		"#######",
		"#.....#",
		"#######",
	})
	g := BuildCellGraph(grid)
	end := g.Node(grid.index(1, 1))
	if end.RawType != CellDeadEnd {
		t.Fatalf("expected dead_end, got %v", end.RawType)
	}
}

func TestBuildCellGraph_CorridorTurnIsLJunction(t *testing.T) {
	grid := gridFromRows([]string{
		"####",
		"#..#",
		"##.#",
		"####",
	})
	g := BuildCellGraph(grid)
	turn := g.Node(grid.index(2, 1))
	if turn.RawType != CellLJunction {
		t.Fatalf("expected L_junction, got %v", turn.RawType)
	}
}

func TestBuildCellGraph_DiagonalBlockedByCornerCut(t *testing.T) {
	// (1,1) and (2,2) are both free but the orthogonal path between them
	// ((2,1) and (1,2)) is solid, so the diagonal must not be admitted.
	grid := gridFromRows([]string{
		"####",
		"#.##",
		"##.#",
		"####",
	})
	g := BuildCellGraph(grid)
	a := g.Node(grid.index(1, 1))
	bIdx := grid.index(2, 2)
	for _, nbr := range a.Neighbours {
		if nbr == bIdx {
			t.Fatal("diagonal neighbour should be blocked by the corner-cut rule")
		}
	}
}

func TestBuildCellGraph_DiagonalAdmittedWhenBothOrthogonalsFree(t *testing.T) {
	grid := gridFromRows([]string{
		"####",
		"#..#",
		"#..#",
		"####",
	})
	g := BuildCellGraph(grid)
	a := g.Node(grid.index(1, 1))
	bIdx := grid.index(2, 2)
	found := false
	for _, nbr := range a.Neighbours {
		if nbr == bIdx {
			found = true
		}
	}
	if !found {
		t.Fatal("diagonal neighbour should be admitted when both orthogonal cells are free")
	}
}
