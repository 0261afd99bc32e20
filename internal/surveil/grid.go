package surveil

// OccupancyGrid is the binary raster loaded from the map image: true = free
// (traversable), false = solid. Adapted from Garsondee-Soldier-Sense's
// NavGrid, generalized from a fixed cellSize to a configurable pixel_to_cm
// so a single grid cell is one raster pixel rather than a fixed tile size.
type OccupancyGrid struct {
	cols, rows int
	free       []bool
	pixelToCM  float64
}

// NewOccupancyGrid builds a grid from a row-major free/solid bitmap.
// free[y*cols+x] must hold for every (x,y).
func NewOccupancyGrid(cols, rows int, free []bool, pixelToCM float64) *OccupancyGrid {
	if len(free) != cols*rows {
		panic("surveil: occupancy bitmap length does not match cols*rows")
	}
	return &OccupancyGrid{cols: cols, rows: rows, free: free, pixelToCM: pixelToCM}
}

// Cols and Rows report the grid dimensions in cells.
func (g *OccupancyGrid) Cols() int { return g.cols }
func (g *OccupancyGrid) Rows() int { return g.rows }

// PixelToCM reports the scalar used to convert grid cells to centimetres.
func (g *OccupancyGrid) PixelToCM() float64 { return g.pixelToCM }

// InBounds reports whether (cx, cy) addresses a cell in the grid.
func (g *OccupancyGrid) InBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows
}

// IsFree reports whether the cell at (cx, cy) is traversable. Out-of-bounds
// cells are never free.
func (g *OccupancyGrid) IsFree(cx, cy int) bool {
	if !g.InBounds(cx, cy) {
		return false
	}
	return g.free[cy*g.cols+cx]
}

// index returns the dense row-major index of a cell, matching spec.md's
// y*W + x addressing scheme.
func (g *OccupancyGrid) index(cx, cy int) int { return cy*g.cols + cx }

// WorldToCell converts a centimetre world coordinate to a grid cell.
func (g *OccupancyGrid) WorldToCell(x, y float64) (int, int) {
	return int(x / g.pixelToCM), int(y / g.pixelToCM)
}

// CellToWorldCenter converts a grid cell to the centimetre coordinate of
// its centre.
func (g *OccupancyGrid) CellToWorldCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * g.pixelToCM, (float64(cy) + 0.5) * g.pixelToCM
}

// InEnvironment reports whether the world point (x, y) falls within the
// grid bounds (geometry kernel primitive, spec.md §4.3).
func (g *OccupancyGrid) InEnvironment(x, y float64) bool {
	cx, cy := g.WorldToCell(x, y)
	return g.InBounds(cx, cy)
}

// InObject reports whether the world point (x, y) falls on a solid cell
// (geometry kernel primitive, spec.md §4.3).
func (g *OccupancyGrid) InObject(x, y float64) bool {
	cx, cy := g.WorldToCell(x, y)
	return !g.IsFree(cx, cy)
}

// FreeCellCount returns the number of traversable cells, used to detect a
// fully-occupied map at load time.
func (g *OccupancyGrid) FreeCellCount() int {
	n := 0
	for _, f := range g.free {
		if f {
			n++
		}
	}
	return n
}
