package kernel

import "math"

type gridKey struct{ x, y int32 }

// shapePair is an ordered shape pair used to deduplicate broad-phase
// candidates across grid cells.
type shapePair struct{ a, b *Shape }

// orderShapes returns the pair in a stable order by kernel identity.
func orderShapes(a, b *Shape) (*Shape, *Shape) {
	if a.id > b.id {
		return b, a
	}
	return a, b
}

// spatialGrid is a sparse uniform grid over shape bounding boxes. Shapes
// are inserted into every cell their box spans; queries may therefore
// report a shape more than once and callers deduplicate.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]*Shape
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[gridKey][]*Shape),
	}
}

func (g *spatialGrid) reset(cellSize float64) {
	g.cellSize = cellSize
	clear(g.cells)
}

func (g *spatialGrid) span(bb BB) (x0, y0, x1, y1 int32) {
	x0 = int32(math.Floor(bb.L / g.cellSize))
	y0 = int32(math.Floor(bb.B / g.cellSize))
	x1 = int32(math.Floor(bb.R / g.cellSize))
	y1 = int32(math.Floor(bb.T / g.cellSize))
	return
}

func (g *spatialGrid) insert(s *Shape) {
	x0, y0, x1, y1 := g.span(s.bb)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			k := gridKey{x, y}
			g.cells[k] = append(g.cells[k], s)
		}
	}
}

// pairs calls fn for every distinct pair sharing a cell, deduplicated
// through seen, which the caller owns and may share across grids.
func (g *spatialGrid) pairs(seen map[shapePair]struct{}, fn func(a, b *Shape)) {
	for _, cell := range g.cells {
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				a, b := orderShapes(cell[i], cell[j])
				pair := shapePair{a, b}
				if _, dup := seen[pair]; dup {
					continue
				}
				seen[pair] = struct{}{}
				if a.bb.Intersects(b.bb) {
					fn(a, b)
				}
			}
		}
	}
}

// query calls fn for every shape whose cell span overlaps bb. A shape
// spanning several cells is reported once per cell.
func (g *spatialGrid) query(bb BB, fn func(*Shape)) {
	x0, y0, x1, y1 := g.span(bb)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for _, s := range g.cells[gridKey{x, y}] {
				fn(s)
			}
		}
	}
}

// autoCellSize picks a cell size near the average shape extent, so a
// typical shape spans a single-digit number of cells.
func autoCellSize(lists ...[]*Shape) float64 {
	var total float64
	var n int
	for _, shapes := range lists {
		for _, s := range shapes {
			total += (s.bb.Width() + s.bb.Height()) / 2
			n++
		}
	}
	if n == 0 {
		return 1
	}
	size := total / float64(n)
	if size < 1 {
		size = 1
	}
	return size
}
