package viz

import "strings"

// Braille patterns pack a 2x4 dot grid per character:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800, so a Cols x Rows character block yields a
// (2*Cols) x (4*Rows) pixel surface.
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome pixel surface rendered as Braille characters.
// Pixel (0, 0) is the top-left corner.
type Canvas struct {
	cols, rows int
	cells      []rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

func (c *Canvas) Cols() int { return c.cols }
func (c *Canvas) Rows() int { return c.rows }

// PixelWidth is the surface width in pixels, two per character column.
func (c *Canvas) PixelWidth() int { return c.cols * 2 }

// PixelHeight is the surface height in pixels, four per character row.
func (c *Canvas) PixelHeight() int { return c.rows * 4 }

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBase
	}
}

// Set turns on the pixel at (x, y). Out-of-range pixels are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] |= dotBits[y%4][x%2]
}

// On reports whether the pixel at (x, y) is set.
func (c *Canvas) On(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return false
	}
	return c.cells[row*c.cols+col]&dotBits[y%4][x%2] != 0
}

// Line draws a pixel line from (x0, y0) to (x1, y1) with Bresenham's
// algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols*3 + 1))
	for row := 0; row < c.rows; row++ {
		b.WriteString(string(c.cells[row*c.cols : (row+1)*c.cols]))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
