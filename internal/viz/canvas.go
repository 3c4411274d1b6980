package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y) in sub-pixel coordinates. The canvas is
// Width*2 by Height*4 dots; out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	row, col, mask, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= mask
}

func (c *Canvas) Unset(x, y int) {
	row, col, mask, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= mask
	if c.Grid[row][col] < brailleBlank {
		c.Grid[row][col] = brailleBlank
	}
}

func (c *Canvas) locate(x, y int) (row, col int, mask rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Frame maps world coordinates onto a canvas, y up.
type Frame struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// FrameOf returns the bounding box of xs and ys. Degenerate spans are
// widened to 1 so every point maps somewhere.
func FrameOf(xs, ys []float64) Frame {
	f := Frame{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for i := range xs {
		f.MinX = math.Min(f.MinX, xs[i])
		f.MaxX = math.Max(f.MaxX, xs[i])
		f.MinY = math.Min(f.MinY, ys[i])
		f.MaxY = math.Max(f.MaxY, ys[i])
	}
	if len(xs) == 0 {
		return Frame{MaxX: 1, MaxY: 1}
	}
	if f.MaxX-f.MinX <= 0 {
		f.MaxX = f.MinX + 1
	}
	if f.MaxY-f.MinY <= 0 {
		f.MaxY = f.MinY + 1
	}
	return f
}

func (f Frame) project(c *Canvas, x, y float64) (int, int) {
	w := float64(c.Width*2 - 1)
	h := float64(c.Height*4 - 1)
	px := (x - f.MinX) / (f.MaxX - f.MinX) * w
	py := h - (y-f.MinY)/(f.MaxY-f.MinY)*h
	return int(math.Round(px)), int(math.Round(py))
}

// Polyline draws xs[i], ys[i] for i < n joined by straight segments.
func (c *Canvas) Polyline(f Frame, xs, ys []float64, n int) {
	if n > len(xs) {
		n = len(xs)
	}
	if n == 0 {
		return
	}
	px, py := f.project(c, xs[0], ys[0])
	c.Set(px, py)
	for i := 1; i < n; i++ {
		x, y := f.project(c, xs[i], ys[i])
		if x == px && y == py {
			continue
		}
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

// Marker draws a small cross centred on (x, y).
func (c *Canvas) Marker(f Frame, x, y float64) {
	px, py := f.project(c, x, y)
	for d := -1; d <= 1; d++ {
		c.Set(px+d, py)
		c.Set(px, py+d)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
