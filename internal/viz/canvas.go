package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille plot surface with a per-cell color channel. The
// drawable area in sub-pixels is (Width*2) x (Height*4); each terminal
// cell carries the color of the last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // empty braille char
		}
	}
	return c
}

// Set marks a sub-pixel dot in the given color.
func (c *Canvas) Set(x, y int, col lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}
	cell, row := x/2, y/4
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cell] = col
}

// Clear resets every cell to the empty braille rune.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Colors[i][j] = ""
		}
	}
}

// Circle draws a circle outline via the midpoint algorithm.
func (c *Canvas) Circle(cx, cy, r int, col lipgloss.Color) {
	if r <= 0 {
		c.Set(cx, cy, col)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Set(cx+x, cy+y, col)
		c.Set(cx-x, cy+y, col)
		c.Set(cx+x, cy-y, col)
		c.Set(cx-x, cy-y, col)
		c.Set(cx+y, cy+x, col)
		c.Set(cx-y, cy+x, col)
		c.Set(cx+y, cy-x, col)
		c.Set(cx-y, cy-x, col)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// Disc draws a filled circle.
func (c *Canvas) Disc(cx, cy, r int, col lipgloss.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run []rune
		var runColor lipgloss.Color
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(string(run)))
			}
			run = run[:0]
		}
		for j, r := range row {
			if c.Colors[i][j] != runColor {
				flush()
				runColor = c.Colors[i][j]
			}
			run = append(run, r)
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}
