package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/shader"
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

const blank = 0x2800

// Canvas keeps, per cell, the brightest color drawn into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]mgl32.Vec3
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]mgl32.Vec3, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]mgl32.Vec3, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y); the canvas is (Width*2) x (Height*4)
// sub-pixels with y growing downward.
func (c *Canvas) Set(x, y int, col mgl32.Vec3) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	if luminance(col) > luminance(c.Colors[row][cx]) {
		c.Colors[row][cx] = col
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = mgl32.Vec3{}
		}
	}
}

// Draw plots every particle of frame. Frame y points up.
func (c *Canvas) Draw(frame *shader.Frame) {
	w, h := float32(c.Width*2-1), float32(c.Height*4-1)
	for i, p := range frame.Positions {
		x := int(p[0]*w + 0.5)
		y := int((1-p[1])*h + 0.5)
		c.Set(x, y, frame.Colors[i])
	}
}

// Lit counts cells with at least one dot.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with each run of equally colored cells styled.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && shader.Hex(c.Colors[i][j]) == shader.Hex(c.Colors[i][start]) {
				continue
			}
			run := string(row[start:j])
			if c.Colors[i][start] == (mgl32.Vec3{}) {
				b.WriteString(run)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(shader.Hex(c.Colors[i][start]))).Render(run))
			}
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

func luminance(c mgl32.Vec3) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}
