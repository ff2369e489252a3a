package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/minicube"
)

const blockRune = '█'

// ColorCode returns the 256-colour terminal code for a cubelet colour.
func ColorCode(c minicube.Color) lipgloss.Color {
	switch c {
	case minicube.Red:
		return lipgloss.Color("196")
	case minicube.Green:
		return lipgloss.Color("46")
	case minicube.Blue:
		return lipgloss.Color("21")
	case minicube.Yellow:
		return lipgloss.Color("226")
	default:
		return lipgloss.Color("255")
	}
}

type cell struct {
	r     rune
	color minicube.Color
	set   bool
	label bool
}

// Canvas is a fixed grid of terminal cells.
type Canvas struct {
	width  int
	height int
	cells  []cell
}

// NewCanvas creates an empty canvas.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{width: width, height: height, cells: make([]cell, width*height)}
}

func (c *Canvas) put(col, row int, v cell) {
	if col < 0 || row < 0 || col >= c.width || row >= c.height {
		return
	}
	c.cells[row*c.width+col] = v
}

// Draw paints sprites in order, so later sprites cover earlier ones.
// Frame returns them far to near.
func (c *Canvas) Draw(sprites []Sprite) {
	for _, s := range sprites {
		for row := s.Row - s.HalfH; row <= s.Row+s.HalfH; row++ {
			for col := s.Col - s.HalfW; col <= s.Col+s.HalfW; col++ {
				c.put(col, row, cell{r: blockRune, color: s.Color, set: true})
			}
		}
		if s.HalfW >= len(s.Tag) {
			start := s.Col - len(s.Tag)/2
			for i, r := range s.Tag {
				c.put(start+i, s.Row, cell{r: r, color: s.Color, set: true, label: true})
			}
		}
	}
}

// Occupied reports whether a cell has been painted.
func (c *Canvas) Occupied(col, row int) bool {
	if col < 0 || row < 0 || col >= c.width || row >= c.height {
		return false
	}
	return c.cells[row*c.width+col].set
}

// At returns the colour painted at a cell.
func (c *Canvas) At(col, row int) (minicube.Color, bool) {
	if !c.Occupied(col, row) {
		return 0, false
	}
	v := c.cells[row*c.width+col]
	return v.color, true
}

func styleFor(v cell) lipgloss.Style {
	if v.label {
		return lipgloss.NewStyle().Background(ColorCode(v.color)).Foreground(lipgloss.Color("0")).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(ColorCode(v.color))
}

// String renders the canvas, styling runs of equal cells together.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		line := c.cells[row*c.width : (row+1)*c.width]
		for i := 0; i < len(line); {
			j := i
			var run strings.Builder
			for j < len(line) && line[j].set == line[i].set && line[j].color == line[i].color && line[j].label == line[i].label {
				if line[j].set {
					run.WriteRune(line[j].r)
				} else {
					run.WriteByte(' ')
				}
				j++
			}
			if line[i].set {
				b.WriteString(styleFor(line[i]).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			i = j
		}
		if row < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// View projects a cube and renders it into a width x height string.
func View(cubelets [minicube.SlotCount]minicube.Cubelet, cam Camera, width, height int) string {
	canvas := NewCanvas(width, height)
	canvas.Draw(Frame(cubelets, cam, width, height))
	return canvas.String()
}
