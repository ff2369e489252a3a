package render

import (
	"math"
	"sort"

	"github.com/SeamusWaldron/minicube"
)

// cellAspect is the height of a terminal cell over its width.
const cellAspect = 2.0

// Sprite is a cubelet projected to terminal cells.
type Sprite struct {
	Slot  int
	Tag   string
	Color minicube.Color
	Col   int // centre column
	Row   int // centre row
	HalfW int
	HalfH int
	Depth float64 // distance from the eye
}

// Frame projects each cubelet centre through the camera and returns the
// visible sprites ordered far to near.
func Frame(cubelets [minicube.SlotCount]minicube.Cubelet, cam Camera, width, height int) []Sprite {
	if width <= 0 || height <= 0 {
		return nil
	}

	aspect := float64(width) / (float64(height) * cellAspect)
	mvp := Projection(aspect).Mul4(cam.View())
	eye := cam.Eye()
	focal := (float64(height) / 2) / math.Tan(fovY/2)

	sprites := make([]Sprite, 0, len(cubelets))
	for slot := range cubelets {
		c := &cubelets[slot]
		center := c.Center()

		clip := mvp.Mul4x1(center.Vec4(1))
		if clip.W() <= near {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())

		depth := center.Sub(eye).Len()
		halfH := int(math.Round(0.5 * focal / depth))
		if halfH < 1 {
			halfH = 1
		}

		sprites = append(sprites, Sprite{
			Slot:  slot,
			Tag:   c.Tag,
			Color: c.Color,
			Col:   int(math.Round((ndc.X() + 1) / 2 * float64(width-1))),
			Row:   int(math.Round((1 - ndc.Y()) / 2 * float64(height-1))),
			HalfW: int(math.Round(float64(halfH) * cellAspect)),
			HalfH: halfH,
			Depth: depth,
		})
	}

	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].Depth > sprites[j].Depth
	})
	return sprites
}
