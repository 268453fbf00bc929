// Package render draws 3D meshes into an offscreen framebuffer, from
// where the result reaches either a terminal as half-block cells or an
// image export.
package render

import "image"

// Framebuffer holds row-major RGBA pixels. For terminal output the
// height is twice the cell rows, each character cell carries two
// pixels stacked with a half-block glyph.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFramebuffer allocates a framebuffer of the given pixel size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel writes c at (x, y). Writes outside the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel reads the pixel at (x, y), or zero outside the buffer.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine rasterizes a line with the integer Bresenham walk.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		step := 2 * err
		if step >= dy {
			err += dy
			x0 += sx
		}
		if step <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the pixels into a standard library image for
// encoding or resampling.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		img.SetRGBA(i%fb.Width, i/fb.Width, c)
	}
	return img
}
