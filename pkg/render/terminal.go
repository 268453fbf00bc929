package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock is the upper-half-block glyph. With the top pixel as the
// cell foreground and the bottom pixel as the background, one terminal
// cell carries two framebuffer rows.
const halfBlock = "▀"

// Draw writes the framebuffer into a terminal screen as half-block
// cells, satisfying ultraviolet's Drawable. The framebuffer must be
// twice as tall as the drawn area is in cells.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, topY)),
					Bg: cellColor(fb.GetPixel(col, topY+1)),
				},
			})
		}
	}
}

// cellColor converts a pixel to a terminal cell color. Fully
// transparent pixels map to the terminal default.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalRenderer presents framebuffers on an ultraviolet terminal.
// Each terminal column is one pixel wide and each row holds two pixels,
// so the matching framebuffer is width x 2*height.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int // Terminal columns
	height int // Terminal rows
}

// NewTerminalRenderer wraps term at the given cell dimensions. Recreate
// it on resize.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// FramebufferSize returns the pixel dimensions a framebuffer must have
// to fill this terminal.
func (tr *TerminalRenderer) FramebufferSize() (width, height int) {
	return tr.width, tr.height * 2
}

// Render converts fb into half-block cells on the terminal buffer.
func (tr *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(tr.term, uv.Rect(0, 0, tr.width, tr.height))
}

// Flush pushes the prepared cells to the screen.
func (tr *TerminalRenderer) Flush() error {
	return tr.term.Display()
}
