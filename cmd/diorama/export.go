package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/taigrr/diorama/pkg/render"
)

// savePNGScaled writes the framebuffer as a PNG resampled to scale
// times its size with Catmull-Rom. Terminal framebuffers are tiny, so
// screenshots upscale; offline supersampled frames downscale.
func savePNGScaled(fb *render.Framebuffer, path string, scale float64) error {
	src := fb.ToImage()
	if scale == 1 {
		return writePNG(path, src)
	}
	w := max(int(float64(fb.Width)*scale+0.5), 1)
	h := max(int(float64(fb.Height)*scale+0.5), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return writePNG(path, dst)
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
