// Desktop window backend for the spin scene. The software rasterizer
// still does all the drawing; the window just blits the framebuffer.
//
// Controls:
//
//	Space       - Random impulse
//	+/-         - Adjust auto-rotation speed
//	X           - Toggle wireframe
//	T           - Toggle checker texture
//	R           - Reset rotation
//	Esc         - Quit

package main

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/diorama/pkg/config"
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

const (
	spinWindowW = 640
	spinWindowH = 480
)

// spinWindow adapts the spin scene to the ebiten game loop.
type spinWindow struct {
	fb         *render.Framebuffer
	camera     *render.Camera
	rasterizer *render.Rasterizer

	mesh       *models.Mesh
	spin       *spinState
	color      render.Color
	bg         render.Color
	checker    *render.Texture
	autoAngle  float64
	autoSpeed  float64
	lightAngle float64
	wireframe  bool
	textured   bool

	last time.Time
	pix  []byte
}

func newSpinWindow(cfg config.Config) *spinWindow {
	fb := render.NewFramebuffer(spinWindowW, spinWindowH)
	camera := render.NewCamera()
	camera.SetAspectRatio(float64(spinWindowW) / float64(spinWindowH))
	camera.SetFOV(cfg.Camera.FOVRadians())
	camera.SetClipPlanes(0.1, 100)
	camera.SetPosition(math3d.V3(0, 2, 5))
	camera.LookAt(math3d.Zero3())

	return &spinWindow{
		fb:         fb,
		camera:     camera,
		rasterizer: render.NewRasterizer(camera, fb),
		mesh:       models.GenerateSphere(1, 36, 18),
		spin:       newSpinState(cfg.Display.FPS),
		color:      render.RGB(77, 153, 230),
		bg:         sceneBackground(cfg, render.RGB(24, 24, 36)),
		checker:    spinCheckerTexture(),
		autoSpeed:  spinAutoSpeed,
		last:       time.Now(),
		pix:        make([]byte, spinWindowW*spinWindowH*4),
	}
}

func (g *spinWindow) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spin.RandomImpulse()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.wireframe = !g.wireframe
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.textured = !g.textured
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.spin.Reset()
		g.autoAngle = 0
		g.autoSpeed = spinAutoSpeed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.autoSpeed = math.Min(g.autoSpeed+math.Pi/36, math.Pi)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.autoSpeed = math.Max(g.autoSpeed-math.Pi/36, 0)
	}

	now := time.Now()
	dt := now.Sub(g.last).Seconds()
	g.last = now
	if dt > 0.1 {
		dt = 0.1
	}

	g.autoAngle += g.autoSpeed * dt
	if g.autoAngle > 2*math.Pi {
		g.autoAngle -= 2 * math.Pi
	}
	g.lightAngle += spinLightSpeed * dt
	g.spin.Update()
	return nil
}

func (g *spinWindow) Draw(screen *ebiten.Image) {
	g.fb.Clear(g.bg)
	g.rasterizer.ClearDepth()

	// The window framebuffer dwarfs a terminal's, so both shaded paths
	// go through the incremental rasterizer.
	transform := g.spin.Transform(g.autoAngle)
	switch {
	case g.wireframe:
		g.rasterizer.DrawMeshWireframe(g.mesh, transform, render.RGB(0, 255, 128))
	case g.textured:
		g.rasterizer.DrawMeshTexturedOpt(g.mesh, transform, g.checker, spinLightDir(g.lightAngle))
	default:
		g.rasterizer.DrawMeshGouraudOpt(g.mesh, transform, g.color, spinLightDir(g.lightAngle))
	}

	for i, c := range g.fb.Pixels {
		g.pix[i*4+0] = c.R
		g.pix[i*4+1] = c.G
		g.pix[i*4+2] = c.B
		g.pix[i*4+3] = c.A
	}
	screen.WritePixels(g.pix)
}

func (g *spinWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	return spinWindowW, spinWindowH
}

func runSpinWindow(cfg config.Config) error {
	ebiten.SetWindowSize(spinWindowW*2, spinWindowH*2)
	ebiten.SetWindowTitle("diorama - spin")
	return ebiten.RunGame(newSpinWindow(cfg))
}
