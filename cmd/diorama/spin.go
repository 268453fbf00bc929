// Spin scene: a UV-sphere turning around a tilted axis under an
// orbiting light.
//
// Controls:
//
//	Mouse drag  - Spin the sphere (spring-damped)
//	Scroll      - Zoom in/out
//	Space       - Random impulse
//	+/-         - Adjust auto-rotation speed
//	X           - Toggle wireframe
//	T           - Toggle checker texture
//	R           - Reset rotation
//	?           - Toggle HUD overlay
//	Esc         - Quit

package main

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/diorama/pkg/config"
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

const (
	spinAutoSpeed  = math.Pi / 4 // 45 degrees per second
	spinLightSpeed = 0.5
)

// spinTilt is the fixed rotation axis, leaning the sphere's turn
// toward the viewer.
var spinTilt = math3d.V3(0, 1, 0.5).Normalize()

func newSpinCmd() *cobra.Command {
	var (
		backend string
		frames  int
		outDir  string
		size    int
	)
	cmd := &cobra.Command{
		Use:   "spin",
		Short: "Rotating sphere with spring-damped impulses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if frames > 0 {
				return runSpinFrames(cfg, frames, outDir, size)
			}
			switch backend {
			case "terminal":
				return runSpinTerminal(cfg)
			case "window":
				return runSpinWindow(cfg)
			default:
				return fmt.Errorf("unknown backend %q (use terminal or window)", backend)
			}
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "terminal", "presentation backend: terminal or window")
	cmd.Flags().IntVar(&frames, "frames", 0, "render this many frames to PNG instead of presenting")
	cmd.Flags().StringVar(&outDir, "out", "frames", "output directory for --frames")
	cmd.Flags().IntVar(&size, "size", 512, "output frame size in pixels for --frames")
	return cmd
}

// spinAxis tracks position and velocity for one rotation axis, with a
// spring pulling the velocity back to zero.
type spinAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newSpinAxis(fps int) spinAxis {
	// Frequency 4.0, damping 1.0: critically damped, no overshoot.
	return spinAxis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *spinAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// spinState carries the impulse rotation shared by both backends.
type spinState struct {
	Pitch, Yaw spinAxis
	fps        int
}

func newSpinState(fps int) *spinState {
	if fps <= 0 {
		fps = 60
	}
	return &spinState{
		Pitch: newSpinAxis(fps),
		Yaw:   newSpinAxis(fps),
		fps:   fps,
	}
}

func (s *spinState) Update() {
	s.Pitch.Update()
	s.Yaw.Update()
}

func (s *spinState) ApplyImpulse(pitch, yaw float64) {
	s.Pitch.Velocity += pitch
	s.Yaw.Velocity += yaw
}

func (s *spinState) RandomImpulse() {
	s.ApplyImpulse((rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5)
}

func (s *spinState) Reset() {
	s.Pitch = newSpinAxis(s.fps)
	s.Yaw = newSpinAxis(s.fps)
}

// Transform combines the auto-rotation angle with the impulse springs.
func (s *spinState) Transform(autoAngle float64) math3d.Mat4 {
	return math3d.Rotate(spinTilt, autoAngle).
		Mul(math3d.RotateX(s.Pitch.Position)).
		Mul(math3d.RotateY(s.Yaw.Position))
}

// spinLightDir places the orbiting light for a given phase angle.
func spinLightDir(angle float64) math3d.Vec3 {
	return math3d.V3(math.Cos(angle), 0.8, math.Sin(angle)).Normalize()
}

// spinCheckerTexture builds the checker for the textured draw mode.
// 32x16 matches the sphere's 2:1 UV layout, so the cells keep equal
// angular size in both directions.
func spinCheckerTexture() *render.Texture {
	return render.NewCheckerTexture(32, 16, 2, render.RGB(77, 153, 230), render.RGB(235, 240, 245))
}

func runSpinTerminal(cfg config.Config) error {
	s, err := openSession(cfg.Camera.FOVRadians())
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := notifyContext()
	defer cancel()

	mesh := models.GenerateSphere(1, 36, 18)
	sphereColor := render.RGB(77, 153, 230)
	checker := spinCheckerTexture()

	orbit := render.NewOrbitCamera()
	orbit.Distance = 5
	orbit.Pitch = 0.4
	orbit.MinDistance = cfg.Camera.MinDistance
	orbit.MaxDistance = cfg.Camera.MaxDistance

	spin := newSpinState(cfg.Display.FPS)
	autoAngle := 0.0
	autoSpeed := spinAutoSpeed
	lightAngle := 0.0
	wireframe := false
	textured := false
	showHUD := true
	bg := sceneBackground(cfg, render.RGB(24, 24, 36))

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range s.term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				s.handleResize(ev.Width, ev.Height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"), ev.MatchString("q"):
					cancel()
					return
				case ev.MatchString("space"):
					spin.RandomImpulse()
				case ev.MatchString("+", "="):
					autoSpeed = math.Min(autoSpeed+math.Pi/36, math.Pi)
				case ev.MatchString("-", "_"):
					autoSpeed = math.Max(autoSpeed-math.Pi/36, 0)
				case ev.MatchString("x"):
					wireframe = !wireframe
				case ev.MatchString("t"):
					textured = !textured
				case ev.MatchString("r"):
					spin.Reset()
					autoAngle = 0
					autoSpeed = spinAutoSpeed
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					showHUD = !showHUD
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					spin.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					orbit.Zoom(1)
				case uv.MouseWheelDown:
					orbit.Zoom(-1)
				}
			}
		}
	}()

	clock := newFrameClock(cfg.Display.FPS)
	fps := newFPSCounter()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		dt := clock.tick()

		autoAngle += autoSpeed * dt
		if autoAngle > 2*math.Pi {
			autoAngle -= 2 * math.Pi
		}
		lightAngle += spinLightSpeed * dt
		spin.Update()

		orbit.Apply(s.camera)
		s.rasterizer.InvalidateFrustum()

		s.fb.Clear(bg)
		s.rasterizer.ClearDepth()

		transform := spin.Transform(autoAngle)
		switch {
		case wireframe:
			s.rasterizer.DrawMeshWireframe(mesh, transform, render.RGB(0, 255, 128))
		case textured:
			s.rasterizer.DrawMeshTexturedGouraud(mesh, transform, checker, spinLightDir(lightAngle))
		default:
			s.rasterizer.DrawMeshGouraud(mesh, transform, sphereColor, spinLightDir(lightAngle))
		}

		if err := s.present(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		fps.Tick()
		if showHUD {
			top := hudTitleStyle.Render(" SPIN ") +
				hudLabelStyle.Render(fmt.Sprintf(" %.0f fps  speed %.0f°/s", fps.FPS(), autoSpeed*180/math.Pi))
			hudLine(1, 1, top)
			hudLine(s.height, 1, hudLabelStyle.Render("drag spin  scroll zoom  space impulse  +/- speed  x wire  t texture  r reset  esc quit"))
		} else {
			hudClear(1)
			hudClear(s.height)
		}

		clock.sleep(start)
	}
}

// runSpinFrames renders the animation offline. Each frame is drawn
// supersampled, then Catmull-Rom downscaling writes the PNG.
func runSpinFrames(cfg config.Config, frames int, outDir string, size int) error {
	const super = 3
	if size <= 0 {
		size = 512
	}
	fps := cfg.Display.FPS
	if fps <= 0 {
		fps = 60
	}

	fb := render.NewFramebuffer(size*super, size*super)
	camera := render.NewCamera()
	camera.SetAspectRatio(1)
	camera.SetFOV(cfg.Camera.FOVRadians())
	camera.SetClipPlanes(0.1, 100)
	camera.SetPosition(math3d.V3(0, 2, 5))
	camera.LookAt(math3d.Zero3())
	rasterizer := render.NewRasterizer(camera, fb)

	mesh := models.GenerateSphere(1, 36, 18)
	sphereColor := render.RGB(77, 153, 230)
	bg := sceneBackground(cfg, render.RGB(24, 24, 36))

	for i := range frames {
		t := float64(i) / float64(fps)
		transform := math3d.Rotate(spinTilt, spinAutoSpeed*t)

		fb.Clear(bg)
		rasterizer.ClearDepth()
		// The supersampled buffer is big enough that the incremental
		// edge walk pays for itself.
		rasterizer.DrawMeshGouraudOpt(mesh, transform, sphereColor, spinLightDir(spinLightSpeed*t))

		path := filepath.Join(outDir, fmt.Sprintf("spin_%04d.png", i))
		if err := savePNGScaled(fb, path, 1.0/super); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	fmt.Printf("Wrote %d frames to %s\n", frames, outDir)
	return nil
}
