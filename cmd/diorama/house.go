// House viewer scene.
//
// Controls:
//
//	Mouse drag  - Orbit camera
//	Scroll      - Zoom in/out
//	Space       - Pause/resume auto-rotation
//	+/-         - Adjust rotation speed
//	W           - Toggle wireframe
//	R           - Reset camera and rotation
//	?           - Toggle HUD overlay
//	Esc         - Quit

package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/diorama/pkg/config"
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

const defaultHouseModel = "assets/models/obj/cottage_obj.obj"

func newHouseCmd() *cobra.Command {
	var texturePath string
	cmd := &cobra.Command{
		Use:   "house [model.obj|model.glb]",
		Short: "Orbit a cottage model, procedural fallback included",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := defaultHouseModel
			if len(args) > 0 {
				path = args[0]
			}
			return runHouse(cfg, path, texturePath)
		},
	}
	cmd.Flags().StringVar(&texturePath, "texture", "", "image to drape over the model, replacing any embedded texture")
	return cmd
}

// loadMeshFile loads an OBJ or GLB model by extension. GLB models may
// carry a base color texture; OBJ models never do.
func loadMeshFile(path string) (*models.Mesh, *render.Texture, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		mesh, img, err := models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, nil, err
		}
		var tex *render.Texture
		if img != nil {
			tex = render.TextureFromImage(img)
		}
		return mesh, tex, nil
	case ".obj":
		mesh, err := models.LoadOBJ(path)
		return mesh, nil, err
	default:
		return nil, nil, fmt.Errorf("unsupported format %q (use .obj or .glb)", ext)
	}
}

// normalizeToGround centers a mesh on the XZ origin, rests it on y=0,
// and scales it uniformly so its largest dimension is targetSize.
func normalizeToGround(mesh *models.Mesh, targetSize float64) {
	mesh.CalculateBounds()
	center := mesh.Center()
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim <= 0 {
		return
	}
	scale := targetSize / maxDim
	lo, _ := mesh.GetBounds()
	mesh.Transform(math3d.ScaleUniform(scale).
		Mul(math3d.Translate(math3d.V3(-center.X, -lo.Y, -center.Z))))
	mesh.CalculateBounds()
}

func runHouse(cfg config.Config, modelPath, texturePath string) error {
	// The scene survives a missing model: the procedural cottage steps
	// in and the HUD reports why.
	mesh, tex, err := loadMeshFile(modelPath)
	source := filepath.Base(modelPath)
	fallbackNote := ""
	if err != nil {
		mesh = models.GenerateHouse(4, 3, 4, 2)
		tex = nil
		source = "procedural cottage"
		fallbackNote = fmt.Sprintf("load failed: %v", err)
	} else {
		normalizeToGround(mesh, 6)
	}

	// An explicit texture wins over whatever the model embeds. A bad
	// path is a startup error, not a HUD note.
	if texturePath != "" {
		t, err := render.LoadTexture(texturePath)
		if err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
		tex = t
	}

	s, err := openSession(cfg.Camera.FOVRadians())
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := notifyContext()
	defer cancel()

	orbit := render.NewOrbitCamera()
	orbit.Target = math3d.V3(0, 1, 0)
	orbit.Yaw = math.Pi / 4
	orbit.MinDistance = cfg.Camera.MinDistance
	orbit.MaxDistance = cfg.Camera.MaxDistance

	const defaultRotationSpeed = math.Pi / 6 // 30 degrees per second
	angle := 0.0
	rotationSpeed := defaultRotationSpeed
	rotating := true
	wireframe := false
	showHUD := true

	lightDir := math3d.V3(5, 10, 5).Normalize()

	bg := sceneBackground(cfg, render.RGB(135, 207, 250))

	ground := models.GeneratePlane(24, 24)
	groundTransform := math3d.Translate(math3d.V3(0, -0.01, 0))

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
					rotating = !rotating
				case ev.MatchString("+", "="):
					rotationSpeed = math.Min(rotationSpeed+math.Pi/36, math.Pi)
				case ev.MatchString("-", "_"):
					rotationSpeed = math.Max(rotationSpeed-math.Pi/36, 0)
				case ev.MatchString("w"):
					wireframe = !wireframe
				case ev.MatchString("r"):
					angle = 0
					rotationSpeed = defaultRotationSpeed
					orbit.Target = math3d.V3(0, 1, 0)
					orbit.Yaw = math.Pi / 4
					orbit.Pitch = 0.3
					orbit.Distance = 10
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
					orbit.Rotate(float64(dx)*0.01, float64(dy)*0.01)
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

		if rotating {
			angle += rotationSpeed * dt
			if angle > 2*math.Pi {
				angle -= 2 * math.Pi
			}
		}

		orbit.Apply(s.camera)
		s.rasterizer.InvalidateFrustum()

		s.fb.Clear(bg)
		s.rasterizer.ClearDepth()

		transform := math3d.RotateY(angle)
		switch {
		case wireframe:
			s.rasterizer.DrawMeshWireframe(ground, groundTransform, render.RGB(40, 90, 40))
			s.rasterizer.DrawMeshWireframe(mesh, transform, render.RGB(0, 255, 128))
		case tex != nil:
			s.rasterizer.DrawMeshGouraud(ground, groundTransform, render.RGB(96, 160, 96), lightDir)
			s.rasterizer.DrawMeshTexturedGouraud(mesh, transform, tex, lightDir)
		default:
			s.rasterizer.DrawMeshGouraud(ground, groundTransform, render.RGB(96, 160, 96), lightDir)
			s.rasterizer.DrawMeshMaterialGouraud(mesh, transform, render.RGB(204, 153, 102), lightDir)
		}

		if err := s.present(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		fps.Tick()
		if showHUD {
			top := hudTitleStyle.Render(" HOUSE ") +
				hudLabelStyle.Render(" model ") + hudValueStyle.Render(source) +
				hudLabelStyle.Render(fmt.Sprintf("  %d polys  %.0f fps", mesh.TriangleCount(), fps.FPS()))
			hudLine(1, 1, top)

			hint := hudLabelStyle.Render("drag orbit  scroll zoom  space rotate  +/- speed  w wire  r reset  esc quit")
			if fallbackNote != "" {
				hint = hudWarnStyle.Render(fallbackNote) + "  " + hint
			}
			hudLine(s.height, 1, hint)
		} else {
			hudClear(1)
			hudClear(s.height)
		}

		clock.sleep(start)
	}
}
