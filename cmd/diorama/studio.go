// Studio scene: place, arrange and export primitive shapes.
//
// Controls:
//
//	1-6         - Add cube/sphere/cylinder/cone/plane/pyramid
//	Tab         - Cycle selection (Shift+Tab backward)
//	M           - Cycle edit mode: translate, rotate, scale
//	Arrows      - Nudge the selection in the active mode
//	U/J         - Vertical nudge (translate) or roll (rotate)
//	N           - Toggle grid snapping
//	D           - Duplicate the selection
//	Delete      - Remove the selection
//	G/A/B/X     - Toggle grid, axes, selection bounds, wireframe
//	F           - Frame the selection
//	C           - Reset the camera
//	P           - Save a screenshot PNG
//	Mouse       - Left drag orbits, right drag pans, wheel zooms
//	?           - Toggle HUD overlay
//	Esc         - Quit

package main

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/diorama/pkg/config"
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

func newStudioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "studio [model.obj|model.glb ...]",
		Short: "Scene editor for primitives and imported models",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runStudio(cfg, args)
		},
	}
}

type editMode int

const (
	modeTranslate editMode = iota
	modeRotate
	modeScale
)

func (m editMode) String() string {
	switch m {
	case modeTranslate:
		return "translate"
	case modeRotate:
		return "rotate"
	case modeScale:
		return "scale"
	default:
		return "unknown"
	}
}

// cameraPose is a goal for an eased camera move.
type cameraPose struct {
	target   math3d.Vec3
	yaw      float64
	pitch    float64
	distance float64
}

// cameraEase glides the orbit camera toward a goal pose with a critically
// damped spring. Manual camera input cancels the glide.
type cameraEase struct {
	spring harmonica.Spring
	goal   cameraPose
	active bool

	vel [6]float64 // target xyz, yaw, pitch, distance
}

func newCameraEase(fps int) *cameraEase {
	if fps <= 0 {
		fps = 60
	}
	return &cameraEase{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (e *cameraEase) moveTo(goal cameraPose) {
	e.goal = goal
	e.vel = [6]float64{}
	e.active = true
}

func (e *cameraEase) cancel() { e.active = false }

func (e *cameraEase) update(orbit *render.OrbitCamera) {
	if !e.active {
		return
	}
	orbit.Target.X, e.vel[0] = e.spring.Update(orbit.Target.X, e.vel[0], e.goal.target.X)
	orbit.Target.Y, e.vel[1] = e.spring.Update(orbit.Target.Y, e.vel[1], e.goal.target.Y)
	orbit.Target.Z, e.vel[2] = e.spring.Update(orbit.Target.Z, e.vel[2], e.goal.target.Z)
	orbit.Yaw, e.vel[3] = e.spring.Update(orbit.Yaw, e.vel[3], e.goal.yaw)
	orbit.Pitch, e.vel[4] = e.spring.Update(orbit.Pitch, e.vel[4], e.goal.pitch)
	orbit.Distance, e.vel[5] = e.spring.Update(orbit.Distance, e.vel[5], e.goal.distance)

	const eps = 0.002
	if math.Abs(orbit.Target.X-e.goal.target.X) < eps &&
		math.Abs(orbit.Target.Y-e.goal.target.Y) < eps &&
		math.Abs(orbit.Target.Z-e.goal.target.Z) < eps &&
		math.Abs(orbit.Yaw-e.goal.yaw) < eps &&
		math.Abs(orbit.Pitch-e.goal.pitch) < eps &&
		math.Abs(orbit.Distance-e.goal.distance) < eps {
		orbit.Target = e.goal.target
		orbit.Yaw = e.goal.yaw
		orbit.Pitch = e.goal.pitch
		orbit.Distance = e.goal.distance
		e.active = false
	}
}

// homePose is the camera reset goal, matching the orbit defaults.
func homePose() cameraPose {
	return cameraPose{target: math3d.Zero3(), yaw: 0, pitch: 0.3, distance: 10}
}

// framePose centers the camera on the selection at a distance that fits
// its bounds, keeping the current view angles.
func framePose(obj *scene.Object, orbit *render.OrbitCamera) cameraPose {
	lo, hi := obj.WorldBounds()
	size := hi.Sub(lo)
	dist := min(max(max(size.X, max(size.Y, size.Z))*1.8, 2), orbit.MaxDistance)
	return cameraPose{
		target:   lo.Add(hi).Scale(0.5),
		yaw:      orbit.Yaw,
		pitch:    orbit.Pitch,
		distance: dist,
	}
}

var studioPalette = [][3]float64{
	{0.9, 0.3, 0.3},
	{0.3, 0.9, 0.4},
	{0.35, 0.55, 0.95},
	{0.95, 0.8, 0.3},
	{0.8, 0.4, 0.9},
	{0.4, 0.9, 0.9},
}

// addShape drops a default-sized primitive into the scene, resting on
// the grid plane.
func addShape(sc *scene.Scene, kind models.ShapeKind, serial int) (*scene.Object, error) {
	mesh, err := models.GenerateShape(kind, models.DefaultShapeParams(kind))
	if err != nil {
		return nil, err
	}
	obj := scene.NewObject(fmt.Sprintf("%s %d", kind, serial), mesh)
	lo, _ := mesh.GetBounds()
	obj.Position.Y = -lo.Y
	obj.Color = studioPalette[(serial-1)%len(studioPalette)]
	sc.Add(obj)
	return obj, nil
}

// shapeKeyFor maps the number row onto the shape menu.
func shapeKeyFor(ev uv.KeyPressEvent, kinds []models.ShapeKind) (models.ShapeKind, bool) {
	for i, kind := range kinds {
		if ev.MatchString(string(rune('1' + i))) {
			return kind, true
		}
	}
	return 0, false
}

// adjustSelected applies one nudge of the active edit mode. dir carries
// the key intent: x left/right, y vertical, z toward/away.
func adjustSelected(sc *scene.Scene, mode editMode, dir math3d.Vec3) {
	obj := sc.SelectedObject()
	if obj == nil {
		return
	}
	switch mode {
	case modeTranslate:
		step := 0.25
		if sc.SnapToGrid {
			step = sc.GridSnapSize
		}
		sc.MoveSelected(dir.Scale(step))

	case modeRotate:
		const step = math.Pi / 12
		obj.Rotation.Y += dir.X * step
		obj.Rotation.X += dir.Z * step
		obj.Rotation.Z += dir.Y * step

	case modeScale:
		factor := 1.1
		if dir.X+dir.Y+dir.Z < 0 {
			factor = 1 / 1.1
		}
		next := obj.Scale.Scale(factor)
		if next.X < 0.05 || next.Y < 0.05 || next.Z < 0.05 {
			return
		}
		obj.Scale = next
	}
}

func runStudio(cfg config.Config, paths []string) error {
	sc := scene.NewScene()
	serial := 0

	// Imported models join the scene grounded and normalized so a tiny
	// or huge file still lands in view.
	for _, path := range paths {
		mesh, _, err := loadMeshFile(path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		normalizeToGround(mesh, 2)
		serial++
		obj := scene.NewObject(filepath.Base(path), mesh)
		obj.Color = studioPalette[(serial-1)%len(studioPalette)]
		obj.Position.X = float64(serial-1) * 2.5
		sc.Add(obj)
	}

	s, err := openSession(cfg.Camera.FOVRadians())
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := notifyContext()
	defer cancel()

	orbit := render.NewOrbitCamera()
	orbit.MinDistance = cfg.Camera.MinDistance
	orbit.MaxDistance = cfg.Camera.MaxDistance
	ease := newCameraEase(cfg.Display.FPS)

	mode := modeTranslate
	showGrid := true
	showAxes := true
	showBounds := true
	wireframe := false
	showHUD := true
	wantScreenshot := false

	status := ""
	statusAt := time.Time{}
	setStatus := func(format string, args ...any) {
		status = fmt.Sprintf(format, args...)
		statusAt = time.Now()
	}

	lightDir := math3d.V3(5, 5, 5).Normalize()
	bg := sceneBackground(cfg, render.RGB(20, 20, 31))

	shapeKeys := models.ShapeKinds()[:6]

	var leftDrag, rightDrag bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range s.term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				s.handleResize(ev.Width, ev.Height)

			case uv.KeyPressEvent:
				if kind, ok := shapeKeyFor(ev, shapeKeys); ok {
					serial++
					obj, err := addShape(sc, kind, serial)
					if err != nil {
						setStatus("add failed: %v", err)
						continue
					}
					setStatus("added %s", obj.Name)
					continue
				}
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("tab"):
					sc.SelectNext()
					if obj := sc.SelectedObject(); obj != nil {
						setStatus("selected %s", obj.Name)
					}
				case ev.MatchString("shift+tab"):
					sc.SelectPrev()
					if obj := sc.SelectedObject(); obj != nil {
						setStatus("selected %s", obj.Name)
					}
				case ev.MatchString("m"):
					mode = (mode + 1) % 3
					setStatus("mode: %s", mode)
				case ev.MatchString("left"):
					adjustSelected(sc, mode, math3d.V3(-1, 0, 0))
				case ev.MatchString("right"):
					adjustSelected(sc, mode, math3d.V3(1, 0, 0))
				case ev.MatchString("up"):
					adjustSelected(sc, mode, math3d.V3(0, 0, -1))
				case ev.MatchString("down"):
					adjustSelected(sc, mode, math3d.V3(0, 0, 1))
				case ev.MatchString("u"):
					adjustSelected(sc, mode, math3d.V3(0, 1, 0))
				case ev.MatchString("j"):
					adjustSelected(sc, mode, math3d.V3(0, -1, 0))
				case ev.MatchString("n"):
					sc.SnapToGrid = !sc.SnapToGrid
					if sc.SnapToGrid {
						setStatus("snap on (%.2g)", sc.GridSnapSize)
					} else {
						setStatus("snap off")
					}
				case ev.MatchString("d"):
					if dup := sc.Duplicate(); dup != nil {
						setStatus("duplicated %s", dup.Name)
					} else {
						setStatus("nothing selected")
					}
				case ev.MatchString("delete"), ev.MatchString("backspace"):
					if obj := sc.Remove(); obj != nil {
						setStatus("deleted %s", obj.Name)
					} else {
						setStatus("nothing selected")
					}
				case ev.MatchString("g"):
					showGrid = !showGrid
				case ev.MatchString("a"):
					showAxes = !showAxes
				case ev.MatchString("b"):
					showBounds = !showBounds
				case ev.MatchString("x"):
					wireframe = !wireframe
				case ev.MatchString("f"):
					if obj := sc.SelectedObject(); obj != nil {
						ease.moveTo(framePose(obj, orbit))
					} else {
						setStatus("nothing selected")
					}
				case ev.MatchString("c"):
					ease.moveTo(homePose())
				case ev.MatchString("p"):
					wantScreenshot = true
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					showHUD = !showHUD
					s.term.Erase()
				}

			case uv.MouseClickEvent:
				switch ev.Button {
				case uv.MouseLeft:
					leftDrag = true
				case uv.MouseRight:
					rightDrag = true
				}
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				leftDrag, rightDrag = false, false

			case uv.MouseMotionEvent:
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				switch {
				case leftDrag:
					ease.cancel()
					orbit.Rotate(float64(dx)*0.01, float64(dy)*0.01)
				case rightDrag:
					ease.cancel()
					orbit.Pan(float64(dx)*8, float64(dy)*8)
				}
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					ease.cancel()
					orbit.Zoom(1)
				case uv.MouseWheelDown:
					ease.cancel()
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
		clock.tick()

		ease.update(orbit)
		orbit.Apply(s.camera)
		s.rasterizer.InvalidateFrustum()

		s.fb.Clear(bg)
		s.rasterizer.ClearDepth()

		if showGrid {
			s.rasterizer.DrawGridXZ(10, 1, render.RGB(60, 60, 70))
		}
		if showAxes {
			s.rasterizer.DrawAxes(5)
		}

		for _, obj := range sc.Objects {
			if !obj.Visible {
				continue
			}
			if wireframe {
				s.rasterizer.DrawMeshWireframe(obj.Mesh, obj.ModelMatrix(), rgbFloats(obj.Color))
				continue
			}
			s.rasterizer.DrawMeshMaterialGouraud(obj.Mesh, obj.ModelMatrix(), rgbFloats(obj.Color), lightDir)
		}

		if obj := sc.SelectedObject(); obj != nil && showBounds {
			lo, hi := obj.WorldBounds()
			s.rasterizer.DrawAABBOutline(render.AABB{Min: lo, Max: hi}, render.RGB(255, 200, 60))
		}

		if err := s.present(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		if wantScreenshot {
			wantScreenshot = false
			path := fmt.Sprintf("studio_%s.png", time.Now().Format("20060102_150405"))
			if err := savePNGScaled(s.fb, path, 4); err != nil {
				setStatus("screenshot failed: %v", err)
			} else {
				setStatus("saved %s", path)
			}
		}

		fps.Tick()
		if showHUD {
			snap := "off"
			if sc.SnapToGrid {
				snap = "on"
			}
			top := hudTitleStyle.Render(" STUDIO ") +
				hudLabelStyle.Render(" mode ") + hudValueStyle.Render(mode.String()) +
				hudLabelStyle.Render("  snap ") + hudValueStyle.Render(snap) +
				hudLabelStyle.Render(fmt.Sprintf("  %d objects  %.0f fps", len(sc.Objects), fps.FPS()))
			hudLine(1, 1, top)

			if obj := sc.SelectedObject(); obj != nil {
				sel := hudLabelStyle.Render("selected ") + hudValueStyle.Render(obj.Name) +
					hudLabelStyle.Render(fmt.Sprintf("  pos (%.2f, %.2f, %.2f)",
						obj.Position.X, obj.Position.Y, obj.Position.Z))
				hudLine(2, 1, sel)
			} else {
				hudLine(2, 1, hudLabelStyle.Render("nothing selected, 1-6 adds shapes"))
			}

			if status != "" && time.Since(statusAt) > 3*time.Second {
				status = ""
			}
			bottom := hudLabelStyle.Render("1-6 add  tab select  m mode  arrows nudge  d dup  del remove  f frame  c cam  p shot  esc quit")
			if status != "" {
				bottom = hudValueStyle.Render(status)
			}
			hudLine(s.height, 1, bottom)
		} else {
			hudClear(1)
			hudClear(2)
			hudClear(s.height)
		}

		clock.sleep(start)
	}
}
