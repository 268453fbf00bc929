// Roll scene: an endless rolling-ball run over procedural terrain.
//
// Controls:
//
//	W/A/S/D     - Push the ball
//	Space       - Jump
//	Enter       - Start a run / restart after game over
//	P           - Pause/resume
//	M           - Back to the menu
//	R           - Toggle the slow scenery orbit
//	?           - Toggle HUD overlay
//	Esc         - Quit

package main

import (
	"fmt"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/diorama/pkg/config"
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/sim"
	"github.com/taigrr/diorama/pkg/terrain"
)

func newRollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll",
		Short: "Endless rolling-ball game over procedural terrain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runRoll(cfg)
		},
	}
}

// rollMesh pairs a shared mesh with its local bounds for frustum culling.
type rollMesh struct {
	mesh   *models.Mesh
	bounds render.AABB
}

func newRollMesh(m *models.Mesh) rollMesh {
	lo, hi := m.GetBounds()
	return rollMesh{mesh: m, bounds: render.AABB{Min: lo, Max: hi}}
}

func rgbFloats(c [3]float64) render.Color {
	return render.RGB(uint8(c[0]*255+0.5), uint8(c[1]*255+0.5), uint8(c[2]*255+0.5))
}

func runRoll(cfg config.Config) error {
	s, err := openSession(cfg.Camera.FOVRadians())
	if err != nil {
		return err
	}
	defer s.close()
	// The terrain stretches a couple hundred units; push the far plane out.
	s.camera.SetClipPlanes(0.1, 300)

	ctx, cancel := notifyContext()
	defer cancel()

	w := sim.NewWorld(cfg.SimConfig())
	tuneCamera := func() { w.Camera.Rate = cfg.Camera.FollowRate }
	tuneCamera()

	// Unit meshes shared by every entity of a kind; the entity model
	// matrices carry the per-instance size.
	ball := newRollMesh(models.GenerateSphere(1, 24, 12))
	collectible := newRollMesh(models.GenerateSphere(1, 12, 8))
	trunk := newRollMesh(models.GenerateTreeTrunk(1, 1, 10))
	foliage := newRollMesh(models.GenerateTreeFoliage(1, 12, 8))
	grass := newRollMesh(models.GenerateGrassBlade(0.4, 0.06))
	obstacleMeshes := map[models.ShapeKind]rollMesh{
		models.ShapeCube:     newRollMesh(models.GenerateCube(1)),
		models.ShapePyramid:  newRollMesh(models.GeneratePyramid(1, 1)),
		models.ShapeCylinder: newRollMesh(models.GenerateCylinder(0.5, 1, 16)),
	}

	var terrainSrc *terrain.Terrain
	var terrainMesh *models.Mesh

	collectibleColor := render.RGB(255, 200, 50)
	grassColor := rgbFloats([3]float64{0.3, 0.8, 0.3})
	lightDir := math3d.V3(5, 10, 5).Normalize()
	bg := sceneBackground(cfg, render.RGB(102, 178, 242))

	var pushX, pushZ float64
	showHUD := true

	go func() {
		for ev := range s.term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				s.handleResize(ev.Width, ev.Height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w", "up"):
					pushZ = -1
				case ev.MatchString("s", "down"):
					pushZ = 1
				case ev.MatchString("a", "left"):
					pushX = -1
				case ev.MatchString("d", "right"):
					pushX = 1
				case ev.MatchString("space"):
					w.Jump()
				case ev.MatchString("enter"):
					if w.State() == sim.StateMenu || w.State() == sim.StateGameOver {
						w.Start()
						tuneCamera()
					}
				case ev.MatchString("p"):
					w.TogglePause()
				case ev.MatchString("m"):
					w.ReturnToMenu()
				case ev.MatchString("r"):
					w.ToggleEnvironmentRotation()
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					showHUD = !showHUD
					s.term.Erase()
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up"), ev.MatchString("s", "down"):
					pushZ = 0
				case ev.MatchString("a", "left"), ev.MatchString("d", "right"):
					pushX = 0
				}
			}
		}
	}()

	clock := newFrameClock(cfg.Display.FPS)
	fps := newFPSCounter()
	elapsed := 0.0
	lastState := w.State()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		dt := clock.tick()
		elapsed += dt

		if pushX != 0 || pushZ != 0 {
			w.Push(math3d.V3(pushX, 0, pushZ))
		}
		// Terminals without key release reporting still let go of the
		// ball this way.
		pushX *= 0.9
		pushZ *= 0.9
		if math.Abs(pushX) < 0.05 {
			pushX = 0
		}
		if math.Abs(pushZ) < 0.05 {
			pushZ = 0
		}

		w.Update(dt)

		// Banners sit in the middle of the screen, so wipe leftovers
		// whenever the state machine moves on.
		if st := w.State(); st != lastState {
			lastState = st
			s.term.Erase()
		}

		w.Camera.Apply(s.camera)
		s.rasterizer.InvalidateFrustum()

		s.fb.Clear(bg)
		s.rasterizer.ClearDepth()

		// Each restart regenerates the terrain, so rebuild its mesh
		// whenever the world swaps it out.
		if terrainSrc != w.Terrain {
			terrainSrc = w.Terrain
			terrainMesh = w.Terrain.BuildMesh()
		}

		// The scenery drifts around the ball; the pivot sits at the
		// ball so the player never moves on screen.
		bp := w.Ball.Position
		env := math3d.Translate(bp).
			Mul(math3d.RotateY(w.EnvironmentRotation)).
			Mul(math3d.Translate(bp.Scale(-1)))

		s.rasterizer.DrawMeshMaterialGouraud(terrainMesh, env, render.RGB(26, 179, 26), lightDir)

		for i := range w.Obstacles {
			o := &w.Obstacles[i]
			if !o.Active {
				continue
			}
			rm, ok := obstacleMeshes[o.Kind]
			if !ok {
				rm = obstacleMeshes[models.ShapeCube]
			}
			s.rasterizer.DrawMeshGouraudCulled(rm.mesh, env.Mul(o.ModelMatrix()), rm.bounds, rgbFloats(o.Color), lightDir)
		}

		for i := range w.Collectibles {
			c := &w.Collectibles[i]
			// Cosmetic bob and spin, phased by position so pickups
			// move out of step with each other.
			bob := math.Sin(elapsed*2+c.Position.Z*0.5) * 0.2
			transform := env.
				Mul(math3d.Translate(c.Position.Add(math3d.V3(0, bob, 0)))).
				Mul(math3d.RotateY(elapsed * 2)).
				Mul(math3d.ScaleUniform(c.Radius))
			s.rasterizer.DrawMeshGouraudCulled(collectible.mesh, transform, collectible.bounds, collectibleColor, lightDir)
		}

		for i := range w.Trees {
			t := &w.Trees[i]
			s.rasterizer.DrawMeshGouraudCulled(trunk.mesh, env.Mul(t.TrunkModelMatrix()), trunk.bounds, rgbFloats(t.TrunkColor), lightDir)
			s.rasterizer.DrawMeshGouraudCulled(foliage.mesh, env.Mul(t.FoliageModelMatrix()), foliage.bounds, rgbFloats(t.FoliageColor), lightDir)
		}

		for _, p := range w.Grass {
			s.rasterizer.DrawMeshGouraudCulled(grass.mesh, env.Mul(math3d.Translate(p)), grass.bounds, grassColor, lightDir)
		}

		s.rasterizer.DrawMeshGouraud(ball.mesh, w.Ball.ModelMatrix(), rgbFloats(w.Ball.Color), lightDir)

		if err := s.present(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		fps.Tick()
		if showHUD {
			drawRollHUD(s, w, fps.FPS())
		} else {
			hudClear(1)
			hudClear(2)
			hudClear(s.height)
		}

		clock.sleep(start)
	}
}

func drawRollHUD(s *termSession, w *sim.World, fps float64) {
	switch w.State() {
	case sim.StateMenu:
		mid := s.height / 2
		hudCentered(mid-2, s.width, hudTitleStyle.Render(" ROLL "))
		hudCentered(mid, s.width, hudLabelStyle.Render("roll down the road, dodge the blocks, grab the gold"))
		hudCentered(mid+2, s.width, hudValueStyle.Render("press enter to start"))
		hudLine(s.height, 1, hudLabelStyle.Render("enter start  esc quit"))

	case sim.StatePlaying, sim.StatePaused:
		top := hudTitleStyle.Render(" ROLL ") +
			hudLabelStyle.Render(fmt.Sprintf(" %s  %.0f fps", w.State(), fps))
		hudLine(1, 1, top)

		stats := fmt.Sprintf("  score %s  dist %s  speed %s",
			hudValueStyle.Render(fmt.Sprintf("%.0f", w.Score)),
			hudValueStyle.Render(fmt.Sprintf("%.0fm", w.Distance)),
			hudValueStyle.Render(fmt.Sprintf("%.1f", w.GameSpeed)))
		hudLine(2, 1, healthBar(w.Ball.Health, sim.MaxHealth)+stats)

		if w.State() == sim.StatePaused {
			hudCentered(s.height/2, s.width, hudWarnStyle.Render(" PAUSED ")+hudLabelStyle.Render(" p resumes"))
		}
		hudLine(s.height, 1, hudLabelStyle.Render("wasd push  space jump  p pause  m menu  r scenery  esc quit"))

	case sim.StateGameOver:
		mid := s.height / 2
		hudCentered(mid-2, s.width, hudDangerStyle.Render(" GAME OVER "))
		hudCentered(mid, s.width, fmt.Sprintf("score %s  distance %s",
			hudValueStyle.Render(fmt.Sprintf("%.0f", w.Score)),
			hudValueStyle.Render(fmt.Sprintf("%.0fm", w.Distance))))
		hudCentered(mid+2, s.width, hudLabelStyle.Render("enter restart  m menu  esc quit"))
		hudLine(s.height, 1, hudLabelStyle.Render("enter restart  esc quit"))
	}
}
