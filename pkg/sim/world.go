package sim

import (
	"math"
	"math/rand"
	"slices"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/terrain"
)

// State is the phase of a game run.
type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

// String returns the HUD label for the state.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "MAIN MENU"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateGameOver:
		return "GAME OVER"
	default:
		return "UNKNOWN"
	}
}

// Config holds the tunables of a run.
type Config struct {
	Terrain terrain.Config

	Gravity       math3d.Vec3
	ForceStrength float64 // Steering force per input event
	JumpSpeed     float64 // Vertical velocity set by a jump

	// BallFriction and BallElasticity replace the ball's bounce
	// defaults when positive.
	BallFriction   float64
	BallElasticity float64

	// Seed drives obstacle, collectible and decoration placement.
	Seed int64
}

// DefaultConfig mirrors the classic run: road down the middle of a
// 100x200 field, earth gravity, a nimble but not twitchy ball.
func DefaultConfig() Config {
	return Config{
		Terrain:        terrain.DefaultConfig(),
		Gravity:        math3d.V3(0, -9.8, 0),
		ForceStrength:  15,
		JumpSpeed:      8,
		BallFriction:   0.95,
		BallElasticity: 0.8,
		Seed:           1,
	}
}

// Progression and scoring rates.
const (
	initialGameSpeed  = 10.0
	initialDifficulty = 1.0
	speedRamp         = 0.1  // GameSpeed gained per second
	difficultyRamp    = 0.01 // Difficulty gained per second
	scoreRate         = 0.1  // Score per unit of distance
	hitPenaltyFactor  = 2.0  // Score lost per point of damage
	collectScore      = 50.0
	collectHeal       = 10.0

	maxStep     = 0.1  // Largest dt a single update will integrate
	pruneBehind = 30.0 // Entities this far behind the ball are dropped
)

// Spawn layout: first offset ahead of the ball, spacing between
// consecutive spawns, how far the frontier may fall behind the ball
// before a refill, and batch sizes.
const (
	obstacleStart   = 30.0
	obstacleSpacing = 15.0
	obstacleAhead   = 100.0
	obstacleSeed    = 20
	obstacleBatch   = 5

	collectibleStart   = 20.0
	collectibleSpacing = 10.0
	collectibleAhead   = 80.0
	collectibleSeed    = 10
	collectibleBatch   = 3

	treeStart   = 20.0
	treeSpacing = 20.0
	treeAhead   = 150.0
	treeSeed    = 30
	treeBatch   = 5

	grassStart   = 10.0
	grassSpacing = 8.0
	grassAhead   = 100.0
	grassSeed    = 50
	grassBatch   = 10
)

// World is the complete state of a rolling-ball run: the ball, the
// terrain it rolls on, everything spawned along the road, the chase
// camera and the scoring state machine. All updates are synchronous;
// a World is not safe for concurrent use.
type World struct {
	cfg Config
	rng *rand.Rand

	Ball    *Ball
	Terrain *terrain.Terrain

	Obstacles    []Obstacle
	Collectibles []Collectible
	Trees        []Tree
	Grass        []math3d.Vec3

	Camera *render.FollowCamera

	Score      float64
	Distance   float64
	GameSpeed  float64
	Difficulty float64

	EnvironmentRotation      float64
	EnvironmentRotationSpeed float64

	state State

	// Most recently spawned z per category. Spawning works toward
	// negative z, tracking the ball so the road never runs out.
	lastObstacleZ    float64
	lastCollectibleZ float64
	lastTreeZ        float64
	lastGrassZ       float64
}

// NewWorld builds a populated world sitting at the menu.
func NewWorld(cfg Config) *World {
	w := &World{cfg: cfg, EnvironmentRotationSpeed: 0.1}
	w.Reset()
	w.state = StateMenu
	return w
}

// Reset restores the world to the start of a fresh run and enters the
// playing state. The same Config.Seed reproduces the same run.
func (w *World) Reset() {
	w.rng = rand.New(rand.NewSource(w.cfg.Seed))
	w.Ball = NewBall()
	if w.cfg.BallFriction > 0 {
		w.Ball.Friction = w.cfg.BallFriction
	}
	if w.cfg.BallElasticity > 0 {
		w.Ball.Elasticity = w.cfg.BallElasticity
	}
	w.Terrain = terrain.Generate(w.cfg.Terrain)

	w.Obstacles = nil
	w.Collectibles = nil
	w.Trees = nil
	w.Grass = nil

	w.Score = 0
	w.Distance = 0
	w.GameSpeed = initialGameSpeed
	w.Difficulty = initialDifficulty
	w.EnvironmentRotation = 0

	w.Camera = render.NewFollowCamera()
	w.Camera.Target = w.Ball.Position

	z := w.Ball.Position.Z
	w.lastObstacleZ = z - obstacleStart + obstacleSpacing
	w.lastCollectibleZ = z - collectibleStart + collectibleSpacing
	w.lastTreeZ = z - treeStart + treeSpacing
	w.lastGrassZ = z - grassStart + grassSpacing

	w.spawnObstacles(obstacleSeed)
	w.spawnCollectibles(collectibleSeed)
	w.spawnTrees(treeSeed)
	w.spawnGrass(grassSeed)

	w.state = StatePlaying
}

// State returns the current phase of the run.
func (w *World) State() State { return w.state }

// Start begins a new run from the menu or the game-over screen.
func (w *World) Start() { w.Reset() }

// ReturnToMenu leaves the current run and shows the menu.
func (w *World) ReturnToMenu() { w.state = StateMenu }

// TogglePause flips between playing and paused; other states ignore it.
func (w *World) TogglePause() {
	switch w.state {
	case StatePlaying:
		w.state = StatePaused
	case StatePaused:
		w.state = StatePlaying
	}
}

// ToggleEnvironmentRotation stops or restarts the slow scenery drift.
func (w *World) ToggleEnvironmentRotation() {
	if w.EnvironmentRotationSpeed == 0 {
		w.EnvironmentRotationSpeed = 0.1
	} else {
		w.EnvironmentRotationSpeed = 0
	}
}

// Push queues a steering force along dir for the next update. No-op
// unless playing.
func (w *World) Push(dir math3d.Vec3) {
	if w.state != StatePlaying {
		return
	}
	w.Ball.ApplyForce(dir.Scale(w.cfg.ForceStrength))
}

// Jump launches the ball upward if it is touching the ground.
func (w *World) Jump() {
	if w.state != StatePlaying {
		return
	}
	if w.Ball.OnGround(w.Terrain) {
		w.Ball.Velocity.Y = w.cfg.JumpSpeed
	}
}

// Update advances the run by dt seconds: ball physics, scoring,
// collisions, pickups, the chase camera and road spawning. Steps are
// clamped to maxStep so a stalled frame cannot tunnel the ball through
// the ground. Only the playing state advances.
func (w *World) Update(dt float64) {
	if w.state != StatePlaying {
		return
	}
	dt = min(dt, maxStep)

	w.EnvironmentRotation += w.EnvironmentRotationSpeed * dt
	if w.EnvironmentRotation > 2*math.Pi {
		w.EnvironmentRotation -= 2 * math.Pi
	}

	w.Ball.Step(dt, w.cfg.Gravity, w.Terrain)

	w.Distance += w.GameSpeed * dt
	w.Score += w.GameSpeed * dt * scoreRate
	w.Difficulty += dt * difficultyRamp
	w.GameSpeed += dt * speedRamp

	for i := range w.Obstacles {
		o := &w.Obstacles[i]
		if o.Hits(w.Ball) {
			w.Ball.TakeDamage(o.Damage)
			w.Ball.Velocity = w.Ball.Velocity.Scale(-0.5)
			o.Active = false
			w.Score = max(w.Score-o.Damage*hitPenaltyFactor, 0)
		}
	}

	kept := w.Collectibles[:0]
	for _, c := range w.Collectibles {
		if c.CollectedBy(w.Ball) {
			w.Score += collectScore
			w.Ball.Heal(collectHeal)
			continue
		}
		kept = append(kept, c)
	}
	w.Collectibles = kept

	if !w.Ball.Alive {
		w.state = StateGameOver
	}

	w.Camera.Update(dt, w.Ball.Position)

	w.prune()

	ahead := w.Ball.Position.Z
	if w.lastObstacleZ > ahead-obstacleAhead {
		w.spawnObstacles(obstacleBatch)
	}
	if len(w.Collectibles) == 0 || w.lastCollectibleZ > ahead-collectibleAhead {
		w.spawnCollectibles(collectibleBatch)
	}
	if w.lastTreeZ > ahead-treeAhead {
		w.spawnTrees(treeBatch)
	}
	if w.lastGrassZ > ahead-grassAhead {
		w.spawnGrass(grassBatch)
	}
}

// prune drops entities well behind the ball so an endless run does not
// grow without bound.
func (w *World) prune() {
	limit := w.Ball.Position.Z + pruneBehind
	w.Obstacles = slices.DeleteFunc(w.Obstacles, func(o Obstacle) bool { return o.Position.Z > limit })
	w.Collectibles = slices.DeleteFunc(w.Collectibles, func(c Collectible) bool { return c.Position.Z > limit })
	w.Trees = slices.DeleteFunc(w.Trees, func(t Tree) bool { return t.Position.Z > limit })
	w.Grass = slices.DeleteFunc(w.Grass, func(p math3d.Vec3) bool { return p.Z > limit })
}

var obstacleKinds = [...]models.ShapeKind{models.ShapeCube, models.ShapePyramid, models.ShapeCylinder}

func (w *World) spawnObstacles(count int) {
	for range count {
		z := w.lastObstacleZ - obstacleSpacing
		x := (w.rng.Float64() - 0.5) * 3 // Inside the road corridor

		w.Obstacles = append(w.Obstacles, Obstacle{
			Position: math3d.V3(x, w.Terrain.HeightAt(x, z), z),
			Width:    0.5 + w.rng.Float64(),
			Height:   0.5 + w.rng.Float64()*2,
			Depth:    0.5 + w.rng.Float64(),
			Kind:     obstacleKinds[w.rng.Intn(len(obstacleKinds))],
			Damage:   10 + w.rng.Float64()*10,
			Active:   true,
			Color:    [3]float64{0.9, 0.3 + w.rng.Float64()*0.2, 0.1 + w.rng.Float64()*0.1},
		})
		w.lastObstacleZ = z
	}
}

func (w *World) spawnCollectibles(count int) {
	for range count {
		z := w.lastCollectibleZ - collectibleSpacing
		x := (w.rng.Float64() - 0.5) * 6

		w.Collectibles = append(w.Collectibles, Collectible{
			Position: math3d.V3(x, w.Terrain.HeightAt(x, z)+1+w.rng.Float64()*2, z),
			Radius:   0.5,
		})
		w.lastCollectibleZ = z
	}
}

func (w *World) spawnTrees(count int) {
	for range count {
		z := w.lastTreeZ - treeSpacing
		x := (w.cfg.Terrain.RoadHalfWidth + 2 + w.rng.Float64()*10) * w.side()

		w.Trees = append(w.Trees, Tree{
			Position:      math3d.V3(x, w.Terrain.HeightAt(x, z), z),
			Height:        2 + w.rng.Float64()*4,
			TrunkRadius:   0.1 + w.rng.Float64()*0.2,
			FoliageRadius: 0.8 + w.rng.Float64()*1.2,
			TrunkColor:    [3]float64{0.4, 0.2, 0.1},
			FoliageColor:  [3]float64{w.rng.Float64() * 0.2, 0.4 + w.rng.Float64()*0.4, w.rng.Float64() * 0.2},
		})
		w.lastTreeZ = z
	}
}

func (w *World) spawnGrass(count int) {
	for range count {
		z := w.lastGrassZ - grassSpacing
		x := (w.cfg.Terrain.RoadHalfWidth + 1 + w.rng.Float64()*8) * w.side()

		w.Grass = append(w.Grass, math3d.V3(x, w.Terrain.HeightAt(x, z), z))
		w.lastGrassZ = z
	}
}

// side picks the left or right roadside with equal probability.
func (w *World) side() float64 {
	if w.rng.Float64() > 0.5 {
		return 1
	}
	return -1
}
