package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/diorama/pkg/config"
	"github.com/taigrr/diorama/pkg/render"
)

// sceneBackground returns the configured clear color, or the scene's
// fallback when the config leaves it unset.
func sceneBackground(cfg config.Config, fallback render.Color) render.Color {
	if !cfg.Display.HasBackground() {
		return fallback
	}
	r, g, b := cfg.Display.BackgroundRGB()
	return render.RGB(uint8(r*255+0.5), uint8(g*255+0.5), uint8(b*255+0.5))
}

// termSession owns the terminal lifecycle shared by the scenes: raw
// mode, alt screen, mouse tracking, and the renderer chain sized to
// the window.
type termSession struct {
	term   *uv.Terminal
	width  int
	height int

	renderer   *render.TerminalRenderer
	fb         *render.Framebuffer
	camera     *render.Camera
	rasterizer *render.Rasterizer
}

// openSession starts the terminal and builds the renderer chain.
func openSession(fovRadians float64) (*termSession, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking plus SGR extended coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	s := &termSession{term: term, width: width, height: height}
	s.camera = render.NewCamera()
	s.camera.SetFOV(fovRadians)
	s.camera.SetClipPlanes(0.1, 100)
	s.rebuild()
	return s, nil
}

// rebuild recreates the renderer chain for the current window size.
func (s *termSession) rebuild() {
	s.renderer = render.NewTerminalRenderer(s.term, s.width, s.height)
	fbW, fbH := s.renderer.FramebufferSize()
	s.fb = render.NewFramebuffer(fbW, fbH)
	s.camera.SetAspectRatio(float64(fbW) / float64(fbH))
	s.rasterizer = render.NewRasterizer(s.camera, s.fb)
}

// handleResize applies a window size event.
func (s *termSession) handleResize(w, h int) {
	s.width, s.height = w, h
	s.term.Erase()
	s.term.Resize(w, h)
	s.rebuild()
}

// present pushes the framebuffer to the terminal.
func (s *termSession) present() error {
	s.renderer.Render(s.fb)
	return s.renderer.Flush()
}

// close restores the terminal.
func (s *termSession) close() {
	fmt.Fprint(os.Stdout, "\x1b[?1003l")
	fmt.Fprint(os.Stdout, "\x1b[?1006l")
	s.term.ExitAltScreen()
	s.term.ShowCursor()
	s.term.Shutdown(context.Background())
}

// notifyContext returns a context cancelled by SIGINT or SIGTERM.
func notifyContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// frameClock paces a scene loop and clamps runaway time steps so a
// stalled terminal cannot teleport the simulation.
type frameClock struct {
	target time.Duration
	last   time.Time
}

func newFrameClock(fps int) *frameClock {
	if fps <= 0 {
		fps = 60
	}
	return &frameClock{
		target: time.Second / time.Duration(fps),
		last:   time.Now(),
	}
}

// tick returns the clamped dt since the previous frame, in seconds.
func (c *frameClock) tick() float64 {
	now := time.Now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt > 0.1 {
		dt = 0.1
	}
	return dt
}

// sleep holds the loop to the target rate, measured from frame start.
func (c *frameClock) sleep(start time.Time) {
	elapsed := time.Since(start)
	if elapsed < c.target {
		time.Sleep(c.target - elapsed)
	}
}
