package main

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
)

// HUD text styles shared by the scenes.
var (
	hudTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f8f8f2"))
	hudLabelStyle  = lipgloss.NewStyle().Faint(true)
	hudValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd"))
	hudGoodStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50fa7b"))
	hudWarnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f1fa8c"))
	hudDangerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5555"))
)

const clearLine = "\x1b[2K"

// moveTo positions the cursor at a 1-based row and column.
func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// hudLine clears a row and writes styled text at the given column.
func hudLine(row, col int, text string) {
	fmt.Print(moveTo(row, 1) + clearLine + moveTo(row, col) + text)
}

// hudCentered clears a row and writes styled text centered in width.
func hudCentered(row, width int, text string) {
	col := max((width-lipgloss.Width(text))/2, 1)
	hudLine(row, col, text)
}

// hudClear blanks a row, used when an overlay toggles off.
func hudClear(row int) {
	fmt.Print(moveTo(row, 1) + clearLine)
}

// fpsCounter folds the displayed frame rate over one second windows.
type fpsCounter struct {
	fps    float64
	frames int
	since  time.Time
}

func newFPSCounter() *fpsCounter {
	return &fpsCounter{since: time.Now()}
}

// Tick counts a frame, folding the rate once per second.
func (c *fpsCounter) Tick() {
	c.frames++
	if elapsed := time.Since(c.since); elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = time.Now()
	}
}

// FPS returns the most recently folded rate.
func (c *fpsCounter) FPS() float64 {
	return c.fps
}

// healthBar renders a 20 cell bar colored by the remaining fraction.
func healthBar(health, maxHealth float64) string {
	const cells = 20
	frac := health / maxHealth
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*cells + 0.5)

	style := hudGoodStyle
	switch {
	case frac < 0.25:
		style = hudDangerStyle
	case frac < 0.5:
		style = hudWarnStyle
	}
	return style.Render(strings.Repeat("█", filled)) +
		hudLabelStyle.Render(strings.Repeat("░", cells-filled))
}
