// diorama - software-rendered 3D demo scenes for the terminal
//
// Scenes:
//
//	studio - scene editor for procedural shapes and imported models
//	house  - orbit a cottage model, procedural fallback included
//	roll   - endless rolling-ball mini game on generated terrain
//	spin   - rotating sphere, also available as a desktop window
//
// Every scene renders with the same software rasterizer into half-block
// terminal cells. A TOML file passed with --config overrides the
// physics, terrain, camera and display tunables.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/diorama/pkg/config"
)

var (
	configPath  string
	fpsOverride int
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "diorama",
		Short:        "Software-rendered 3D demo scenes for the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML tunables file")
	root.PersistentFlags().IntVar(&fpsOverride, "fps", 0, "target frame rate (overrides the config)")
	root.AddCommand(newStudioCmd(), newHouseCmd(), newRollCmd(), newSpinCmd())
	return root
}

// loadConfig layers the --config file over the defaults and applies
// command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if fpsOverride > 0 {
		cfg.Display.FPS = fpsOverride
	}
	return cfg, nil
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
