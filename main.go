// gamesystem opens an OpenGL window and runs the testbed game in it.
//
// Usage:
//
//	gamesystem [flags]
//
// Flags override the values read from the config file:
//
//	--config <path>     - Config file (default: ~/.gamesystem/gamesystem.toml, then ./gamesystem.toml)
//	--width, --height   - Window size
//	--depth <bits>      - Colour depth, 16, 24 or 32
//	--windowed          - Windowed (true) or fullscreen (false)
//	--fps <rate>        - Target frame rate, 0 disables pacing
//	--log-level <level> - debug, info, warn, error or fatal
//	--watch             - Reload the config file when it changes
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/gamesystem/engine"
	"github.com/spaghettifunk/gamesystem/engine/config"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/spaghettifunk/gamesystem/engine/platform"
	"github.com/spaghettifunk/gamesystem/testbed"
)

var (
	flagConfig   string
	flagWidth    int
	flagHeight   int
	flagDepth    int
	flagWindowed bool
	flagFPS      float64
	flagLogLevel string
	flagWatch    bool

	exitCode int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(engine.ExitFailure)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "gamesystem",
	Short: "Run the testbed game in an OpenGL window",
	Long: `gamesystem opens a window with an OpenGL 2.1 context and runs the
testbed game at a fixed frame rate.

Keys:
  arrows/WASD  - Move the block
  P            - Pause
  Alt+Enter    - Toggle fullscreen
  Esc, Alt+X   - Quit`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a .toml or .yaml config file")
	rootCmd.Flags().IntVar(&flagWidth, "width", config.DefaultWidth, "Window width")
	rootCmd.Flags().IntVar(&flagHeight, "height", config.DefaultHeight, "Window height")
	rootCmd.Flags().IntVar(&flagDepth, "depth", config.DefaultDepth, "Colour depth in bits per pixel")
	rootCmd.Flags().BoolVar(&flagWindowed, "windowed", config.DefaultWindowed, "Run in a window instead of fullscreen")
	rootCmd.Flags().Float64Var(&flagFPS, "fps", config.DefaultFrameRate, "Target frame rate (0 = unlimited)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", config.DefaultLogLevel, "Log level")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the config file when it changes")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	core.SetLogLevel(cfg.Level())
	if source != "" {
		core.LogInfo("loaded config from %s", source)
	}

	p := platform.New()
	game := testbed.NewTestGame()
	app := engine.New(&engine.ApplicationConfig{
		Title:     cfg.Title,
		FrameRate: cfg.FrameRate,
		LogLevel:  cfg.Level(),
	}, p, game)

	if flagWatch {
		if source == "" {
			core.LogWarn("--watch needs a config file, ignoring")
		} else {
			w, err := config.Watch(source, p.Wake)
			if err != nil {
				return err
			}
			defer w.Close()
			app.WatchConfig(w.Updates())
		}
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		// capture sigterm and other system call here
		select {
		case <-sigCh:
			app.Interrupt()
		case <-done:
		}
	}()

	d := cfg.Display
	// a failed Create is already reported, Run then exits with ExitFailure
	_ = app.Create(d.Width, d.Height, d.Depth, d.Windowed)
	exitCode = app.Run()
	return nil
}

// applyFlags copies the flags set on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Display.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Display.Height = flagHeight
	}
	if flags.Changed("depth") {
		cfg.Display.Depth = flagDepth
	}
	if flags.Changed("windowed") {
		cfg.Display.Windowed = flagWindowed
	}
	if flags.Changed("fps") {
		cfg.FrameRate = flagFPS
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}
