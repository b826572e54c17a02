package engine

import (
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/gamesystem/engine/config"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/spaghettifunk/gamesystem/engine/platform"
)

type Stage uint8

const (
	// Create has not succeeded yet
	ApplicationStageUninitialized Stage = iota
	// Window and context exist and the window has focus
	ApplicationStageActive
	// Window and context exist but the window lost focus
	ApplicationStageInactive
	// Destroy ran
	ApplicationStageDestroyed
)

func (s Stage) String() string {
	switch s {
	case ApplicationStageActive:
		return "active"
	case ApplicationStageInactive:
		return "inactive"
	case ApplicationStageDestroyed:
		return "destroyed"
	default:
		return "uninitialized"
	}
}

const (
	ExitSuccess = 0
	ExitFailure = 1
)

type ApplicationConfig struct {
	// The window title.
	Title string
	// Target frames per second. Zero disables pacing.
	FrameRate float64
	LogLevel  core.LogLevel
	// Receives every reported failure. Defaults to logging.
	Reporter core.Reporter
}

// DefaultApplicationConfig mirrors config.Default.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Title:     config.DefaultTitle,
		FrameRate: config.DefaultFrameRate,
		LogLevel:  core.InfoLevel,
		Reporter:  core.LogReporter{},
	}
}

// Application owns the window, the rendering context and the main loop, and
// drives a Game through its hooks.
type Application struct {
	platform platform.Platform
	game     Game
	reporter core.Reporter
	events   *core.EventBus
	input    *core.InputState
	timer    *core.FrameTimer

	window  platform.Window
	context platform.Context
	// handles kept after a failed Game.Init, released by Destroy
	pendingWindow  platform.Window
	pendingContext platform.Context
	subsystem      bool

	ready     bool
	active    bool
	paused    bool
	destroyed bool

	width    int
	height   int
	depth    int
	windowed bool
	title    string

	frameRate float64
	waitTime  time.Duration
	frameTime time.Duration

	running     bool
	exitCode    int
	interrupted atomic.Bool

	configUpdates <-chan config.Config
}

func New(cfg *ApplicationConfig, p platform.Platform, g Game) *Application {
	if cfg == nil {
		cfg = DefaultApplicationConfig()
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = core.LogReporter{}
	}
	title := cfg.Title
	if title == "" {
		title = config.DefaultTitle
	}
	core.SetLogLevel(cfg.LogLevel)

	a := &Application{
		platform: p,
		game:     g,
		reporter: reporter,
		events:   core.NewEventBus(),
		input:    core.NewInputState(),
		timer:    core.NewFrameTimer(p.Ticks),
		width:    config.DefaultWidth,
		height:   config.DefaultHeight,
		depth:    config.DefaultDepth,
		windowed: config.DefaultWindowed,
		title:    title,
	}
	a.SetFrameRate(cfg.FrameRate)
	return a
}

// SetFrameRate changes the target frame rate. Zero or less renders as fast
// as possible.
func (a *Application) SetFrameRate(fps float64) {
	if fps < 0 {
		fps = 0
	}
	a.frameRate = fps
	a.waitTime = 0
	if fps > 0 {
		a.waitTime = time.Duration(float64(time.Second) / fps)
	}
}

func (a *Application) FrameRate() float64 { return a.frameRate }

// CurrentFrameRate is the measured average frame rate.
func (a *Application) CurrentFrameRate() float64 { return a.timer.FrameRate() }

// FrameTime is the elapsed time of the frame being rendered.
func (a *Application) FrameTime() time.Duration { return a.frameTime }

func (a *Application) ShowFrameRate() {
	core.LogInfo("The program ran at an average of %0.2f frames per second.", a.timer.FrameRate())
}

// Pause stops frames from running while leaving the event loop alive.
func (a *Application) Pause(paused bool) {
	if a.paused == paused {
		return
	}
	a.paused = paused
	if !paused {
		a.timer.Reset()
	}
}

func (a *Application) IsPaused() bool { return a.paused }

// Quit asks Run to stop once the current events are drained.
func (a *Application) Quit() {
	a.platform.PushEvent(core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT})
}

// Interrupt is Quit for other goroutines, such as a signal handler.
func (a *Application) Interrupt() {
	a.interrupted.Store(true)
	a.platform.Wake()
}

func (a *Application) SetTitle(title string) {
	a.title = title
	if a.window != nil {
		a.platform.SetTitle(a.window, title)
	}
}

func (a *Application) Title() string { return a.title }

// WatchConfig applies configs received on updates between frames. Use with
// config.Watcher and Platform.Wake.
func (a *Application) WatchConfig(updates <-chan config.Config) {
	a.configUpdates = updates
}

func (a *Application) Window() platform.Window { return a.window }
func (a *Application) Width() int              { return a.width }
func (a *Application) Height() int             { return a.height }
func (a *Application) ColorDepth() int         { return a.depth }
func (a *Application) IsWindowed() bool        { return a.windowed }
func (a *Application) IsReady() bool           { return a.ready }
func (a *Application) IsActive() bool          { return a.active }
func (a *Application) Events() *core.EventBus  { return a.events }
func (a *Application) Input() *core.InputState { return a.input }

// Display is the current display mode.
func (a *Application) Display() config.Display {
	return config.Display{
		Width:    a.width,
		Height:   a.height,
		Depth:    a.depth,
		Windowed: a.windowed,
	}
}

func (a *Application) Stage() Stage {
	switch {
	case a.ready && a.active:
		return ApplicationStageActive
	case a.ready:
		return ApplicationStageInactive
	case a.destroyed:
		return ApplicationStageDestroyed
	default:
		return ApplicationStageUninitialized
	}
}

// report hands a failure to the reporter and returns it. The location is
// taken from the caller of report.
func (a *Application) report(kind error, message string, cause error) error {
	err := core.NewErrorSkip(1, kind, message, cause)
	a.reporter.Report(err)
	return err
}

func (a *Application) applyConfig(cfg config.Config) {
	core.LogInfo("config changed, applying")
	if level, err := core.ParseLogLevel(cfg.LogLevel); err == nil {
		core.SetLogLevel(level)
	}
	if cfg.Title != "" && cfg.Title != a.title {
		a.SetTitle(cfg.Title)
	}
	if cfg.FrameRate != a.frameRate {
		a.SetFrameRate(cfg.FrameRate)
	}
	if !a.ready {
		return
	}
	d := cfg.Display.Normalize()
	if !d.Equivalent(a.Display()) {
		// failures are already reported
		_ = a.SetMode(d.Width, d.Height, d.Depth, d.Windowed)
	}
}

func (a *Application) drainConfig() {
	if a.configUpdates == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-a.configUpdates:
			if !ok {
				a.configUpdates = nil
				return
			}
			a.applyConfig(cfg)
		default:
			return
		}
	}
}
