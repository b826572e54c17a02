package engine

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/spaghettifunk/gamesystem/engine/config"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/spaghettifunk/gamesystem/engine/platform"
	"github.com/spaghettifunk/gamesystem/engine/platform/mock"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

type testGame struct {
	app *Application

	initErr     error
	releaseErr  error
	restoreErr  error
	shutdownErr error
	failLoopAt  int
	onLoop      func(app *Application, frame int)

	inits     int
	loops     int
	releases  int
	restores  int
	shutdowns int
}

func (g *testGame) Init(app *Application) error {
	g.app = app
	g.inits++
	return g.initErr
}

func (g *testGame) Loop() error {
	g.loops++
	if g.failLoopAt > 0 && g.loops == g.failLoopAt {
		return errors.New("loop failed")
	}
	if g.onLoop != nil {
		g.onLoop(g.app, g.loops)
	}
	return nil
}

func (g *testGame) Release() error {
	g.releases++
	return g.releaseErr
}

func (g *testGame) Restore() error {
	g.restores++
	return g.restoreErr
}

func (g *testGame) Shutdown() error {
	g.shutdowns++
	return g.shutdownErr
}

type changerGame struct {
	testGame
	changingErr error
	changing    int
	changed     int
}

func (g *changerGame) ModeChanging() error {
	g.changing++
	return g.changingErr
}

func (g *changerGame) ModeChanged() error {
	g.changed++
	return nil
}

type togglerGame struct {
	testGame
	toggles int
}

func (g *togglerGame) OnChangeMode(app *Application) {
	g.toggles++
	app.SetMode(app.Width(), app.Height(), app.ColorDepth(), !app.IsWindowed())
}

type recorder struct {
	errs []*core.Error
}

func (r *recorder) Report(err *core.Error) {
	r.errs = append(r.errs, err)
}

func (r *recorder) has(kind error) bool {
	for _, err := range r.errs {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func newTestApp(g Game, fps float64) (*Application, *mock.Platform, *recorder) {
	p := mock.New()
	r := &recorder{}
	app := New(&ApplicationConfig{
		Title:     "test",
		FrameRate: fps,
		LogLevel:  core.ErrorLevel,
		Reporter:  r,
	}, p, g)
	return app, p, r
}

func quitAfter(n int) func(*Application, int) {
	return func(app *Application, frame int) {
		if frame == n {
			app.Quit()
		}
	}
}

func TestCreateWindowed(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 60)

	if err := app.Create(800, 600, 24, true); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !app.IsReady() || !app.IsActive() || app.Stage() != ApplicationStageActive {
		t.Errorf("ready=%v active=%v stage=%s", app.IsReady(), app.IsActive(), app.Stage())
	}
	if app.Width() != 800 || app.Height() != 600 || app.ColorDepth() != 24 || !app.IsWindowed() {
		t.Errorf("Display() = %s", app.Display())
	}
	want := platform.WindowConfig{Title: "test", Width: 800, Height: 600, Depth: 24}
	if len(p.Requests) != 1 || p.Requests[0] != want {
		t.Errorf("Requests = %+v, want [%+v]", p.Requests, want)
	}
	if app.Window() == nil {
		t.Error("Window() is nil after Create")
	}
	if p.SwapInterval != 1 {
		t.Errorf("SwapInterval = %d, want 1", p.SwapInterval)
	}
	if g.inits != 1 || g.app != app {
		t.Errorf("Init called %d times", g.inits)
	}
}

func TestCreateFullscreenUsesDesktopAndDefaults(t *testing.T) {
	app, p, _ := newTestApp(&testGame{}, 60)

	if err := app.Create(0, 0, 99, false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if app.Width() != 1920 || app.Height() != 1080 {
		t.Errorf("size = %dx%d, want desktop 1920x1080", app.Width(), app.Height())
	}
	if app.ColorDepth() != config.DefaultDepth || app.IsWindowed() {
		t.Errorf("depth=%d windowed=%v", app.ColorDepth(), app.IsWindowed())
	}
	if !p.Requests[0].Fullscreen {
		t.Error("window was not requested fullscreen")
	}
}

func TestCreateFailuresLeaveNoPartialState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *mock.Platform)
		kind  error
	}{
		{"subsystem", func(p *mock.Platform) { p.FailInit = mock.ErrInjected }, core.ErrSubsystemInit},
		{"window", func(p *mock.Platform) {
			p.FailWindow = func(platform.WindowConfig) error { return mock.ErrInjected }
		}, core.ErrResourceCreation},
		{"context", func(p *mock.Platform) { p.FailContext = mock.ErrInjected }, core.ErrResourceCreation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &testGame{}
			app, p, r := newTestApp(g, 60)
			tt.setup(p)

			err := app.Create(640, 480, 32, true)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Create() error = %v, want %v", err, tt.kind)
			}
			if !errors.Is(err, mock.ErrInjected) {
				t.Errorf("Create() error %v does not wrap the cause", err)
			}
			if app.IsReady() || app.Window() != nil {
				t.Error("application kept partial state")
			}
			if p.LiveWindows() != 0 || p.LiveContexts() != 0 || p.Initialized() {
				t.Errorf("leaked windows=%d contexts=%d initialized=%v", p.LiveWindows(), p.LiveContexts(), p.Initialized())
			}
			if g.inits != 0 {
				t.Error("Init called after a failed acquisition")
			}
			if !r.has(tt.kind) {
				t.Error("failure was not reported")
			}
		})
	}
}

func TestCreateGameInitFailureKeepsHandlesUntilDestroy(t *testing.T) {
	g := &testGame{initErr: errors.New("no assets")}
	app, p, _ := newTestApp(g, 60)

	err := app.Create(640, 480, 32, true)
	if !errors.Is(err, core.ErrGameHook) {
		t.Fatalf("Create() error = %v, want ErrGameHook", err)
	}
	if app.IsReady() || app.Window() != nil {
		t.Error("application is ready after Init failed")
	}
	if p.LiveWindows() != 1 || p.LiveContexts() != 1 {
		t.Errorf("windows=%d contexts=%d, want the handles kept", p.LiveWindows(), p.LiveContexts())
	}

	app.Destroy()
	if p.LiveWindows() != 0 || p.LiveContexts() != 0 || p.Initialized() {
		t.Error("Destroy did not release the kept handles")
	}
}

func TestCreateTwice(t *testing.T) {
	app, p, _ := newTestApp(&testGame{}, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	if err := app.Create(800, 600, 32, true); !errors.Is(err, core.ErrAlreadyInitialized) {
		t.Errorf("second Create() error = %v, want ErrAlreadyInitialized", err)
	}
	if p.WindowsCreated != 1 || app.Width() != 640 {
		t.Error("second Create changed the window")
	}
}

func TestDestroyTwice(t *testing.T) {
	app, p, _ := newTestApp(&testGame{}, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	app.Destroy()
	app.Destroy()

	if app.Stage() != ApplicationStageDestroyed {
		t.Errorf("Stage() = %s", app.Stage())
	}
	if p.WindowsDestroyed != 1 || p.ContextsDeleted != 1 || p.TerminateCalls != 1 {
		t.Errorf("destroyed=%d deleted=%d terminated=%d, want 1 each", p.WindowsDestroyed, p.ContextsDeleted, p.TerminateCalls)
	}
	if app.Window() != nil || app.IsReady() {
		t.Error("handles survived Destroy")
	}
}

func TestRunQuit(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	p.Queue(core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT})

	if code := app.Run(); code != ExitSuccess {
		t.Errorf("Run() = %d, want %d", code, ExitSuccess)
	}
	if g.loops != 0 {
		t.Errorf("Loop called %d times after quit", g.loops)
	}
	if g.shutdowns != 1 || p.LiveWindows() != 0 {
		t.Errorf("shutdowns=%d live windows=%d", g.shutdowns, p.LiveWindows())
	}
}

func TestRunFocusReleaseAndRestore(t *testing.T) {
	var firstFrame time.Duration
	g := &testGame{}
	g.onLoop = func(app *Application, frame int) {
		if frame == 1 {
			firstFrame = app.FrameTime()
		}
		if frame == 3 {
			app.Quit()
		}
	}
	app, p, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	// a second passes while the window is in the background
	p.WaitStep = time.Second
	p.Queue(
		core.Event{Code: core.EVENT_CODE_FOCUS_LOST},
		core.Event{Code: core.EVENT_CODE_FOCUS_LOST},
	)
	p.OnWait(
		core.Event{Code: core.EVENT_CODE_FOCUS_GAINED},
		core.Event{Code: core.EVENT_CODE_FOCUS_GAINED},
	)

	if code := app.Run(); code != ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	if g.releases != 1 || g.restores != 1 {
		t.Errorf("releases=%d restores=%d, want 1 each", g.releases, g.restores)
	}
	if p.WaitCalls != 1 {
		t.Errorf("WaitEvents called %d times, want 1", p.WaitCalls)
	}
	if g.loops != 3 {
		t.Errorf("loops = %d, want 3", g.loops)
	}
	if firstFrame >= 100*time.Millisecond {
		t.Errorf("first frame after restore took %s, the timer was not re-marked", firstFrame)
	}
}

func TestRunReleaseFailureStops(t *testing.T) {
	g := &testGame{releaseErr: errors.New("lost device")}
	app, p, r := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	p.Queue(core.Event{Code: core.EVENT_CODE_FOCUS_LOST})

	if code := app.Run(); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if !r.has(core.ErrGameHook) {
		t.Error("release failure was not reported")
	}
}

func TestRunRestoreFailureStops(t *testing.T) {
	g := &testGame{restoreErr: errors.New("device gone")}
	app, p, r := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	activeOnRestore := true
	app.Events().Register(core.EVENT_CODE_FOCUS_GAINED, t, func(ev core.Event, l interface{}) bool {
		activeOnRestore = app.IsActive()
		return false
	})
	p.Queue(core.Event{Code: core.EVENT_CODE_FOCUS_LOST})
	p.OnWait(core.Event{Code: core.EVENT_CODE_FOCUS_GAINED})

	if code := app.Run(); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if !r.has(core.ErrGameHook) {
		t.Error("restore failure was not reported")
	}
	if activeOnRestore {
		t.Error("application became active although Restore failed")
	}
	if g.loops != 0 {
		t.Errorf("loops = %d, want none after a failed restore", g.loops)
	}
}

func TestRunLoopFailure(t *testing.T) {
	g := &testGame{failLoopAt: 5}
	app, p, r := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	if code := app.Run(); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if g.loops != 5 {
		t.Errorf("loops = %d, want 5", g.loops)
	}
	if p.Swaps != 4 {
		t.Errorf("swaps = %d, want 4", p.Swaps)
	}
	if g.shutdowns != 1 || p.WindowsDestroyed != 1 {
		t.Errorf("shutdowns=%d destroyed=%d, want a single Destroy", g.shutdowns, p.WindowsDestroyed)
	}
	if !r.has(core.ErrGameHook) {
		t.Error("loop failure was not reported")
	}
}

func TestRunPacesFrames(t *testing.T) {
	var frameTimes []time.Duration
	g := &testGame{}
	g.onLoop = func(app *Application, frame int) {
		frameTimes = append(frameTimes, app.FrameTime())
		if frame == 10 {
			app.Quit()
		}
	}
	app, p, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	app.Run()

	wait := time.Duration(float64(time.Second) / 60)
	for i, ft := range frameTimes {
		if ft < wait {
			t.Errorf("frame %d ran after %s, want at least %s", i, ft, wait)
		}
	}
	if p.Slept == 0 {
		t.Error("Run never slept between frames")
	}
}

func TestRunUnpacedNeverSleeps(t *testing.T) {
	g := &testGame{onLoop: quitAfter(10)}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	app.Run()

	if g.loops != 10 {
		t.Errorf("loops = %d, want 10", g.loops)
	}
	if p.Slept != 0 {
		t.Errorf("slept %s with pacing disabled", p.Slept)
	}
}

func TestRunWithoutCreate(t *testing.T) {
	g := &testGame{}
	app, _, r := newTestApp(g, 60)

	if code := app.Run(); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if !r.has(core.ErrNotReady) {
		t.Error("ErrNotReady was not reported")
	}
	if g.loops != 0 {
		t.Error("Loop ran without a window")
	}
}

func TestRunPausedSkipsFrames(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	app.Pause(true)

	app.Run()

	if g.loops != 0 {
		t.Errorf("Loop ran %d times while paused", g.loops)
	}
	if p.WaitCalls == 0 {
		t.Error("paused application did not wait for events")
	}
}

func TestSetMode(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	before := app.Window().ID()

	if err := app.SetMode(800, 600, 16, true); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	want := config.Display{Width: 800, Height: 600, Depth: 16, Windowed: true}
	if app.Display() != want {
		t.Errorf("Display() = %s, want %s", app.Display(), want)
	}
	if g.shutdowns != 1 || g.inits != 2 {
		t.Errorf("shutdowns=%d inits=%d, want 1 and 2", g.shutdowns, g.inits)
	}
	if p.LiveWindows() != 1 || p.LiveContexts() != 1 || p.WindowsCreated != 2 {
		t.Errorf("live windows=%d contexts=%d created=%d", p.LiveWindows(), p.LiveContexts(), p.WindowsCreated)
	}
	if app.Window().ID() == before {
		t.Error("window ID did not change with the new mode")
	}
}

func TestSetModeRollsBack(t *testing.T) {
	app, p, r := newTestApp(&testGame{}, 60)
	p.FailWindow = func(c platform.WindowConfig) error {
		if c.Width == 1024 {
			return mock.ErrInjected
		}
		return nil
	}
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	before := app.Window().ID()

	err := app.SetMode(1024, 768, 32, true)
	if !errors.Is(err, core.ErrModeChange) {
		t.Fatalf("SetMode() error = %v, want ErrModeChange", err)
	}
	if !app.IsReady() || app.Width() != 640 || app.Height() != 480 {
		t.Errorf("ready=%v display=%s, want the previous mode", app.IsReady(), app.Display())
	}
	// the previous mode gets a fresh window of the old size
	restored := app.Window()
	if restored == nil || restored.ID() == before {
		t.Fatal("rollback did not recreate the window")
	}
	if w, h := restored.Size(); w != 640 || h != 480 {
		t.Errorf("restored window size = %dx%d, want 640x480", w, h)
	}
	if len(p.Requests) != 3 || p.Requests[2].Width != 640 {
		t.Errorf("Requests = %+v", p.Requests)
	}
	if p.LiveWindows() != 1 {
		t.Errorf("live windows = %d", p.LiveWindows())
	}
	if !r.has(core.ErrModeChange) {
		t.Error("mode change failure was not reported")
	}
}

func TestSetModeRollbackFailure(t *testing.T) {
	app, p, _ := newTestApp(&testGame{}, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	p.FailWindow = func(platform.WindowConfig) error { return mock.ErrInjected }

	if err := app.SetMode(1024, 768, 32, true); !errors.Is(err, core.ErrModeChange) {
		t.Fatalf("SetMode() error = %v", err)
	}
	if app.IsReady() || app.Window() != nil {
		t.Error("application is ready without a window")
	}
	if p.LiveWindows() != 0 || p.Initialized() {
		t.Error("resources leaked after a failed rollback")
	}
}

func TestSetModeUsesModeChanger(t *testing.T) {
	g := &changerGame{}
	app, _, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	if err := app.SetMode(640, 480, 32, false); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	if g.changing != 1 || g.changed != 1 {
		t.Errorf("changing=%d changed=%d, want 1 each", g.changing, g.changed)
	}
	if g.inits != 1 || g.shutdowns != 0 {
		t.Errorf("inits=%d shutdowns=%d, want the game kept alive", g.inits, g.shutdowns)
	}
}

func TestSetModeChangingFailureKeepsMode(t *testing.T) {
	g := &changerGame{changingErr: errors.New("busy")}
	app, p, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	if err := app.SetMode(800, 600, 32, true); !errors.Is(err, core.ErrGameHook) {
		t.Fatalf("SetMode() error = %v, want ErrGameHook", err)
	}
	if !app.IsReady() || app.Width() != 640 || p.WindowsCreated != 1 {
		t.Error("mode changed although the game refused")
	}
}

func TestSetModeBeforeCreate(t *testing.T) {
	g := &testGame{}
	app, _, _ := newTestApp(g, 60)

	if err := app.SetMode(800, 600, 32, true); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	if !app.IsReady() || g.inits != 1 || g.shutdowns != 0 {
		t.Errorf("ready=%v inits=%d shutdowns=%d", app.IsReady(), g.inits, g.shutdowns)
	}
}

func TestAltEnterTogglesMode(t *testing.T) {
	g := &togglerGame{}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	forwarded := 0
	app.Events().Register(core.EVENT_CODE_KEY_PRESSED, t, func(core.Event, interface{}) bool {
		forwarded++
		return true
	})
	p.Queue(
		core.Event{Code: core.EVENT_CODE_KEY_PRESSED, Key: core.KEY_ENTER, Mods: core.MOD_ALT},
		core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT},
	)

	app.Run()

	if g.toggles != 1 {
		t.Errorf("OnChangeMode called %d times", g.toggles)
	}
	if len(p.Requests) != 2 || !p.Requests[1].Fullscreen {
		t.Errorf("Requests = %+v, want a fullscreen window", p.Requests)
	}
	if forwarded != 0 {
		t.Error("Alt+Enter reached the game's listeners")
	}
}

func TestAltXQuits(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	p.Queue(core.Event{Code: core.EVENT_CODE_KEY_PRESSED, Key: core.KEY_X, Mods: core.MOD_ALT})

	if code := app.Run(); code != ExitSuccess {
		t.Errorf("Run() = %d", code)
	}
	if g.loops != 0 {
		t.Errorf("loops = %d, want 0", g.loops)
	}
}

func TestEventsReachInputAndListeners(t *testing.T) {
	g := &testGame{}
	var downDuringFrame bool
	g.onLoop = func(app *Application, frame int) {
		downDuringFrame = app.Input().IsKeyDown(core.KEY_A)
		app.Quit()
	}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	var got core.KeyCode
	app.Events().Register(core.EVENT_CODE_KEY_PRESSED, t, func(ev core.Event, _ interface{}) bool {
		got = ev.Key
		return true
	})
	p.Queue(core.Event{Code: core.EVENT_CODE_KEY_PRESSED, Key: core.KEY_A})

	app.Run()

	if got != core.KEY_A {
		t.Errorf("listener got key %d, want %d", got, core.KEY_A)
	}
	if !downDuringFrame {
		t.Error("key press was not visible to the frame")
	}
}

func TestWatchConfigAppliesChanges(t *testing.T) {
	g := &testGame{onLoop: quitAfter(1)}
	app, p, _ := newTestApp(g, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Title = "Reloaded"
	cfg.FrameRate = 30
	cfg.LogLevel = "error"
	cfg.Display.Width = 800
	cfg.Display.Height = 600
	updates := make(chan config.Config, 1)
	updates <- cfg
	app.WatchConfig(updates)

	app.Run()

	if app.Title() != "Reloaded" || app.FrameRate() != 30 {
		t.Errorf("title=%q fps=%v", app.Title(), app.FrameRate())
	}
	if len(p.Requests) != 2 {
		t.Fatalf("Requests = %+v, want a recreated window", p.Requests)
	}
	if last := p.Requests[1]; last.Width != 800 || last.Height != 600 || last.Title != "Reloaded" {
		t.Errorf("recreated window = %+v", last)
	}
}

func TestQuitBeforeFocusRegained(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	p.Queue(core.Event{Code: core.EVENT_CODE_FOCUS_LOST})

	// nothing scheduled for WaitEvents, so the mock delivers a quit
	if code := app.Run(); code != ExitSuccess {
		t.Errorf("Run() = %d", code)
	}
	if g.releases != 1 || g.restores != 0 || g.loops != 0 {
		t.Errorf("releases=%d restores=%d loops=%d", g.releases, g.restores, g.loops)
	}
	if app.Stage() != ApplicationStageDestroyed {
		t.Errorf("Stage() = %s", app.Stage())
	}
}

func TestInterruptStopsRun(t *testing.T) {
	g := &testGame{}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	g.onLoop = func(app *Application, frame int) {
		if frame == 2 {
			done := make(chan struct{})
			go func() {
				app.Interrupt()
				close(done)
			}()
			<-done
		}
	}

	if code := app.Run(); code != ExitSuccess {
		t.Errorf("Run() = %d", code)
	}
	if g.loops != 2 {
		t.Errorf("loops = %d, want 2", g.loops)
	}
	if p.Wakes() != 1 {
		t.Errorf("Wake called %d times, want 1", p.Wakes())
	}
}

func TestInterruptAfterRunIsHarmless(t *testing.T) {
	g := &testGame{onLoop: quitAfter(1)}
	app, p, _ := newTestApp(g, 0)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	app.Run()

	done := make(chan struct{})
	go func() {
		app.Interrupt()
		close(done)
	}()
	<-done

	if p.Initialized() {
		t.Fatal("platform still initialized after Run")
	}
	if p.Wakes() != 0 {
		t.Errorf("Wake reached a terminated platform %d times", p.Wakes())
	}
}

func TestPauseToggles(t *testing.T) {
	app, p, _ := newTestApp(&testGame{}, 60)
	if err := app.Create(640, 480, 32, true); err != nil {
		t.Fatal(err)
	}
	frames := app.timer.Metrics().Frames

	app.Pause(true)
	if !app.IsPaused() {
		t.Fatal("IsPaused() = false after Pause(true)")
	}
	p.Advance(time.Second)
	app.Pause(false)

	if app.IsPaused() {
		t.Error("IsPaused() = true after Pause(false)")
	}
	if got := app.timer.GetFrameTime(); got >= 100*time.Millisecond {
		t.Errorf("frame time after resume = %s, the pause was counted", got)
	}
	if got := app.timer.Metrics().Frames; got != frames {
		t.Errorf("resume recorded %d frames, want none", got-frames)
	}
}
