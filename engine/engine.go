package engine

import (
	"errors"
	"time"

	"github.com/spaghettifunk/gamesystem/engine/config"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/spaghettifunk/gamesystem/engine/platform"
)

// Create opens the window and rendering context and runs Game.Init.
// A non-positive width or height and a depth other than 16, 24 or 32 fall
// back to the defaults. Fullscreen always uses the desktop resolution.
func (a *Application) Create(width, height, depth int, windowed bool) error {
	if a.ready {
		return a.report(core.ErrAlreadyInitialized, "Application already created!", nil)
	}
	d := config.Display{Width: width, Height: height, Depth: depth, Windowed: windowed}
	if err := a.acquire(d.Normalize()); err != nil {
		return err
	}
	if err := a.game.Init(a); err != nil {
		a.park()
		return a.report(core.ErrGameHook, "Failed to initialize game!", err)
	}
	a.start()
	return nil
}

// Destroy runs Game.Shutdown and releases the context, the window and the
// platform subsystems. Calling it again is harmless.
func (a *Application) Destroy() {
	if err := a.game.Shutdown(); err != nil {
		a.report(core.ErrGameHook, "Failed to shut down game!", err)
	}
	a.release()
	a.destroyed = true
}

// SetMode recreates the window with a new display mode. If that fails the
// previous mode is recreated and ErrModeChange is returned either way.
// Before the first Create it behaves like Create.
func (a *Application) SetMode(width, height, depth int, windowed bool) error {
	if !a.ready {
		return a.Create(width, height, depth, windowed)
	}
	previous := a.Display()
	requested := config.Display{Width: width, Height: height, Depth: depth, Windowed: windowed}.Normalize()
	core.LogInfo("changing display mode from %s to %s", previous, requested)

	changer, _ := a.game.(ModeChanger)
	if changer != nil {
		if err := changer.ModeChanging(); err != nil {
			return a.report(core.ErrGameHook, "Failed to prepare game for mode change!", err)
		}
	} else if err := a.game.Shutdown(); err != nil {
		a.report(core.ErrGameHook, "Failed to shut down game!", err)
	}
	a.release()

	err := a.recreate(requested, changer)
	if err == nil {
		return nil
	}
	modeErr := a.report(core.ErrModeChange, "Failed to change display mode, using old settings!", err)
	if rollbackErr := a.recreate(previous, changer); rollbackErr != nil {
		a.report(core.ErrModeChange, "Failed to restore the previous display mode!", rollbackErr)
		return errors.Join(modeErr, rollbackErr)
	}
	return modeErr
}

// OnChangeMode forwards a mode change request to the game.
func (a *Application) OnChangeMode() {
	toggler, ok := a.game.(ModeToggler)
	if !ok {
		core.LogDebug("mode change requested but the game does not handle it")
		return
	}
	toggler.OnChangeMode(a)
}

// Run pumps events and renders frames at the target frame rate until a quit
// event arrives or a hook fails, then calls Destroy. It returns the process
// exit code.
//
// While the window is unfocused or paused Run blocks waiting for events.
// Without a window, after a failed Create or SetMode, it reports ErrNotReady
// and returns ExitFailure instead of blocking forever.
func (a *Application) Run() int {
	a.running = true
	a.exitCode = ExitSuccess

	for a.running {
		a.pump()
		if !a.running {
			break
		}
		switch {
		case a.ready && a.active && !a.paused:
			a.frame()
		case a.ready:
			a.platform.WaitEvents()
		default:
			a.report(core.ErrNotReady, "No window to run the game in!", nil)
			a.stop(ExitFailure)
		}
	}

	a.Destroy()
	return a.exitCode
}

func (a *Application) stop(code int) {
	if a.running && code > a.exitCode {
		a.exitCode = code
	}
	a.running = false
}

func (a *Application) pump() {
	if a.interrupted.Swap(false) {
		core.LogInfo("Interrupted, shutting down.")
		a.stop(ExitSuccess)
		return
	}
	for {
		ev, ok := a.platform.PollEvent()
		if !ok {
			break
		}
		a.handle(ev)
		if !a.running {
			return
		}
	}
	a.drainConfig()
}

func (a *Application) handle(ev core.Event) {
	switch ev.Code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		a.stop(ExitSuccess)
	case core.EVENT_CODE_FOCUS_LOST:
		if a.ready && a.active {
			core.LogInfo("Window lost focus, suspending application.")
			a.active = false
			a.input.Reset()
			if err := a.game.Release(); err != nil {
				a.report(core.ErrGameHook, "Failed to release game resources!", err)
				a.stop(ExitFailure)
			}
		}
	case core.EVENT_CODE_FOCUS_GAINED:
		if a.ready && !a.active {
			core.LogInfo("Window regained focus, resuming application.")
			if err := a.game.Restore(); err != nil {
				a.report(core.ErrGameHook, "Failed to restore game resources!", err)
				a.stop(ExitFailure)
			} else {
				a.active = true
				a.timer.Reset()
			}
		}
	case core.EVENT_CODE_KEY_PRESSED:
		if ev.Mods.Has(core.MOD_ALT) {
			switch ev.Key {
			case core.KEY_ENTER:
				a.OnChangeMode()
				return
			case core.KEY_X:
				a.Quit()
				return
			}
		}
	case core.EVENT_CODE_RESIZED:
		if a.windowed && ev.Width > 0 && ev.Height > 0 {
			core.LogDebug("Window resize: %d, %d", ev.Width, ev.Height)
			a.width, a.height = ev.Width, ev.Height
		}
	}

	a.input.Process(ev)
	a.events.Fire(ev)
}

func (a *Application) frame() {
	elapsed := a.timer.GetFrameTime()
	if elapsed < a.waitTime {
		// give the time back to the OS
		a.platform.Sleep(time.Millisecond)
		return
	}
	a.frameTime = elapsed
	a.timer.MarkFrame()

	if err := a.game.Loop(); err != nil {
		a.report(core.ErrGameHook, "Error running main game loop!", err)
		a.stop(ExitFailure)
		return
	}

	// input is the last thing updated before the frame ends
	a.input.Update()
	if a.window != nil {
		a.platform.SwapBuffers(a.window)
	}
}

// acquire initializes the platform and creates the window and context for
// d. On failure everything acquired so far is released again.
func (a *Application) acquire(d config.Display) error {
	// a failed Game.Init can leave handles behind
	a.release()

	if err := a.platform.Init(); err != nil {
		return a.report(core.ErrSubsystemInit, "Failed to initialize platform!", err)
	}
	a.subsystem = true

	if !d.Windowed {
		mode, err := a.platform.DesktopMode()
		if err != nil {
			core.LogWarn("unable to query the desktop mode, using %dx%d: %s", d.Width, d.Height, err)
		} else {
			d.Width, d.Height = mode.Width, mode.Height
		}
	}

	window, err := a.platform.CreateWindow(platform.WindowConfig{
		Title:      a.title,
		Width:      d.Width,
		Height:     d.Height,
		Depth:      d.Depth,
		Fullscreen: !d.Windowed,
	})
	if err != nil {
		a.release()
		return a.report(core.ErrResourceCreation, "Failed to create window!", err)
	}
	context, err := a.platform.CreateContext(window)
	if err != nil {
		a.platform.DestroyWindow(window)
		a.release()
		return a.report(core.ErrResourceCreation, "Failed to create rendering context!", err)
	}
	if err := a.platform.SetSwapInterval(1); err != nil {
		core.LogWarn("vertical sync unavailable: %s", err)
	}

	core.LogDebug("created window %s with context %s", window.ID(), context.ID())
	a.window, a.context = window, context
	a.width, a.height, a.depth, a.windowed = d.Width, d.Height, d.Depth, d.Windowed
	return nil
}

// recreate acquires d and runs ModeChanged, or Init for games that do not
// implement ModeChanger.
func (a *Application) recreate(d config.Display, changer ModeChanger) error {
	if err := a.acquire(d); err != nil {
		return err
	}
	var err error
	if changer != nil {
		err = changer.ModeChanged()
	} else {
		err = a.game.Init(a)
	}
	if err != nil {
		a.park()
		return a.report(core.ErrGameHook, "Failed to restore game after mode change!", err)
	}
	a.start()
	return nil
}

// park keeps the handles of a failed start for Destroy to release.
func (a *Application) park() {
	a.pendingWindow, a.pendingContext = a.window, a.context
	a.window, a.context = nil, nil
	a.ready, a.active = false, false
}

func (a *Application) start() {
	a.ready, a.active = true, true
	a.destroyed = false
	a.input.Reset()
	a.timer.Reset()
	core.LogInfo("Application ready: %s, window %s", a.Display(), a.window.ID())
}

func (a *Application) release() {
	a.ready, a.active = false, false
	if a.context != nil {
		a.platform.DeleteContext(a.context)
	}
	if a.pendingContext != nil {
		a.platform.DeleteContext(a.pendingContext)
	}
	if a.window != nil {
		core.LogDebug("destroying window %s", a.window.ID())
		a.platform.DestroyWindow(a.window)
	}
	if a.pendingWindow != nil {
		core.LogDebug("destroying window %s kept after a failed start", a.pendingWindow.ID())
		a.platform.DestroyWindow(a.pendingWindow)
	}
	a.window, a.context = nil, nil
	a.pendingWindow, a.pendingContext = nil, nil
	if a.subsystem {
		a.platform.Terminate()
		a.subsystem = false
	}
}
