package platform

import (
	"time"

	"github.com/google/uuid"
	"github.com/spaghettifunk/gamesystem/engine/core"
)

const (
	// The rendering context requested from every backend.
	ContextVersionMajor = 2
	ContextVersionMinor = 1
	DepthBufferBits     = 16

	// Events buffered between two pumps before new ones get dropped.
	EventQueueSize = 256
)

// DisplayMode describes a monitor resolution.
type DisplayMode struct {
	Width       int
	Height      int
	RefreshRate int
}

// WindowConfig is what the application asks a backend for.
type WindowConfig struct {
	Title      string
	Width      int
	Height     int
	Depth      int
	Fullscreen bool
}

// Window is an owned native window.
type Window interface {
	ID() uuid.UUID
	Size() (int, int)
}

// Context is an owned rendering context bound to a Window.
type Context interface {
	ID() uuid.UUID
	Window() Window
}

// Platform abstracts the host windowing system. Everything but Wake must be
// called from the goroutine that called Init, which must be locked to the
// main OS thread.
type Platform interface {
	// Init acquires the video and event subsystems.
	Init() error
	// Terminate releases the subsystems. Safe to call when not initialized.
	Terminate()
	// DesktopMode returns the native resolution of the primary display.
	DesktopMode() (DisplayMode, error)

	CreateWindow(config WindowConfig) (Window, error)
	DestroyWindow(window Window)
	// CreateContext creates a rendering context for the window and makes it
	// current.
	CreateContext(window Window) (Context, error)
	DeleteContext(context Context)
	SetSwapInterval(interval int) error
	SwapBuffers(window Window)
	SetTitle(window Window, title string)

	// PollEvent returns the next pending event without blocking.
	PollEvent() (core.Event, bool)
	// WaitEvents blocks until an event is pending or Wake is called. It
	// does not consume the event.
	WaitEvents()
	// PushEvent appends an event to the queue.
	PushEvent(event core.Event)
	// Wake unblocks WaitEvents. Safe to call from any goroutine.
	Wake()

	// Ticks is a monotonic tick count.
	Ticks() time.Duration
	Sleep(d time.Duration)
}

// ColorBits splits a colour depth into red, green, blue and alpha bits.
func ColorBits(depth int) (r, g, b, a int) {
	switch depth {
	case 16:
		return 5, 6, 5, 0
	case 24:
		return 8, 8, 8, 0
	default:
		return 8, 8, 8, 8
	}
}
