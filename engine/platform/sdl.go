//go:build sdl

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/google/uuid"
	"github.com/spaghettifunk/gamesystem/engine/containers"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL video and event calls must run on the main OS thread
	runtime.LockOSThread()
}

type sdlWindow struct {
	id     uuid.UUID
	handle *sdl.Window
}

func (w *sdlWindow) ID() uuid.UUID { return w.id }

func (w *sdlWindow) Size() (int, int) {
	width, height := w.handle.GetSize()
	return int(width), int(height)
}

type sdlContext struct {
	id     uuid.UUID
	window *sdlWindow
	handle sdl.GLContext
}

func (c *sdlContext) ID() uuid.UUID  { return c.id }
func (c *sdlContext) Window() Window { return c.window }

// SDLPlatform implements Platform on top of SDL2. Build with -tags sdl.
type SDLPlatform struct {
	mu          sync.Mutex
	initialized atomic.Bool
	events      *containers.RingQueue[core.Event]
}

// New returns the platform selected at build time.
func New() Platform {
	return &SDLPlatform{
		events: containers.NewRingQueue[core.Event](EventQueueSize),
	}
}

func (p *SDLPlatform) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized.Load() {
		return nil
	}
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	p.initialized.Store(true)
	return nil
}

func (p *SDLPlatform) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized.Load() {
		return
	}
	p.initialized.Store(false)
	sdl.StopTextInput()
	sdl.Quit()
	p.events.Clear()
}

func (p *SDLPlatform) DesktopMode() (DisplayMode, error) {
	dm, err := sdl.GetDesktopDisplayMode(0)
	if err != nil {
		return DisplayMode{}, err
	}
	return DisplayMode{
		Width:       int(dm.W),
		Height:      int(dm.H),
		RefreshRate: int(dm.RefreshRate),
	}, nil
}

func (p *SDLPlatform) CreateWindow(config WindowConfig) (Window, error) {
	r, g, b, a := ColorBits(config.Depth)
	attributes := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, ContextVersionMajor},
		{sdl.GL_CONTEXT_MINOR_VERSION, ContextVersionMinor},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_DEPTH_SIZE, DepthBufferBits},
		{sdl.GL_RED_SIZE, r},
		{sdl.GL_GREEN_SIZE, g},
		{sdl.GL_BLUE_SIZE, b},
		{sdl.GL_ALPHA_SIZE, a},
	}
	for _, at := range attributes {
		if err := sdl.GLSetAttribute(at.attr, at.value); err != nil {
			core.LogWarn("failed to set GL attribute %d: %s", at.attr, err)
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN)
	if config.Fullscreen {
		flags |= uint32(sdl.WINDOW_FULLSCREEN)
	} else {
		flags |= uint32(sdl.WINDOW_RESIZABLE)
	}

	handle, err := sdl.CreateWindow(
		config.Title,
		int32(sdl.WINDOWPOS_CENTERED),
		int32(sdl.WINDOWPOS_CENTERED),
		int32(config.Width),
		int32(config.Height),
		flags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	sdl.StartTextInput()

	return &sdlWindow{id: uuid.New(), handle: handle}, nil
}

func (p *SDLPlatform) DestroyWindow(window Window) {
	if w, ok := window.(*sdlWindow); ok && w.handle != nil {
		if err := w.handle.Destroy(); err != nil {
			core.LogWarn("failed to destroy window %s: %s", w.id, err)
		}
		w.handle = nil
	}
}

func (p *SDLPlatform) CreateContext(window Window) (Context, error) {
	w, ok := window.(*sdlWindow)
	if !ok || w.handle == nil {
		return nil, errors.New("window was not created by sdl")
	}
	handle, err := w.handle.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL context: %w", err)
	}
	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(handle)
		return nil, fmt.Errorf("failed to load OpenGL %d.%d: %w", ContextVersionMajor, ContextVersionMinor, err)
	}
	return &sdlContext{id: uuid.New(), window: w, handle: handle}, nil
}

func (p *SDLPlatform) DeleteContext(context Context) {
	if c, ok := context.(*sdlContext); ok && c.handle != nil {
		sdl.GLDeleteContext(c.handle)
		c.handle = nil
	}
}

func (p *SDLPlatform) SetSwapInterval(interval int) error {
	return sdl.GLSetSwapInterval(interval)
}

func (p *SDLPlatform) SwapBuffers(window Window) {
	if w, ok := window.(*sdlWindow); ok && w.handle != nil {
		w.handle.GLSwap()
	}
}

func (p *SDLPlatform) SetTitle(window Window, title string) {
	if w, ok := window.(*sdlWindow); ok && w.handle != nil {
		w.handle.SetTitle(title)
	}
}

func (p *SDLPlatform) PollEvent() (core.Event, bool) {
	if ev, err := p.events.Dequeue(); err == nil {
		return ev, true
	}
	if !p.initialized.Load() {
		return core.Event{}, false
	}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := translateSDLEvent(event); ok {
			return ev, true
		}
	}
	return core.Event{}, false
}

func (p *SDLPlatform) WaitEvents() {
	if !p.events.IsEmpty() || !p.initialized.Load() {
		return
	}
	// SDL hands the event over, keep it for the next PollEvent.
	if ev, ok := translateSDLEvent(sdl.WaitEvent()); ok {
		p.enqueue(ev)
	}
}

func (p *SDLPlatform) PushEvent(event core.Event) {
	if event.Code == core.EVENT_CODE_APPLICATION_QUIT && p.initialized.Load() {
		if _, err := sdl.PushEvent(&sdl.QuitEvent{Type: sdl.QUIT}); err == nil {
			return
		}
	}
	p.enqueue(event)
}

func (p *SDLPlatform) Wake() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized.Load() {
		return
	}
	if _, err := sdl.PushEvent(&sdl.UserEvent{Type: sdl.USEREVENT}); err != nil {
		core.LogWarn("failed to wake event loop: %s", err)
	}
}

func (p *SDLPlatform) Ticks() time.Duration {
	return time.Duration(sdl.GetTicks()) * time.Millisecond
}

func (p *SDLPlatform) Sleep(d time.Duration) {
	sdl.Delay(uint32(d / time.Millisecond))
}

func (p *SDLPlatform) enqueue(event core.Event) {
	if err := p.events.Enqueue(event); err != nil {
		core.LogWarn("event queue full, dropping event %d", event.Code)
	}
}

func translateSDLEvent(event sdl.Event) (core.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT}, true
	case *sdl.UserEvent:
		return core.Event{Code: core.EVENT_CODE_WAKE}, true
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return core.Event{Code: core.EVENT_CODE_FOCUS_LOST}, true
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			return core.Event{Code: core.EVENT_CODE_FOCUS_GAINED}, true
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return core.Event{Code: core.EVENT_CODE_RESIZED, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_CLOSE:
			return core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT}, true
		}
	case *sdl.KeyboardEvent:
		code := sdlKey(e.Keysym.Sym)
		if code == core.KEY_NONE {
			return core.Event{}, false
		}
		ev := core.Event{Key: code, Mods: sdlMods(uint16(e.Keysym.Mod))}
		if e.Type == sdl.KEYDOWN {
			ev.Code = core.EVENT_CODE_KEY_PRESSED
		} else {
			ev.Code = core.EVENT_CODE_KEY_RELEASED
		}
		return ev, true
	case *sdl.TextInputEvent:
		if text := e.GetText(); text != "" {
			r, _ := utf8.DecodeRuneInString(text)
			return core.Event{Code: core.EVENT_CODE_CHAR, Char: r}, true
		}
	case *sdl.MouseMotionEvent:
		return core.Event{Code: core.EVENT_CODE_MOUSE_MOVED, X: e.X, Y: e.Y}, true
	case *sdl.MouseButtonEvent:
		var b core.Button
		switch e.Button {
		case sdl.BUTTON_LEFT:
			b = core.BUTTON_LEFT
		case sdl.BUTTON_RIGHT:
			b = core.BUTTON_RIGHT
		case sdl.BUTTON_MIDDLE:
			b = core.BUTTON_MIDDLE
		default:
			return core.Event{}, false
		}
		code := core.EVENT_CODE_BUTTON_PRESSED
		if e.Type == sdl.MOUSEBUTTONUP {
			code = core.EVENT_CODE_BUTTON_RELEASED
		}
		return core.Event{Code: code, Button: b}, true
	case *sdl.MouseWheelEvent:
		return core.Event{Code: core.EVENT_CODE_MOUSE_WHEEL, WheelDelta: int8(e.Y)}, true
	}
	return core.Event{}, false
}

var sdlKeys = map[sdl.Keycode]core.KeyCode{
	sdl.K_BACKSPACE: core.KEY_BACKSPACE,
	sdl.K_TAB:       core.KEY_TAB,
	sdl.K_RETURN:    core.KEY_ENTER,
	sdl.K_KP_ENTER:  core.KEY_ENTER,
	sdl.K_LSHIFT:    core.KEY_SHIFT,
	sdl.K_RSHIFT:    core.KEY_SHIFT,
	sdl.K_LCTRL:     core.KEY_CONTROL,
	sdl.K_RCTRL:     core.KEY_CONTROL,
	sdl.K_LALT:      core.KEY_MENU,
	sdl.K_RALT:      core.KEY_MENU,
	sdl.K_PAUSE:     core.KEY_PAUSE,
	sdl.K_CAPSLOCK:  core.KEY_CAPITAL,
	sdl.K_ESCAPE:    core.KEY_ESCAPE,
	sdl.K_SPACE:     core.KEY_SPACE,
	sdl.K_PAGEUP:    core.KEY_PRIOR,
	sdl.K_PAGEDOWN:  core.KEY_NEXT,
	sdl.K_END:       core.KEY_END,
	sdl.K_HOME:      core.KEY_HOME,
	sdl.K_LEFT:      core.KEY_LEFT,
	sdl.K_UP:        core.KEY_UP,
	sdl.K_RIGHT:     core.KEY_RIGHT,
	sdl.K_DOWN:      core.KEY_DOWN,
	sdl.K_INSERT:    core.KEY_INSERT,
	sdl.K_DELETE:    core.KEY_DELETE,
	sdl.K_F1:        core.KEY_F1,
	sdl.K_F2:        core.KEY_F2,
	sdl.K_F3:        core.KEY_F3,
	sdl.K_F4:        core.KEY_F4,
	sdl.K_F5:        core.KEY_F5,
	sdl.K_F6:        core.KEY_F6,
	sdl.K_F7:        core.KEY_F7,
	sdl.K_F8:        core.KEY_F8,
	sdl.K_F9:        core.KEY_F9,
	sdl.K_F10:       core.KEY_F10,
	sdl.K_F11:       core.KEY_F11,
	sdl.K_F12:       core.KEY_F12,
}

func sdlKey(sym sdl.Keycode) core.KeyCode {
	switch {
	case sym >= sdl.K_a && sym <= sdl.K_z:
		return core.KEY_A + core.KeyCode(sym-sdl.K_a)
	case sym >= sdl.K_0 && sym <= sdl.K_9:
		return core.KEY_0 + core.KeyCode(sym-sdl.K_0)
	}
	return sdlKeys[sym]
}

func sdlMods(mod uint16) core.Modifier {
	var m core.Modifier
	if mod&uint16(sdl.KMOD_SHIFT) != 0 {
		m |= core.MOD_SHIFT
	}
	if mod&uint16(sdl.KMOD_CTRL) != 0 {
		m |= core.MOD_CONTROL
	}
	if mod&uint16(sdl.KMOD_ALT) != 0 {
		m |= core.MOD_ALT
	}
	if mod&uint16(sdl.KMOD_GUI) != 0 {
		m |= core.MOD_SUPER
	}
	return m
}
