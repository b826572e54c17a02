//go:build !sdl

package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"
	"github.com/spaghettifunk/gamesystem/engine/containers"
	"github.com/spaghettifunk/gamesystem/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type glfwWindow struct {
	id     uuid.UUID
	handle *glfw.Window
}

func (w *glfwWindow) ID() uuid.UUID { return w.id }

func (w *glfwWindow) Size() (int, int) {
	return w.handle.GetSize()
}

type glfwContext struct {
	id     uuid.UUID
	window *glfwWindow
}

func (c *glfwContext) ID() uuid.UUID  { return c.id }
func (c *glfwContext) Window() Window { return c.window }

// GLFWPlatform implements Platform on top of GLFW. Callbacks fire while
// GLFW polls and are buffered as engine events.
type GLFWPlatform struct {
	// mu keeps Wake out of Init and Terminate.
	mu          sync.Mutex
	initialized atomic.Bool
	startTime   time.Time
	events      *containers.RingQueue[core.Event]
}

// New returns the platform selected at build time.
func New() Platform {
	return &GLFWPlatform{
		events: containers.NewRingQueue[core.Event](EventQueueSize),
	}
}

func (p *GLFWPlatform) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized.Load() {
		return nil
	}
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	p.initialized.Store(true)
	p.startTime = time.Now()
	core.LogDebug("GLFW %s initialized", glfw.GetVersionString())
	return nil
}

func (p *GLFWPlatform) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized.Load() {
		return
	}
	p.initialized.Store(false)
	glfw.Terminate()
	p.events.Clear()
}

func (p *GLFWPlatform) DesktopMode() (DisplayMode, error) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return DisplayMode{}, errors.New("no primary monitor")
	}
	vm := monitor.GetVideoMode()
	if vm == nil {
		return DisplayMode{}, errors.New("primary monitor has no video mode")
	}
	return DisplayMode{
		Width:       vm.Width,
		Height:      vm.Height,
		RefreshRate: vm.RefreshRate,
	}, nil
}

func (p *GLFWPlatform) CreateWindow(config WindowConfig) (Window, error) {
	r, g, b, a := ColorBits(config.Depth)

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, ContextVersionMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, ContextVersionMinor)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, DepthBufferBits)
	glfw.WindowHint(glfw.RedBits, r)
	glfw.WindowHint(glfw.GreenBits, g)
	glfw.WindowHint(glfw.BlueBits, b)
	glfw.WindowHint(glfw.AlphaBits, a)

	var monitor *glfw.Monitor
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	handle.SetCloseCallback(p.closeCallback)
	handle.SetFocusCallback(p.focusCallback)
	handle.SetKeyCallback(p.keyCallback)
	handle.SetCharCallback(p.charCallback)
	handle.SetMouseButtonCallback(p.mouseButtonCallback)
	handle.SetCursorPosCallback(p.cursorPosCallback)
	handle.SetScrollCallback(p.scrollCallback)
	handle.SetFramebufferSizeCallback(p.framebufferSizeCallback)

	return &glfwWindow{id: uuid.New(), handle: handle}, nil
}

func (p *GLFWPlatform) DestroyWindow(window Window) {
	if w, ok := window.(*glfwWindow); ok && w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}

func (p *GLFWPlatform) CreateContext(window Window) (Context, error) {
	w, ok := window.(*glfwWindow)
	if !ok || w.handle == nil {
		return nil, errors.New("window was not created by glfw")
	}
	w.handle.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.DetachCurrentContext()
		return nil, fmt.Errorf("failed to load OpenGL %d.%d: %w", ContextVersionMajor, ContextVersionMinor, err)
	}
	return &glfwContext{id: uuid.New(), window: w}, nil
}

func (p *GLFWPlatform) DeleteContext(context Context) {
	if context != nil {
		glfw.DetachCurrentContext()
	}
}

func (p *GLFWPlatform) SetSwapInterval(interval int) error {
	if glfw.GetCurrentContext() == nil {
		return errors.New("no current context")
	}
	glfw.SwapInterval(interval)
	return nil
}

func (p *GLFWPlatform) SwapBuffers(window Window) {
	if w, ok := window.(*glfwWindow); ok && w.handle != nil {
		w.handle.SwapBuffers()
	}
}

func (p *GLFWPlatform) SetTitle(window Window, title string) {
	if w, ok := window.(*glfwWindow); ok && w.handle != nil {
		w.handle.SetTitle(title)
	}
}

func (p *GLFWPlatform) PollEvent() (core.Event, bool) {
	if p.events.IsEmpty() && p.initialized.Load() {
		glfw.PollEvents()
	}
	ev, err := p.events.Dequeue()
	if err != nil {
		return core.Event{}, false
	}
	return ev, true
}

func (p *GLFWPlatform) WaitEvents() {
	if !p.events.IsEmpty() || !p.initialized.Load() {
		return
	}
	glfw.WaitEvents()
}

func (p *GLFWPlatform) PushEvent(event core.Event) {
	p.enqueue(event)
}

// Wake does nothing while GLFW is not initialized, PostEmptyEvent panics
// then.
func (p *GLFWPlatform) Wake() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized.Load() {
		return
	}
	glfw.PostEmptyEvent()
}

func (p *GLFWPlatform) Ticks() time.Duration {
	return time.Since(p.startTime)
}

func (p *GLFWPlatform) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (p *GLFWPlatform) enqueue(event core.Event) {
	if err := p.events.Enqueue(event); err != nil {
		core.LogWarn("event queue full, dropping event %d", event.Code)
	}
}

func (p *GLFWPlatform) closeCallback(w *glfw.Window) {
	p.enqueue(core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT})
}

func (p *GLFWPlatform) focusCallback(w *glfw.Window, focused bool) {
	if focused {
		p.enqueue(core.Event{Code: core.EVENT_CODE_FOCUS_GAINED})
	} else {
		p.enqueue(core.Event{Code: core.EVENT_CODE_FOCUS_LOST})
	}
}

func (p *GLFWPlatform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code := glfwKey(key)
	if code == core.KEY_NONE {
		return
	}
	ev := core.Event{Key: code, Mods: glfwMods(mods)}
	switch action {
	case glfw.Press, glfw.Repeat:
		ev.Code = core.EVENT_CODE_KEY_PRESSED
	case glfw.Release:
		ev.Code = core.EVENT_CODE_KEY_RELEASED
	default:
		return
	}
	p.enqueue(ev)
}

func (p *GLFWPlatform) charCallback(w *glfw.Window, char rune) {
	p.enqueue(core.Event{Code: core.EVENT_CODE_CHAR, Char: char})
}

func (p *GLFWPlatform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	code := core.EVENT_CODE_BUTTON_PRESSED
	if action == glfw.Release {
		code = core.EVENT_CODE_BUTTON_RELEASED
	}
	p.enqueue(core.Event{Code: code, Button: b, Mods: glfwMods(mods)})
}

func (p *GLFWPlatform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.enqueue(core.Event{Code: core.EVENT_CODE_MOUSE_MOVED, X: int32(xpos), Y: int32(ypos)})
}

func (p *GLFWPlatform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.enqueue(core.Event{Code: core.EVENT_CODE_MOUSE_WHEEL, WheelDelta: int8(yoff)})
}

func (p *GLFWPlatform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.enqueue(core.Event{Code: core.EVENT_CODE_RESIZED, Width: width, Height: height})
}

var glfwKeys = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyKPEnter:      core.KEY_ENTER,
	glfw.KeyLeftShift:    core.KEY_SHIFT,
	glfw.KeyRightShift:   core.KEY_SHIFT,
	glfw.KeyLeftControl:  core.KEY_CONTROL,
	glfw.KeyRightControl: core.KEY_CONTROL,
	glfw.KeyLeftAlt:      core.KEY_MENU,
	glfw.KeyRightAlt:     core.KEY_MENU,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyCapsLock:     core.KEY_CAPITAL,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyPageUp:       core.KEY_PRIOR,
	glfw.KeyPageDown:     core.KEY_NEXT,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
}

func glfwKey(key glfw.Key) core.KeyCode {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KEY_A + core.KeyCode(key-glfw.KeyA)
	case key >= glfw.Key0 && key <= glfw.Key9:
		return core.KEY_0 + core.KeyCode(key-glfw.Key0)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1)
	}
	return glfwKeys[key]
}

func glfwMods(mods glfw.ModifierKey) core.Modifier {
	var m core.Modifier
	if mods&glfw.ModShift != 0 {
		m |= core.MOD_SHIFT
	}
	if mods&glfw.ModControl != 0 {
		m |= core.MOD_CONTROL
	}
	if mods&glfw.ModAlt != 0 {
		m |= core.MOD_ALT
	}
	if mods&glfw.ModSuper != 0 {
		m |= core.MOD_SUPER
	}
	return m
}
