// Package mock provides a scripted Platform for driving the application
// without a display.
package mock

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spaghettifunk/gamesystem/engine/containers"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/spaghettifunk/gamesystem/engine/platform"
)

var ErrInjected = errors.New("injected failure")

type Window struct {
	id     uuid.UUID
	Config platform.WindowConfig
}

func (w *Window) ID() uuid.UUID     { return w.id }
func (w *Window) Size() (int, int) { return w.Config.Width, w.Config.Height }

type Context struct {
	id     uuid.UUID
	window *Window
}

func (c *Context) ID() uuid.UUID           { return c.id }
func (c *Context) Window() platform.Window { return c.window }

// Platform records every call and replays queued events. Ticks advances the
// clock by Step on every call so frame pacing makes progress without real
// time passing.
type Platform struct {
	Desktop  platform.DisplayMode
	Step     time.Duration
	// WaitStep is how far the clock moves while WaitEvents blocks.
	WaitStep time.Duration

	FailInit    error
	FailDesktop error
	FailContext error
	// FailWindow, when set, decides per request whether window creation fails.
	FailWindow func(config platform.WindowConfig) error

	InitCalls        int
	TerminateCalls   int
	WindowsCreated   int
	WindowsDestroyed int
	ContextsCreated  int
	ContextsDeleted  int
	Swaps            int
	WaitCalls        int
	SwapInterval     int
	Title            string
	Slept            time.Duration

	// Requests lists every window config asked for, failed ones included.
	Requests []platform.WindowConfig

	initialized atomic.Bool
	now         time.Duration
	events      *containers.RingQueue[core.Event]
	onWait      [][]core.Event
	wakes       atomic.Int64
}

func New() *Platform {
	return &Platform{
		Desktop: platform.DisplayMode{Width: 1920, Height: 1080, RefreshRate: 60},
		Step:    time.Millisecond,
		events:  containers.NewRingQueue[core.Event](platform.EventQueueSize),
	}
}

// Queue makes events available to the next PollEvent calls.
func (p *Platform) Queue(events ...core.Event) {
	for _, ev := range events {
		p.PushEvent(ev)
	}
}

// OnWait schedules a batch of events that is released by the next
// WaitEvents call. Batches are released in order.
func (p *Platform) OnWait(events ...core.Event) {
	p.onWait = append(p.onWait, events)
}

// Advance moves the clock forward.
func (p *Platform) Advance(d time.Duration) {
	p.now += d
}

func (p *Platform) Initialized() bool { return p.initialized.Load() }

// LiveWindows is the number of windows created and not yet destroyed.
func (p *Platform) LiveWindows() int { return p.WindowsCreated - p.WindowsDestroyed }

// LiveContexts is the number of contexts created and not yet deleted.
func (p *Platform) LiveContexts() int { return p.ContextsCreated - p.ContextsDeleted }

func (p *Platform) Wakes() int { return int(p.wakes.Load()) }

func (p *Platform) Init() error {
	p.InitCalls++
	if p.FailInit != nil {
		return p.FailInit
	}
	p.initialized.Store(true)
	return nil
}

func (p *Platform) Terminate() {
	p.TerminateCalls++
	p.initialized.Store(false)
}

func (p *Platform) DesktopMode() (platform.DisplayMode, error) {
	if p.FailDesktop != nil {
		return platform.DisplayMode{}, p.FailDesktop
	}
	return p.Desktop, nil
}

func (p *Platform) CreateWindow(config platform.WindowConfig) (platform.Window, error) {
	p.Requests = append(p.Requests, config)
	if !p.initialized.Load() {
		return nil, errors.New("platform not initialized")
	}
	if p.FailWindow != nil {
		if err := p.FailWindow(config); err != nil {
			return nil, err
		}
	}
	p.WindowsCreated++
	p.Title = config.Title
	return &Window{id: uuid.New(), Config: config}, nil
}

func (p *Platform) DestroyWindow(window platform.Window) {
	if window != nil {
		p.WindowsDestroyed++
	}
}

func (p *Platform) CreateContext(window platform.Window) (platform.Context, error) {
	if p.FailContext != nil {
		return nil, p.FailContext
	}
	w, ok := window.(*Window)
	if !ok {
		return nil, errors.New("window was not created by the mock platform")
	}
	p.ContextsCreated++
	return &Context{id: uuid.New(), window: w}, nil
}

func (p *Platform) DeleteContext(context platform.Context) {
	if context != nil {
		p.ContextsDeleted++
	}
}

func (p *Platform) SetSwapInterval(interval int) error {
	p.SwapInterval = interval
	return nil
}

func (p *Platform) SwapBuffers(window platform.Window) {
	p.Swaps++
}

func (p *Platform) SetTitle(window platform.Window, title string) {
	p.Title = title
}

func (p *Platform) PollEvent() (core.Event, bool) {
	ev, err := p.events.Dequeue()
	if err != nil {
		return core.Event{}, false
	}
	return ev, true
}

// WaitEvents releases the next OnWait batch. With nothing left to deliver
// it queues a quit event, since a real platform would block forever.
func (p *Platform) WaitEvents() {
	p.WaitCalls++
	p.now += p.WaitStep
	if !p.events.IsEmpty() {
		return
	}
	if len(p.onWait) > 0 {
		batch := p.onWait[0]
		p.onWait = p.onWait[1:]
		p.Queue(batch...)
		return
	}
	p.PushEvent(core.Event{Code: core.EVENT_CODE_APPLICATION_QUIT})
}

func (p *Platform) PushEvent(event core.Event) {
	if err := p.events.Enqueue(event); err != nil {
		core.LogWarn("mock event queue full, dropping event %d", event.Code)
	}
}

// Wake only counts while the platform is initialized, like the real
// backends.
func (p *Platform) Wake() {
	if !p.initialized.Load() {
		return
	}
	p.wakes.Add(1)
}

func (p *Platform) Ticks() time.Duration {
	p.now += p.Step
	return p.now
}

func (p *Platform) Sleep(d time.Duration) {
	p.Slept += d
	p.now += d
}
