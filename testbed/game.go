package testbed

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/spaghettifunk/gamesystem/engine"
	"github.com/spaghettifunk/gamesystem/engine/core"
	"github.com/spaghettifunk/gamesystem/engine/math"
)

const (
	blockSize  = 32
	blockSpeed = 240.0 // pixels per second
	hueSpeed   = 0.1   // colour cycles per second
)

// TestGame draws a colour cycling background with a block moved by the
// arrow keys or WASD. Esc quits, P pauses and Alt+Enter toggles
// fullscreen.
type TestGame struct {
	app   *engine.Application
	state *gameState
}

type gameState struct {
	position math.Vec2
	hue      float32
	frames   uint64

	// windowed size to return to when leaving fullscreen
	windowedWidth  int
	windowedHeight int
}

func NewTestGame() *TestGame {
	return &TestGame{
		state: &gameState{},
	}
}

func (g *TestGame) Init(app *engine.Application) error {
	core.LogDebug("TestGame Init fn....")
	g.app = app
	g.state.position = math.NewVec2(
		float32(app.Width()-blockSize)/2,
		float32(app.Height()-blockSize)/2,
	)

	app.Events().Register(core.EVENT_CODE_KEY_PRESSED, g, g.onKey)
	app.Events().Register(core.EVENT_CODE_RESIZED, g, g.onResized)

	return g.setupView()
}

func (g *TestGame) Loop() error {
	dt := float32(g.app.FrameTime().Seconds())
	g.state.update(dt, g.app.Input(), g.app.Width(), g.app.Height())
	return g.draw()
}

func (g *TestGame) Release() error {
	core.LogDebug("TestGame released after %d frames", g.state.frames)
	return nil
}

func (g *TestGame) Restore() error {
	return g.setupView()
}

func (g *TestGame) Shutdown() error {
	if g.app == nil {
		return nil
	}
	g.app.Events().Unregister(core.EVENT_CODE_KEY_PRESSED, g)
	g.app.Events().Unregister(core.EVENT_CODE_RESIZED, g)
	g.app.ShowFrameRate()
	return nil
}

func (g *TestGame) ModeChanging() error {
	core.LogDebug("TestGame keeping state across mode change")
	return nil
}

func (g *TestGame) ModeChanged() error {
	g.state.keepInside(g.app.Width(), g.app.Height())
	return g.setupView()
}

func (g *TestGame) OnChangeMode(app *engine.Application) {
	width, height := app.Width(), app.Height()
	if app.IsWindowed() {
		g.state.windowedWidth, g.state.windowedHeight = width, height
	} else if g.state.windowedWidth > 0 {
		width, height = g.state.windowedWidth, g.state.windowedHeight
	}
	// errors are reported by the application
	_ = app.SetMode(width, height, app.ColorDepth(), !app.IsWindowed())
}

func (g *TestGame) onKey(event core.Event, listener interface{}) bool {
	switch event.Key {
	case core.KEY_ESCAPE:
		g.app.Quit()
		// Block anything else from processing this.
		return true
	case core.KEY_P:
		g.app.Pause(!g.app.IsPaused())
		core.LogInfo("paused: %v", g.app.IsPaused())
		return true
	}
	return false
}

func (g *TestGame) onResized(event core.Event, listener interface{}) bool {
	if err := g.setupView(); err != nil {
		core.LogError(err.Error())
	}
	return false
}

// update moves the block from the held keys and advances the colour.
func (s *gameState) update(dt float32, input *core.InputState, width, height int) {
	var dir math.Vec2
	if input.IsKeyDown(core.KEY_LEFT) || input.IsKeyDown(core.KEY_A) {
		dir.X--
	}
	if input.IsKeyDown(core.KEY_RIGHT) || input.IsKeyDown(core.KEY_D) {
		dir.X++
	}
	if input.IsKeyDown(core.KEY_UP) || input.IsKeyDown(core.KEY_W) {
		dir.Y--
	}
	if input.IsKeyDown(core.KEY_DOWN) || input.IsKeyDown(core.KEY_S) {
		dir.Y++
	}
	s.position = s.position.Add(dir.Normalized().Scale(blockSpeed * dt))
	s.keepInside(width, height)

	s.hue += hueSpeed * dt
	if s.hue >= 1 {
		s.hue -= 1
	}
	s.frames++
}

func (s *gameState) keepInside(width, height int) {
	limit := math.NewVec2(float32(width-blockSize), float32(height-blockSize))
	s.position = s.position.ClampTo(math.NewVec2(0, 0), limit)
}

func (g *TestGame) setupView() error {
	w, h := g.app.Width(), g.app.Height()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(w), float64(h), 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	gl.Disable(gl.DEPTH_TEST)
	return glError("setting up the view")
}

func (g *TestGame) draw() error {
	bg := math.Hue(g.state.hue)
	gl.ClearColor(bg.R*0.3, bg.G*0.3, bg.B*0.3, bg.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	fg := math.Hue(g.state.hue + 0.5)
	x, y := g.state.position.X, g.state.position.Y
	gl.Color4f(fg.R, fg.G, fg.B, fg.A)
	gl.Begin(gl.QUADS)
	gl.Vertex2f(x, y)
	gl.Vertex2f(x+blockSize, y)
	gl.Vertex2f(x+blockSize, y+blockSize)
	gl.Vertex2f(x, y+blockSize)
	gl.End()
	return glError("drawing the frame")
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error 0x%x while %s", code, op)
	}
	return nil
}
