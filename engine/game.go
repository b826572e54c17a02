package engine

// Game is the set of hooks the application drives. Every hook runs on the
// goroutine that called Run. A hook error is reported and, except for
// Shutdown, changes the control flow of the caller.
type Game interface {
	// Init runs once the window and rendering context exist. A failure
	// leaves the application not ready.
	Init(app *Application) error
	// Loop renders one frame. A failure stops Run.
	Loop() error
	// Release runs when the window loses focus.
	Release() error
	// Restore runs when the window regains focus.
	Restore() error
	// Shutdown runs before the window and context are destroyed.
	Shutdown() error
}

// ModeChanger lets a game keep its state across SetMode. When implemented,
// SetMode calls ModeChanging before tearing down the context and
// ModeChanged once the new one is current, instead of Shutdown and Init.
type ModeChanger interface {
	ModeChanging() error
	ModeChanged() error
}

// ModeToggler is called when the user asks for a display mode change
// (Alt+Enter). Games without it ignore the request.
type ModeToggler interface {
	OnChangeMode(app *Application)
}
