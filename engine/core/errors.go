package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrSubsystemInit      = errors.New("platform subsystem initialization failed")
	ErrResourceCreation   = errors.New("platform resource creation failed")
	ErrGameHook           = errors.New("game hook failed")
	ErrAlreadyInitialized = errors.New("application already initialized")
	ErrModeChange         = errors.New("display mode change failed")
	ErrNotReady           = errors.New("application is not ready")
)

// Error is a reported failure. Kind is one of the sentinel errors above,
// Location the file and line of the reporting call site.
type Error struct {
	Kind     error
	Location string
	Message  string
	Err      error
}

// NewError builds an Error whose location is the caller of NewError.
func NewError(kind error, message string, cause error) *Error {
	return newErrorAt(2, kind, message, cause)
}

// NewErrorSkip is NewError for helpers that report on behalf of their caller.
func NewErrorSkip(skip int, kind error, message string, cause error) *Error {
	return newErrorAt(skip+2, kind, message, cause)
}

func newErrorAt(skip int, kind error, message string, cause error) *Error {
	location := "unknown"
	if _, file, line, ok := runtime.Caller(skip); ok {
		location = fmt.Sprintf("%s (%d)", strings.ToUpper(filepath.Base(file)), line)
	}
	return &Error{
		Kind:     kind,
		Location: location,
		Message:  message,
		Err:      cause,
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Location, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Reporter is the side channel every Error goes through before it is
// returned to the caller.
type Reporter interface {
	Report(err *Error)
}

type ReporterFunc func(err *Error)

func (f ReporterFunc) Report(err *Error) {
	f(err)
}

// LogReporter writes reports through the engine logger.
type LogReporter struct{}

func (LogReporter) Report(err *Error) {
	if err.Err != nil {
		LogError("%s: %s (%v)", err.Location, err.Message, err.Err)
		return
	}
	LogError("%s: %s", err.Location, err.Message)
}
