package core

// System event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	EVENT_CODE_NONE EventCode = 0x00

	// Shuts the application down on the next pump.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Key and Mods are set.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Key and Mods are set.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed. Button is set.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released. Button is set.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved. X and Y are set.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Mouse wheel. WheelDelta is set.
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07

	// Resized/resolution changed from the OS. Width and Height are set.
	EVENT_CODE_RESIZED EventCode = 0x08

	// Window lost input focus.
	EVENT_CODE_FOCUS_LOST EventCode = 0x09

	// Window gained input focus.
	EVENT_CODE_FOCUS_GAINED EventCode = 0x0A

	// Text input. Char is set.
	EVENT_CODE_CHAR EventCode = 0x0B

	// Posted by Platform.Wake on backends that wake through the queue.
	EVENT_CODE_WAKE EventCode = 0x0C

	MAX_EVENT_CODE EventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Event is a platform event translated into engine terms.
type Event struct {
	Code       EventCode
	Key        KeyCode
	Mods       Modifier
	Char       rune
	Button     Button
	X          int32
	Y          int32
	WheelDelta int8
	Width      int
	Height     int
}

// Should return true if handled.
type FnOnEvent func(event Event, listener interface{}) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events to registered listeners, in registration order.
type EventBus struct {
	registered map[EventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]*registeredEvent),
	}
}

// Register listens for events with the given code. A listener can only be
// registered once per code; a duplicate returns false.
func (b *EventBus) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	for _, e := range b.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	b.registered[code] = append(b.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister removes the listener from the given code. Returns false if it
// was not registered.
func (b *EventBus) Unregister(code EventCode, listener interface{}) bool {
	events := b.registered[code]
	for i, e := range events {
		if e.listener == listener {
			// Fire may be ranging over the old slice
			kept := make([]*registeredEvent, 0, len(events)-1)
			kept = append(kept, events[:i]...)
			b.registered[code] = append(kept, events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire sends the event to the listeners of its code. If a listener returns
// true the event is considered handled and is not passed on.
func (b *EventBus) Fire(event Event) bool {
	for _, e := range b.registered[event.Code] {
		if e.callback(event, e.listener) {
			return true
		}
	}
	return false
}

// Clear drops every registration.
func (b *EventBus) Clear() {
	b.registered = make(map[EventCode][]*registeredEvent)
}
