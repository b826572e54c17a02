package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	MOD_SHIFT Modifier = 1 << iota
	MOD_CONTROL
	MOD_ALT
	MOD_SUPER
)

func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Key code definitions, virtual-key compatible.
type KeyCode uint16

const (
	KEY_NONE      KeyCode = 0x00
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_CONTROL   KeyCode = 0x11
	KEY_MENU      KeyCode = 0x12
	KEY_PAUSE     KeyCode = 0x13
	KEY_CAPITAL   KeyCode = 0x14
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_PRIOR     KeyCode = 0x21
	KEY_NEXT      KeyCode = 0x22
	KEY_END       KeyCode = 0x23
	KEY_HOME      KeyCode = 0x24
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_INSERT    KeyCode = 0x2D
	KEY_DELETE    KeyCode = 0x2E
	KEY_0         KeyCode = 0x30
	KEY_1         KeyCode = 0x31
	KEY_2         KeyCode = 0x32
	KEY_3         KeyCode = 0x33
	KEY_4         KeyCode = 0x34
	KEY_5         KeyCode = 0x35
	KEY_6         KeyCode = 0x36
	KEY_7         KeyCode = 0x37
	KEY_8         KeyCode = 0x38
	KEY_9         KeyCode = 0x39
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEY_F5        KeyCode = 0x74
	KEY_F6        KeyCode = 0x75
	KEY_F7        KeyCode = 0x76
	KEY_F8        KeyCode = 0x77
	KEY_F9        KeyCode = 0x78
	KEY_F10       KeyCode = 0x79
	KEY_F11       KeyCode = 0x7A
	KEY_F12       KeyCode = 0x7B
	KEYS_MAX_KEYS KeyCode = 0x100
)

// Mouse state structure
type MouseState struct {
	X       int32
	Y       int32
	Buttons [BUTTON_MAX_BUTTONS]bool
}

// Keyboard state structure
type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// InputState holds the current and previous keyboard and mouse states. The
// application feeds it from the event pump and rolls it once per frame.
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
}

func NewInputState() *InputState {
	return &InputState{}
}

// Update copies current states to previous states.
func (s *InputState) Update() {
	s.KeyboardPrevious = s.KeyboardCurrent
	s.MousePrevious = s.MouseCurrent
}

// Reset forgets every held key and button, e.g. when focus is lost.
func (s *InputState) Reset() {
	*s = InputState{}
}

// Process records the state carried by an input event. Non-input events are
// ignored.
func (s *InputState) Process(event Event) {
	switch event.Code {
	case EVENT_CODE_KEY_PRESSED:
		s.setKey(event.Key, true)
	case EVENT_CODE_KEY_RELEASED:
		s.setKey(event.Key, false)
	case EVENT_CODE_BUTTON_PRESSED:
		s.setButton(event.Button, true)
	case EVENT_CODE_BUTTON_RELEASED:
		s.setButton(event.Button, false)
	case EVENT_CODE_MOUSE_MOVED:
		s.MouseCurrent.X = event.X
		s.MouseCurrent.Y = event.Y
	}
}

func (s *InputState) setKey(key KeyCode, pressed bool) {
	if key < KEYS_MAX_KEYS {
		s.KeyboardCurrent.Keys[key] = pressed
	}
}

func (s *InputState) setButton(button Button, pressed bool) {
	if button < BUTTON_MAX_BUTTONS {
		s.MouseCurrent.Buttons[button] = pressed
	}
}

// keyboard input
func (s *InputState) IsKeyDown(key KeyCode) bool {
	return key < KEYS_MAX_KEYS && s.KeyboardCurrent.Keys[key]
}

func (s *InputState) IsKeyUp(key KeyCode) bool {
	return !s.IsKeyDown(key)
}

func (s *InputState) WasKeyDown(key KeyCode) bool {
	return key < KEYS_MAX_KEYS && s.KeyboardPrevious.Keys[key]
}

func (s *InputState) WasKeyUp(key KeyCode) bool {
	return !s.WasKeyDown(key)
}

// KeyReleased reports a key that went up since the last Update.
func (s *InputState) KeyReleased(key KeyCode) bool {
	return s.IsKeyUp(key) && s.WasKeyDown(key)
}

// mouse input
func (s *InputState) IsButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && s.MouseCurrent.Buttons[button]
}

func (s *InputState) IsButtonUp(button Button) bool {
	return !s.IsButtonDown(button)
}

func (s *InputState) WasButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && s.MousePrevious.Buttons[button]
}

func (s *InputState) WasButtonUp(button Button) bool {
	return !s.WasButtonDown(button)
}

func (s *InputState) MousePosition() (int32, int32) {
	return s.MouseCurrent.X, s.MouseCurrent.Y
}

func (s *InputState) PreviousMousePosition() (int32, int32) {
	return s.MousePrevious.X, s.MousePrevious.Y
}
