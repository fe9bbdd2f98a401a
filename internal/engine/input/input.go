// Package input tracks keyboard and mouse state for one window. The state
// lives in a Context created at startup and passed to whatever reads it.
package input

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/logger"
)

const (
	// MaxKeys bounds key codes (SDL scancodes).
	MaxKeys = 512
	// MaxButtons bounds mouse button codes.
	MaxButtons = 8
)

// Context is the input state of one window. Cursor and scroll deltas
// accumulate between calls to BeginFrame.
type Context struct {
	keys     [MaxKeys]bool
	pressed  [MaxKeys]bool // went down since BeginFrame
	pressure [MaxKeys]float32
	buttons  [MaxButtons]bool

	mouseX, mouseY   float64
	deltaX, deltaY   float64
	scrollX, scrollY float64
	hasCursor        bool

	log *zap.Logger
}

// New creates an input context with nothing pressed.
func New(log *zap.Logger) *Context {
	if log == nil {
		log = logger.Named("input")
	}
	return &Context{log: log}
}

// BeginFrame resets the per-frame cursor and scroll deltas.
func (c *Context) BeginFrame() {
	c.pressed = [MaxKeys]bool{}
	c.deltaX, c.deltaY = 0, 0
	c.scrollX, c.scrollY = 0, 0
}

// Close releases the context. Every key and button reads as released
// afterwards.
func (c *Context) Close() {
	*c = Context{log: c.log}
}

// KeyEvent records a key press or release.
func (c *Context) KeyEvent(code int, down bool) {
	if !c.validKey(code, "key event") {
		return
	}
	if down && !c.keys[code] {
		c.pressed[code] = true
	}
	c.keys[code] = down
	if down {
		c.pressure[code] = 1
	} else {
		c.pressure[code] = 0
	}
}

// ButtonEvent records a mouse button press or release.
func (c *Context) ButtonEvent(button int, down bool) {
	if !c.validButton(button, "button event") {
		return
	}
	c.buttons[button] = down
}

// CursorMoved records the cursor position in window pixels. The first
// position seen produces no delta.
func (c *Context) CursorMoved(x, y float64) {
	if c.hasCursor {
		c.deltaX += x - c.mouseX
		c.deltaY += y - c.mouseY
	}
	c.mouseX, c.mouseY = x, y
	c.hasCursor = true
}

// CursorMovedRelative records relative motion, as reported while the
// cursor is captured.
func (c *Context) CursorMovedRelative(dx, dy float64) {
	c.deltaX += dx
	c.deltaY += dy
	c.mouseX += dx
	c.mouseY += dy
}

// Scrolled records a scroll wheel offset.
func (c *Context) Scrolled(dx, dy float64) {
	c.scrollX += dx
	c.scrollY += dy
}

// IsKeyPressed reports whether key code is held.
func (c *Context) IsKeyPressed(code int) bool {
	if !c.validKey(code, "key press check") {
		return false
	}
	return c.keys[code]
}

// WasKeyPressed reports whether key code went down since BeginFrame.
func (c *Context) WasKeyPressed(code int) bool {
	if !c.validKey(code, "key down check") {
		return false
	}
	return c.pressed[code]
}

// KeyPressure returns how far key code is pressed, 0 to 1. Digital keys
// report 0 or 1.
func (c *Context) KeyPressure(code int) float32 {
	if !c.validKey(code, "key pressure get") {
		return 0
	}
	return c.pressure[code]
}

// IsMouseButtonPressed reports whether mouse button is held.
func (c *Context) IsMouseButtonPressed(button int) bool {
	if !c.validButton(button, "mouse button press check") {
		return false
	}
	return c.buttons[button]
}

// MousePosition returns the last cursor position.
func (c *Context) MousePosition() (x, y float64) {
	return c.mouseX, c.mouseY
}

// MouseDelta returns cursor motion since BeginFrame.
func (c *Context) MouseDelta() (dx, dy float64) {
	return c.deltaX, c.deltaY
}

// ScrollDelta returns scroll offset since BeginFrame.
func (c *Context) ScrollDelta() (dx, dy float64) {
	return c.scrollX, c.scrollY
}

func (c *Context) validKey(code int, op string) bool {
	if code < 0 || code >= MaxKeys {
		c.log.Warn("key code out of range", zap.String("op", op), zap.Int("code", code))
		return false
	}
	return true
}

func (c *Context) validButton(button int, op string) bool {
	if button < 0 || button >= MaxButtons {
		c.log.Warn("mouse button out of range", zap.String("op", op), zap.Int("button", button))
		return false
	}
	return true
}
