package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lumen/internal/engine/input"
)

// Events summarizes what happened during one PollEvents call besides
// input state changes.
type Events struct {
	Quit    bool
	Resized bool
	Width   int32
	Height  int32
}

// PollEvents drains the SDL event queue into in. Deltas in in are reset
// first, so they cover exactly this poll.
func (w *Window) PollEvents(in *input.Context) Events {
	var ev Events
	in.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			ev.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				ev.Resized = true
				ev.Width, ev.Height = w.Size()
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			in.KeyEvent(int(e.Keysym.Scancode), e.Type == sdl.KEYDOWN)

		case *sdl.MouseMotionEvent:
			if sdl.GetRelativeMouseMode() {
				in.CursorMovedRelative(float64(e.XRel), float64(e.YRel))
			} else {
				in.CursorMoved(float64(e.X), float64(e.Y))
			}

		case *sdl.MouseButtonEvent:
			in.ButtonEvent(int(e.Button), e.Type == sdl.MOUSEBUTTONDOWN)

		case *sdl.MouseWheelEvent:
			in.Scrolled(float64(e.X), float64(e.Y))
		}
	}

	return ev
}
