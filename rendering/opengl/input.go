package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"solarsystem/simulation"
)

var keyActions = map[glfw.Key]simulation.Action{
	glfw.KeyEscape: simulation.ActionQuit,
	glfw.KeyUp:     simulation.ActionSpeedUp,
	glfw.KeyRight:  simulation.ActionSpeedUp,
	glfw.KeyDown:   simulation.ActionSpeedDown,
	glfw.KeyLeft:   simulation.ActionSpeedDown,
	glfw.Key0:      simulation.ActionResetSpeed,
	glfw.KeyKP0:    simulation.ActionResetSpeed,
	glfw.KeyH:      simulation.ActionToggleHelp,
	glfw.KeyN:      simulation.ActionToggleNames,
	glfw.KeyP:      simulation.ActionTogglePause,
	glfw.KeySpace:  simulation.ActionTogglePause,
	glfw.KeyW:      simulation.ActionToggleWireframe,
}

// repeatable actions fire again while the key is held
var repeatable = map[simulation.Action]bool{
	simulation.ActionSpeedUp:   true,
	simulation.ActionSpeedDown: true,
}

// KeyAction maps a key event to a simulation action.
func KeyAction(key glfw.Key, action glfw.Action) simulation.Action {
	a, ok := keyActions[key]
	if !ok {
		return simulation.ActionNone
	}
	switch action {
	case glfw.Press:
		return a
	case glfw.Repeat:
		if repeatable[a] {
			return a
		}
	}
	return simulation.ActionNone
}

func (r *Renderer) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if a := KeyAction(key, action); a != simulation.ActionNone {
		r.input.Actions = append(r.input.Actions, a)
	}
}

func (r *Renderer) onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}
	x, y := w.GetCursorPos()
	r.input.Clicks = append(r.input.Clicks, mgl32.Vec2{float32(x), float32(y)})
}

// PollInput processes window events and returns the input they produced.
// Closing the window reports a quit action.
func (r *Renderer) PollInput() simulation.Input {
	glfw.PollEvents()
	in := r.input
	r.input = simulation.Input{}
	if r.window.ShouldClose() {
		in.Actions = append(in.Actions, simulation.ActionQuit)
	}
	return in
}
