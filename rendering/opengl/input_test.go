package opengl

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"solarsystem/simulation"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key    glfw.Key
		action glfw.Action
		want   simulation.Action
	}{
		{glfw.KeyEscape, glfw.Press, simulation.ActionQuit},
		{glfw.KeyUp, glfw.Press, simulation.ActionSpeedUp},
		{glfw.KeyRight, glfw.Repeat, simulation.ActionSpeedUp},
		{glfw.KeyLeft, glfw.Press, simulation.ActionSpeedDown},
		{glfw.KeyDown, glfw.Repeat, simulation.ActionSpeedDown},
		{glfw.Key0, glfw.Press, simulation.ActionResetSpeed},
		{glfw.KeyH, glfw.Press, simulation.ActionToggleHelp},
		{glfw.KeyN, glfw.Press, simulation.ActionToggleNames},
		{glfw.KeyP, glfw.Press, simulation.ActionTogglePause},
		{glfw.KeyW, glfw.Press, simulation.ActionToggleWireframe},

		// toggles do not repeat and releases are ignored
		{glfw.KeyH, glfw.Repeat, simulation.ActionNone},
		{glfw.KeyEscape, glfw.Release, simulation.ActionNone},
		{glfw.KeyQ, glfw.Press, simulation.ActionNone},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, KeyAction(tc.key, tc.action), "key %d action %d", tc.key, tc.action)
	}
}
