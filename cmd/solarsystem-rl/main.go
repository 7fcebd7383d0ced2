// Command solarsystem-rl runs the solar system with the raylib backend.
// It is a separate binary because raylib links its own GLFW.
package main

import (
	"solarsystem/app"
	"solarsystem/config"
	"solarsystem/core"
	"solarsystem/rendering/raylib"
)

func main() {
	app.Main("solarsystem-rl", func(ws config.WindowSettings, ctx *core.Context) (app.Backend, error) {
		r, err := raylib.NewRenderer(ws, ctx)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}
