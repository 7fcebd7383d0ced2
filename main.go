package main

import (
	"solarsystem/app"
	"solarsystem/config"
	"solarsystem/core"
	"solarsystem/rendering/opengl"
)

func main() {
	app.Main("solarsystem", func(ws config.WindowSettings, ctx *core.Context) (app.Backend, error) {
		r, err := opengl.NewRenderer(ws, ctx)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}
