package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"solarsystem/config"
	"solarsystem/core"
)

// Build creates the bodies declared in cfg, in declaration order. A focus
// must name a body declared earlier.
func Build(cfg config.Settings) (*core.System, error) {
	sys := core.NewSystem()
	for _, b := range cfg.Bodies {
		spec := core.BodySpec{
			Name:        b.Name,
			Radius:      b.Radius,
			SectorCount: b.Sectors,
			StackCount:  b.Stacks,
			Position:    mgl64.Vec3(b.Position),
			Spin: core.Spin{
				Axis: mgl64.Vec3(b.SpinAxis),
				Rate: mgl64.DegToRad(b.SpinRate),
			},
			Distance:     b.Distance,
			StartAngle:   mgl64.DegToRad(b.StartAngle),
			AngularSpeed: mgl64.DegToRad(b.Speed),
			Color:        mgl32.Vec3(b.Color),
			Texture:      b.Texture,
			LabelAbove:   b.LabelAbove,
		}
		if b.Focus != "" {
			focus, err := sys.Lookup(b.Focus)
			if err != nil {
				return nil, fmt.Errorf("body %q orbits %q declared later or not at all: %w", b.Name, b.Focus, core.ErrUnknownBody)
			}
			spec.Focus = focus.ID
		}
		if _, err := sys.Add(spec); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

// NewContext creates the frame context described by cfg.
func NewContext(cfg config.Settings) *core.Context {
	ctx := &core.Context{
		View:       mgl32.Translate3D(0, 0, -cfg.Camera.Distance),
		FovY:       cfg.Camera.FovY,
		Near:       cfg.Camera.Near,
		Far:        cfg.Camera.Far,
		MinSpeed:   cfg.Simulation.MinSpeed,
		MaxSpeed:   cfg.Simulation.MaxSpeed,
		SpeedStep:  cfg.Simulation.SpeedStep,
		ShowNames:  cfg.Simulation.ShowNames,
		ShowHelp:   cfg.Simulation.ShowHelp,
		SpeedScale: 1,
	}
	ctx.SetSpeed(cfg.Simulation.SpeedScale)
	ctx.Resize(cfg.Window.Width, cfg.Window.Height)
	return ctx
}

// ApplyRuntime copies the settings that can change without rebuilding the
// scene into ctx.
func ApplyRuntime(ctx *core.Context, cfg config.Settings) {
	ctx.MinSpeed = cfg.Simulation.MinSpeed
	ctx.MaxSpeed = cfg.Simulation.MaxSpeed
	ctx.SpeedStep = cfg.Simulation.SpeedStep
	ctx.ShowNames = cfg.Simulation.ShowNames
	ctx.ShowHelp = cfg.Simulation.ShowHelp
	ctx.SetSpeed(cfg.Simulation.SpeedScale)
}
