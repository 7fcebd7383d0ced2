package simulation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarsystem/config"
	"solarsystem/core"
)

type drawCall struct {
	name     string
	position mgl64.Vec3
}

type fakeRenderer struct {
	frames int
	draws  []drawCall
	texts  []string
	failOn string
}

func (f *fakeRenderer) BeginFrame(*core.Context) { f.frames++ }
func (f *fakeRenderer) EndFrame()                {}

func (f *fakeRenderer) DrawBody(b *core.Body, _ *core.Context) error {
	if b.Name == f.failOn {
		return errors.New("draw failed")
	}
	f.draws = append(f.draws, drawCall{b.Name, b.Transform.Position})
	return nil
}

func (f *fakeRenderer) DrawText(text string, _, _, _ float32, _ mgl32.Vec3) {
	f.texts = append(f.texts, text)
}

type fakePublisher struct {
	frames []FrameState
}

func (p *fakePublisher) Publish(fs FrameState) { p.frames = append(p.frames, fs) }

func newTestSimulator(t *testing.T) (*Simulator, *fakeRenderer, *fakePublisher) {
	t.Helper()
	cfg := config.Default()
	sys, err := Build(cfg)
	require.NoError(t, err)
	r := &fakeRenderer{}
	p := &fakePublisher{}
	return New(sys, NewContext(cfg), r, p), r, p
}

func TestBuildDefault(t *testing.T) {
	cfg := config.Default()
	sys, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, len(cfg.Bodies), sys.Len())

	moon, err := sys.Lookup("Moon")
	require.NoError(t, err)
	require.True(t, moon.HasOrbit())
	earth, err := sys.Lookup("Earth")
	require.NoError(t, err)
	assert.Equal(t, earth.ID, moon.Orbit.Focus)
	assert.InDelta(t, mgl64.DegToRad(5), moon.Orbit.AngularSpeed, 1e-12)

	sun, err := sys.Lookup("Sun")
	require.NoError(t, err)
	assert.False(t, sun.HasOrbit())
	assert.InDelta(t, mgl64.DegToRad(0.2), sun.Spin.Rate, 1e-12)
	assert.Equal(t, 37*19, sun.Mesh.VertexCount())
}

func TestBuildErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Bodies = []config.BodySettings{
		{Name: "Moon", Radius: 1, Sectors: 8, Stacks: 4, Focus: "Earth", Distance: 1},
		{Name: "Earth", Radius: 1, Sectors: 8, Stacks: 4},
	}
	_, err := Build(cfg)
	assert.ErrorIs(t, err, core.ErrUnknownBody)

	cfg.Bodies = []config.BodySettings{{Name: "Flat", Radius: 1, Sectors: 8, Stacks: 1}}
	_, err = Build(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestFrameDrawsUpdatedBodies(t *testing.T) {
	sim, r, p := newTestSimulator(t)

	require.NoError(t, sim.Frame())
	assert.Equal(t, 1, r.frames)
	require.Len(t, r.draws, sim.System.Len())

	// every body is drawn with the position of this frame's update
	for _, d := range r.draws {
		b, err := sim.System.Lookup(d.name)
		require.NoError(t, err)
		assert.Equal(t, b.Transform.Position, d.position)
	}

	// the moon is drawn one orbital radius away from where the earth was drawn
	pos := make(map[string]mgl64.Vec3)
	for _, d := range r.draws {
		pos[d.name] = d.position
	}
	assert.InDelta(t, 1.3, pos["Moon"].Sub(pos["Earth"]).Len(), 1e-9)

	require.Len(t, p.frames, 1)
	assert.Equal(t, uint64(1), p.frames[0].Frame)
}

func TestFrameOverlay(t *testing.T) {
	sim, r, _ := newTestSimulator(t)

	require.NoError(t, sim.Frame())
	assert.Contains(t, r.texts, "Sun")
	assert.Contains(t, r.texts, "Moon")

	r.texts = nil
	sim.HandleAction(ActionToggleNames)
	sim.HandleAction(ActionToggleHelp)
	require.NoError(t, sim.Frame())
	assert.Equal(t, HelpLines(), r.texts)
}

func TestFrameDrawError(t *testing.T) {
	sim, r, p := newTestSimulator(t)
	r.failOn = "Earth"
	assert.Error(t, sim.Frame())
	assert.Empty(t, p.frames)
}

func TestHandleAction(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	ctx := sim.Ctx

	sim.HandleAction(ActionSpeedUp)
	sim.HandleAction(ActionSpeedUp)
	assert.InDelta(t, 1.2, ctx.SpeedScale, 1e-9)
	sim.HandleAction(ActionSpeedDown)
	assert.InDelta(t, 1.1, ctx.SpeedScale, 1e-9)
	sim.HandleAction(ActionResetSpeed)
	assert.Equal(t, 1.0, ctx.SpeedScale)

	for i := 0; i < 500; i++ {
		sim.HandleAction(ActionSpeedUp)
	}
	assert.Equal(t, ctx.MaxSpeed, ctx.SpeedScale)

	sim.HandleAction(ActionTogglePause)
	assert.True(t, ctx.Paused)
	sim.HandleAction(ActionToggleWireframe)
	assert.True(t, ctx.Wireframe)

	assert.False(t, sim.ShouldQuit())
	sim.HandleAction(ActionQuit)
	assert.True(t, sim.ShouldQuit())
	assert.Equal(t, "toggle-pause", ActionTogglePause.String())
	assert.Equal(t, "unknown", Action(99).String())
}

func TestPauseFreezesBodies(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	require.NoError(t, sim.Frame())

	// the first paused frame still places bodies at their current phase
	sim.HandleAction(ActionTogglePause)
	require.NoError(t, sim.Frame())
	before := sim.Snapshot()

	for i := 0; i < 10; i++ {
		require.NoError(t, sim.Frame())
	}
	after := sim.Snapshot()
	assert.Equal(t, before.Bodies, after.Bodies)
	assert.Equal(t, uint64(12), after.Frame)
}

func TestSnapshot(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	require.NoError(t, sim.Frame())

	fs := sim.Snapshot()
	require.Len(t, fs.Bodies, sim.System.Len())
	assert.Equal(t, "Sun", fs.Bodies[0].Name)
	assert.Empty(t, fs.Bodies[0].Focus)
	assert.Equal(t, "Earth", fs.Bodies[4].Focus)
	for _, b := range fs.Bodies {
		q := b.Rotation
		assert.InDelta(t, 1.0, math.Sqrt(q[0]*q[0]+q[1]*q[1]+q[2]*q[2]+q[3]*q[3]), 1e-9)
	}

	data, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Moon"`)
}

func TestApplyCommand(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	speed := 42.0
	names := false
	paused := true

	sim.ApplyCommand(Command{SpeedScale: &speed})
	assert.Equal(t, sim.Ctx.MaxSpeed, sim.Ctx.SpeedScale)
	assert.True(t, sim.Ctx.ShowNames)

	sim.ApplyCommand(Command{ShowNames: &names, Paused: &paused})
	assert.False(t, sim.Ctx.ShowNames)
	assert.True(t, sim.Ctx.Paused)
}

func TestApplyRuntime(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	cfg := config.Default()
	cfg.Simulation.MaxSpeed = 2
	cfg.Simulation.SpeedScale = 5
	cfg.Simulation.ShowHelp = true

	ApplyRuntime(sim.Ctx, cfg)
	assert.Equal(t, 2.0, sim.Ctx.SpeedScale)
	assert.True(t, sim.Ctx.ShowHelp)
}

func TestSelect(t *testing.T) {
	sim, r, _ := newTestSimulator(t)
	require.NoError(t, sim.Frame())

	sim.Select(400, 300)
	sun, err := sim.System.Lookup("Sun")
	require.NoError(t, err)
	assert.Equal(t, sun.ID, sim.Selected())
	assert.Contains(t, sim.SelectionInfo(), "Sun  r=2.50")

	r.texts = nil
	require.NoError(t, sim.Frame())
	assert.Contains(t, r.texts, sim.SelectionInfo())

	earth, err := sim.System.Lookup("Earth")
	require.NoError(t, err)
	sim.selected = earth.ID
	assert.Contains(t, sim.SelectionInfo(), "orbit=9.00")

	sim.Select(2, 2)
	assert.Equal(t, core.NoBody, sim.Selected())
	assert.Empty(t, sim.SelectionInfo())
}

func TestHandleInput(t *testing.T) {
	sim, _, _ := newTestSimulator(t)
	require.NoError(t, sim.Frame())

	sim.HandleInput(Input{
		Actions: []Action{ActionTogglePause, ActionQuit},
		Clicks:  []mgl32.Vec2{{400, 300}},
	})
	assert.True(t, sim.Ctx.Paused)
	assert.True(t, sim.ShouldQuit())
	sun, err := sim.System.Lookup("Sun")
	require.NoError(t, err)
	assert.Equal(t, sun.ID, sim.Selected())
}
