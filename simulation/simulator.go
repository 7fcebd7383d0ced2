package simulation

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"solarsystem/core"
)

// Action is a discrete user command delivered by an input source.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSpeedUp
	ActionSpeedDown
	ActionResetSpeed
	ActionToggleHelp
	ActionToggleNames
	ActionTogglePause
	ActionToggleWireframe
)

var actionNames = map[Action]string{
	ActionNone:            "none",
	ActionQuit:            "quit",
	ActionSpeedUp:         "speed-up",
	ActionSpeedDown:       "speed-down",
	ActionResetSpeed:      "reset-speed",
	ActionToggleHelp:      "toggle-help",
	ActionToggleNames:     "toggle-names",
	ActionTogglePause:     "toggle-pause",
	ActionToggleWireframe: "toggle-wireframe",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Input is what one poll of a window produced.
type Input struct {
	Actions []Action
	Clicks  []mgl32.Vec2 // window coordinates, top-left origin
}

// Renderer is the rasterization backend. DrawBody is called once per body
// per frame, after the body has been updated.
type Renderer interface {
	BeginFrame(ctx *core.Context)
	DrawBody(b *core.Body, ctx *core.Context) error
	DrawText(text string, x, y, scale float32, color mgl32.Vec3)
	EndFrame()
}

// Publisher receives a state snapshot after each frame.
type Publisher interface {
	Publish(frame FrameState)
}

// BodyState is the externally visible state of one body.
type BodyState struct {
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // w, x, y, z
	Phase    float64    `json:"phase,omitempty"`
	Focus    string     `json:"focus,omitempty"`
}

// FrameState is the snapshot of one frame.
type FrameState struct {
	Frame      uint64      `json:"frame"`
	SpeedScale float64     `json:"speedScale"`
	Paused     bool        `json:"paused"`
	Bodies     []BodyState `json:"bodies"`
}

var (
	labelColor = mgl32.Vec3{1, 1, 1}
	helpColor  = mgl32.Vec3{0.1, 0.95, 0.1}
)

var helpLines = []string{
	"ESC: quit",
	"Up/Right: faster  Down/Left: slower  0: reset speed",
	"P: pause  N: names  W: wireframe  H: help",
}

// HelpLines returns the help overlay text.
func HelpLines() []string {
	out := make([]string, len(helpLines))
	copy(out, helpLines)
	return out
}

// Simulator runs the frame loop: update every body, submit it for drawing,
// draw overlays and publish a snapshot. It is not safe for concurrent use.
type Simulator struct {
	System    *core.System
	Ctx       *core.Context
	Renderer  Renderer
	Publisher Publisher

	frame    uint64
	quit     bool
	initial  float64
	selected core.BodyID
}

// New creates a simulator. publisher may be nil.
func New(sys *core.System, ctx *core.Context, r Renderer, publisher Publisher) *Simulator {
	return &Simulator{
		System:    sys,
		Ctx:       ctx,
		Renderer:  r,
		Publisher: publisher,
		initial:   ctx.SpeedScale,
	}
}

// Frame runs one frame. The first draw error aborts the frame.
func (s *Simulator) Frame() error {
	s.System.Step(s.Ctx.TickScale())
	s.frame++

	if s.Renderer != nil {
		s.Renderer.BeginFrame(s.Ctx)
		for _, id := range s.System.Order() {
			b, err := s.System.Body(id)
			if err != nil {
				return err
			}
			if err := s.Renderer.DrawBody(b, s.Ctx); err != nil {
				return err
			}
		}
		s.drawOverlay()
		s.Renderer.EndFrame()
	}

	if s.Publisher != nil {
		s.Publisher.Publish(s.Snapshot())
	}
	return nil
}

func (s *Simulator) drawOverlay() {
	if s.Ctx.ShowNames {
		for _, b := range s.System.Bodies() {
			if b.Name == "" {
				continue
			}
			x, y, ok := s.Ctx.LabelAnchor(b)
			if !ok {
				continue
			}
			s.Renderer.DrawText(b.Name, x, y, 1, labelColor)
		}
	}
	if s.Ctx.ShowHelp {
		for i, line := range helpLines {
			s.Renderer.DrawText(line, 10, 20+float32(i)*18, 1, helpColor)
		}
	}
	if info := s.SelectionInfo(); info != "" {
		s.Renderer.DrawText(info, 10, float32(s.Ctx.Height)-24, 1, labelColor)
	}
}

// Select picks the body under window point (x, y). Clicking empty space
// clears the selection.
func (s *Simulator) Select(x, y float32) {
	b, ok := s.System.Pick(s.Ctx.Ray(x, y))
	if !ok {
		s.selected = core.NoBody
		return
	}
	s.selected = b.ID
	slog.Info("selected body", "name", b.Name, "position", b.Transform.Position)
}

// Selected returns the selected body, or NoBody.
func (s *Simulator) Selected() core.BodyID { return s.selected }

// SelectionInfo describes the selected body for the overlay.
func (s *Simulator) SelectionInfo() string {
	b, err := s.System.Body(s.selected)
	if err != nil {
		return ""
	}
	p := b.Transform.Position
	info := fmt.Sprintf("%s  r=%.2f  pos=(%.2f, %.2f, %.2f)", b.Name, b.Mesh.Radius, p[0], p[1], p[2])
	if b.Orbit != nil {
		info += fmt.Sprintf("  orbit=%.2f  phase=%.1f deg", b.Orbit.Radius, mgl64.RadToDeg(b.Orbit.Phase))
	}
	return info
}

// HandleAction applies a user command.
func (s *Simulator) HandleAction(a Action) {
	switch a {
	case ActionQuit:
		s.quit = true
	case ActionSpeedUp:
		s.Ctx.AdjustSpeed(1)
	case ActionSpeedDown:
		s.Ctx.AdjustSpeed(-1)
	case ActionResetSpeed:
		s.Ctx.SetSpeed(s.initial)
	case ActionToggleHelp:
		s.Ctx.ShowHelp = !s.Ctx.ShowHelp
	case ActionToggleNames:
		s.Ctx.ShowNames = !s.Ctx.ShowNames
	case ActionTogglePause:
		s.Ctx.Paused = !s.Ctx.Paused
	case ActionToggleWireframe:
		s.Ctx.Wireframe = !s.Ctx.Wireframe
	default:
		return
	}
	slog.Debug("action", "action", a, "speed", s.Ctx.SpeedScale, "paused", s.Ctx.Paused)
}

// HandleInput applies actions in order, then selects at each click.
func (s *Simulator) HandleInput(in Input) {
	for _, a := range in.Actions {
		s.HandleAction(a)
	}
	for _, c := range in.Clicks {
		s.Select(c[0], c[1])
	}
}

// ShouldQuit reports whether a quit action was received.
func (s *Simulator) ShouldQuit() bool { return s.quit }

// FrameCount returns the number of frames run so far.
func (s *Simulator) FrameCount() uint64 { return s.frame }

// Snapshot captures the current state of every body.
func (s *Simulator) Snapshot() FrameState {
	bodies := s.System.Bodies()
	fs := FrameState{
		Frame:      s.frame,
		SpeedScale: s.Ctx.SpeedScale,
		Paused:     s.Ctx.Paused,
		Bodies:     make([]BodyState, 0, len(bodies)),
	}
	for _, b := range bodies {
		q := b.Transform.Rotation
		st := BodyState{
			Name:     b.Name,
			Position: [3]float64(b.Transform.Position),
			Rotation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
		}
		if b.Orbit != nil {
			st.Phase = b.Orbit.Phase
			if f, err := s.System.Body(b.Orbit.Focus); err == nil {
				st.Focus = f.Name
			}
		}
		fs.Bodies = append(fs.Bodies, st)
	}
	return fs
}

// Command is a remote control request. Nil fields are left unchanged.
type Command struct {
	SpeedScale *float64 `json:"speedScale,omitempty"`
	ShowNames  *bool    `json:"showNames,omitempty"`
	Paused     *bool    `json:"paused,omitempty"`
}

// ApplyCommand applies a remote command on the simulation thread.
func (s *Simulator) ApplyCommand(c Command) {
	if c.SpeedScale != nil {
		s.Ctx.SetSpeed(*c.SpeedScale)
	}
	if c.ShowNames != nil {
		s.Ctx.ShowNames = *c.ShowNames
	}
	if c.Paused != nil {
		s.Ctx.Paused = *c.Paused
	}
}
