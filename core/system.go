package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// System owns every body of the scene. Orbits refer to their focus by ID,
// never by pointer, so the arena is the only owner.
type System struct {
	bodies []*Body
	names  map[string]BodyID
	order  []BodyID
}

// NewSystem creates an empty system.
func NewSystem() *System {
	return &System{names: make(map[string]BodyID)}
}

// Len returns the number of bodies.
func (s *System) Len() int { return len(s.bodies) }

// Body returns the body with the given ID.
func (s *System) Body(id BodyID) (*Body, error) {
	if id <= NoBody || int(id) > len(s.bodies) {
		return nil, fmt.Errorf("body id %d: %w", id, ErrUnknownBody)
	}
	return s.bodies[id-1], nil
}

// Lookup finds a body by name.
func (s *System) Lookup(name string) (*Body, error) {
	id, ok := s.names[name]
	if !ok {
		return nil, fmt.Errorf("body %q: %w", name, ErrUnknownBody)
	}
	return s.bodies[id-1], nil
}

// Bodies returns the bodies in insertion order.
func (s *System) Bodies() []*Body {
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Order returns body IDs with every focus ahead of the bodies orbiting it.
func (s *System) Order() []BodyID {
	out := make([]BodyID, len(s.order))
	copy(out, s.order)
	return out
}

// Add generates the mesh for spec and inserts the new body.
func (s *System) Add(spec BodySpec) (BodyID, error) {
	if spec.Name != "" {
		if _, dup := s.names[spec.Name]; dup {
			return NoBody, fmt.Errorf("duplicate body name %q: %w", spec.Name, ErrInvalidParameter)
		}
	}
	if err := spec.validate(); err != nil {
		return NoBody, err
	}
	var focus *Body
	if spec.Focus != NoBody {
		f, err := s.Body(spec.Focus)
		if err != nil {
			return NoBody, fmt.Errorf("focus of %q: %w", spec.Name, err)
		}
		focus = f
	}

	mesh, err := GenerateSphere(spec.Radius, spec.SectorCount, spec.StackCount)
	if err != nil {
		return NoBody, fmt.Errorf("body %q: %w", spec.Name, err)
	}

	id := BodyID(len(s.bodies) + 1)
	b := &Body{
		ID:         id,
		Name:       spec.Name,
		Mesh:       mesh,
		Transform:  NewTransform(spec.Position),
		Spin:       spec.Spin,
		Color:      spec.Color,
		Texture:    spec.Texture,
		LabelAbove: spec.LabelAbove,
	}
	if focus != nil {
		b.Orbit = &Orbit{
			Focus:        spec.Focus,
			Radius:       spec.Distance,
			Phase:        normalizeAngle(spec.StartAngle),
			AngularSpeed: spec.AngularSpeed,
		}
		b.Transform.Position = orbitPosition(focus.Transform.Position, b.Orbit)
	}

	s.bodies = append(s.bodies, b)
	if spec.Name != "" {
		s.names[spec.Name] = id
	}
	// a new body can only orbit an existing one, so appending keeps the order valid
	s.order = append(s.order, id)
	return id, nil
}

// SetFocus moves body id onto an orbit around focus, or detaches it when
// focus is NoBody. The current phase is kept.
func (s *System) SetFocus(id, focus BodyID, radius, angularSpeed float64) error {
	b, err := s.Body(id)
	if err != nil {
		return err
	}
	if focus == NoBody {
		b.Orbit = nil
		s.order = s.computeOrder()
		return nil
	}
	if _, err := s.Body(focus); err != nil {
		return fmt.Errorf("focus of %q: %w", b.Name, err)
	}
	for cur := focus; cur != NoBody; {
		if cur == id {
			return fmt.Errorf("%q cannot orbit body %d: %w", b.Name, focus, ErrOrbitCycle)
		}
		next := s.bodies[cur-1]
		if next.Orbit == nil {
			break
		}
		cur = next.Orbit.Focus
	}

	phase := 0.0
	if b.Orbit != nil {
		phase = b.Orbit.Phase
	}
	b.Orbit = &Orbit{Focus: focus, Radius: radius, Phase: phase, AngularSpeed: angularSpeed}
	s.order = s.computeOrder()
	return nil
}

func (s *System) computeOrder() []BodyID {
	order := make([]BodyID, 0, len(s.bodies))
	placed := make([]bool, len(s.bodies)+1)
	var visit func(id BodyID)
	visit = func(id BodyID) {
		if placed[id] {
			return
		}
		// cycles are rejected by SetFocus, so this terminates
		if o := s.bodies[id-1].Orbit; o != nil {
			visit(o.Focus)
		}
		placed[id] = true
		order = append(order, id)
	}
	for i := range s.bodies {
		visit(BodyID(i + 1))
	}
	return order
}

// Update advances one body by one tick scaled by dtScale.
// A free body spins about its axis; an orbiting body is placed on its orbit
// around the focus' current position and its phase advances.
func (s *System) Update(id BodyID, dtScale float64) error {
	b, err := s.Body(id)
	if err != nil {
		return err
	}
	s.update(b, dtScale)
	return nil
}

func (s *System) update(b *Body, dtScale float64) {
	if b.Orbit == nil {
		b.Transform.Rotate(b.Spin.Rate*dtScale, b.Spin.Axis)
		return
	}
	focus := s.bodies[b.Orbit.Focus-1]
	b.Transform.Position = orbitPosition(focus.Transform.Position, b.Orbit)
	b.Orbit.Phase = normalizeAngle(b.Orbit.Phase + b.Orbit.AngularSpeed*dtScale)
}

// Step updates every body once, parents first.
func (s *System) Step(dtScale float64) {
	for _, id := range s.order {
		s.update(s.bodies[id-1], dtScale)
	}
}

func orbitPosition(center mgl64.Vec3, o *Orbit) mgl64.Vec3 {
	return center.Add(mgl64.Vec3{
		o.Radius * math.Cos(o.Phase),
		0,
		o.Radius * math.Sin(o.Phase),
	})
}
