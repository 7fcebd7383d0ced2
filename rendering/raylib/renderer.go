package raylib

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"solarsystem/config"
	"solarsystem/core"
	"solarsystem/rendering/textures"
	"solarsystem/simulation"
)

// upload keeps the Go buffers referenced by an rl.Mesh alive for its lifetime.
type upload struct {
	mesh      rl.Mesh
	positions []float32
	normals   []float32
	texcoords []float32
	indices   []uint16
}

// Renderer is the raylib backend. raylib owns the window, the GL context and
// the camera; the view is derived from the frame context.
type Renderer struct {
	ctx        *core.Context
	material   rl.Material
	defaultTex rl.Texture2D
	meshes     map[*core.Mesh]*upload
	textures   map[string]rl.Texture2D
	images     *textures.Cache
	in3D       bool
}

// NewRenderer opens the raylib window.
func NewRenderer(ws config.WindowSettings, ctx *core.Context) (*Renderer, error) {
	flags := uint32(rl.FlagWindowResizable)
	if ws.VSync {
		flags |= rl.FlagVsyncHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(ws.Width), int32(ws.Height), ws.Title)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("raylib window: %w", core.ErrGraphicsBackend)
	}
	// escape is handled as a regular action
	rl.SetExitKey(0)

	ctx.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	r := &Renderer{
		ctx:      ctx,
		material: rl.LoadMaterialDefault(),
		meshes:   make(map[*core.Mesh]*upload),
		textures: make(map[string]rl.Texture2D),
		images:   textures.NewCache(),
	}
	r.defaultTex = r.material.Maps.Texture
	return r, nil
}

var keyActions = map[int32]simulation.Action{
	rl.KeyEscape: simulation.ActionQuit,
	rl.KeyUp:     simulation.ActionSpeedUp,
	rl.KeyRight:  simulation.ActionSpeedUp,
	rl.KeyDown:   simulation.ActionSpeedDown,
	rl.KeyLeft:   simulation.ActionSpeedDown,
	rl.KeyZero:   simulation.ActionResetSpeed,
	rl.KeyH:      simulation.ActionToggleHelp,
	rl.KeyN:      simulation.ActionToggleNames,
	rl.KeyP:      simulation.ActionTogglePause,
	rl.KeySpace:  simulation.ActionTogglePause,
	rl.KeyW:      simulation.ActionToggleWireframe,
}

// KeyAction maps a raylib key code to a simulation action. repeat reports
// whether the event is an auto-repeat of a held key.
func KeyAction(key int32, repeat bool) simulation.Action {
	a, ok := keyActions[key]
	if !ok {
		return simulation.ActionNone
	}
	if repeat && a != simulation.ActionSpeedUp && a != simulation.ActionSpeedDown {
		return simulation.ActionNone
	}
	return a
}

// PollInput returns the actions and clicks since the last frame. raylib
// polls events in EndDrawing.
func (r *Renderer) PollInput() simulation.Input {
	var in simulation.Input
	for key := range keyActions {
		switch {
		case rl.IsKeyPressed(key):
			in.Actions = append(in.Actions, KeyAction(key, false))
		case rl.IsKeyPressedRepeat(key):
			if a := KeyAction(key, true); a != simulation.ActionNone {
				in.Actions = append(in.Actions, a)
			}
		}
	}
	if rl.WindowShouldClose() {
		in.Actions = append(in.Actions, simulation.ActionQuit)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		p := rl.GetMousePosition()
		in.Clicks = append(in.Clicks, mgl32.Vec2{p.X, p.Y})
	}
	return in
}

// LoadTextures loads every body texture. Failed bodies keep their color.
func (r *Renderer) LoadTextures(sys *core.System) error {
	var errs []error
	for _, b := range sys.Bodies() {
		if b.Texture == "" {
			continue
		}
		if _, ok := r.textures[b.Texture]; ok {
			continue
		}
		img, err := r.images.Get(b.Texture)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rlImg := rl.NewImage(img.Pix, int32(img.Width), int32(img.Height), 1, rl.UncompressedR8g8b8)
		tex := rl.LoadTextureFromImage(rlImg)
		rl.GenTextureMipmaps(&tex)
		r.textures[b.Texture] = tex
		slog.Debug("texture uploaded", "path", b.Texture, "width", img.Width, "height", img.Height)
	}
	return errors.Join(errs...)
}

// Camera derives the raylib camera from the context view matrix.
func Camera(ctx *core.Context) rl.Camera3D {
	inv := ctx.View.Inv()
	eye := inv.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	forward := inv.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	up := inv.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	target := eye.Add(forward)
	return rl.Camera3D{
		Position:   rl.NewVector3(eye[0], eye[1], eye[2]),
		Target:     rl.NewVector3(target[0], target[1], target[2]),
		Up:         rl.NewVector3(up[0], up[1], up[2]),
		Fovy:       ctx.FovY,
		Projection: rl.CameraPerspective,
	}
}

// Matrix converts a column-major mgl32 matrix.
func Matrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func (r *Renderer) BeginFrame(ctx *core.Context) {
	if rl.IsWindowResized() {
		ctx.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(0, 0, 5, 255))
	rl.BeginMode3D(Camera(ctx))
	r.in3D = true
}

// DrawBody draws the mesh, or its edges in wireframe mode.
func (r *Renderer) DrawBody(b *core.Body, ctx *core.Context) error {
	if b.Mesh == nil {
		return fmt.Errorf("body %q has no mesh: %w", b.Name, core.ErrInvalidParameter)
	}
	model := b.Transform.Mat4f()
	color := rl.NewColor(channel(b.Color[0]), channel(b.Color[1]), channel(b.Color[2]), 255)

	if ctx.Wireframe {
		drawEdges(b.Mesh, model, color)
		return nil
	}

	u, err := r.upload(b.Mesh)
	if err != nil {
		return fmt.Errorf("body %q: %w", b.Name, err)
	}
	if tex, ok := r.textures[b.Texture]; ok {
		r.material.Maps.Texture = tex
		r.material.Maps.Color = rl.White
	} else {
		r.material.Maps.Texture = r.defaultTex
		r.material.Maps.Color = color
	}
	rl.DrawMesh(u.mesh, r.material, Matrix(model))
	return nil
}

func (r *Renderer) upload(m *core.Mesh) (*upload, error) {
	if u, ok := r.meshes[m]; ok {
		return u, nil
	}
	indices, err := m.Indices16()
	if err != nil {
		return nil, err
	}
	u := &upload{
		positions: m.Positions(),
		normals:   flatten3(m.Normals),
		texcoords: make([]float32, 0, 2*len(m.TexCoords)),
		indices:   indices,
	}
	for _, uv := range m.TexCoords {
		u.texcoords = append(u.texcoords, uv[0], uv[1])
	}
	u.mesh = rl.Mesh{
		VertexCount:   int32(m.VertexCount()),
		TriangleCount: int32(m.TriangleCount()),
		Vertices:      &u.positions[0],
		Normals:       &u.normals[0],
		Texcoords:     &u.texcoords[0],
		Indices:       &u.indices[0],
	}
	rl.UploadMesh(&u.mesh, false)
	r.meshes[m] = u
	slog.Debug("mesh uploaded", "vertices", m.VertexCount(), "triangles", m.TriangleCount())
	return u, nil
}

func drawEdges(m *core.Mesh, model mgl32.Mat4, color rl.Color) {
	world := make([]rl.Vector3, len(m.Vertices))
	for i, v := range m.Vertices {
		p := model.Mul4x1(v.Vec4(1))
		world[i] = rl.NewVector3(p[0], p[1], p[2])
	}
	for i := 0; i+1 < len(m.LineIndices); i += 2 {
		rl.DrawLine3D(world[m.LineIndices[i]], world[m.LineIndices[i+1]], color)
	}
}

// DrawText draws overlay text at window coordinates.
func (r *Renderer) DrawText(text string, x, y, scale float32, color mgl32.Vec3) {
	if r.in3D {
		rl.EndMode3D()
		r.in3D = false
	}
	size := int32(13 * scale)
	rl.DrawText(text, int32(x), int32(y), size, rl.NewColor(channel(color[0]), channel(color[1]), channel(color[2]), 255))
}

func (r *Renderer) EndFrame() {
	if r.in3D {
		rl.EndMode3D()
		r.in3D = false
	}
	rl.EndDrawing()
}

// Close unloads GPU resources and closes the window.
func (r *Renderer) Close() {
	for _, u := range r.meshes {
		rl.UnloadMesh(&u.mesh)
	}
	for _, tex := range r.textures {
		rl.UnloadTexture(tex)
	}
	rl.CloseWindow()
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

func flatten3(vs []mgl32.Vec3) []float32 {
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
