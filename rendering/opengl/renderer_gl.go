package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"solarsystem/config"
	"solarsystem/core"
	"solarsystem/rendering/opengl/overlay"
	"solarsystem/rendering/opengl/shaders"
	"solarsystem/rendering/textures"
	"solarsystem/simulation"
)

// floats per interleaved vertex: position, normal, uv
const vertexStride = 8

type meshBuffers struct {
	vao, vbo      uint32
	ebo, lineEBO  uint32
	indexCount    int32
	lineIndexSize int32
}

// Renderer draws the scene into a GLFW window with an OpenGL 4.1 core context.
type Renderer struct {
	window *glfw.Window
	ctx    *core.Context

	sphere *shaders.SphereProgram
	text   *overlay.TextRenderer

	meshes   map[*core.Mesh]*meshBuffers
	textures map[string]uint32
	images   *textures.Cache

	input simulation.Input
}

// NewRenderer opens the window and compiles the programs. The resize
// callback keeps ctx in sync with the window size. Every failure wraps
// core.ErrGraphicsBackend.
func NewRenderer(ws config.WindowSettings, ctx *core.Context) (*Renderer, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v: %w", err, core.ErrGraphicsBackend)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(ws.Width, ws.Height, ws.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %v: %w", err, core.ErrGraphicsBackend)
	}
	window.MakeContextCurrent()
	if ws.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v: %w", err, core.ErrGraphicsBackend)
	}
	fmt.Println("OpenGL version:", gl.GoStr(gl.GetString(gl.VERSION)))

	r := &Renderer{
		window:   window,
		ctx:      ctx,
		meshes:   make(map[*core.Mesh]*meshBuffers),
		textures: make(map[string]uint32),
		images:   textures.NewCache(),
	}

	r.sphere, err = shaders.NewSphereProgram()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to compile sphere shaders: %v: %w", err, core.ErrGraphicsBackend)
	}
	r.text, err = overlay.NewTextRenderer(overlay.NewFontAtlas())
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to create text overlay: %v: %w", err, core.ErrGraphicsBackend)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.0, 0.0, 0.02, 1.0)

	// window coordinates drive the projection and labels, framebuffer pixels the viewport
	w, h := window.GetSize()
	ctx.Resize(w, h)
	fw, fh := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))

	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		r.ctx.Resize(width, height)
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	window.SetKeyCallback(r.onKey)
	window.SetMouseButtonCallback(r.onMouseButton)

	return r, nil
}

// LoadTextures uploads the texture of every body that declares one. Bodies
// whose texture fails to load keep their flat color; the joined error lists
// each failure.
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
		r.textures[b.Texture] = UploadRGB(img)
		slog.Debug("texture uploaded", "path", b.Texture, "width", img.Width, "height", img.Height)
	}
	return errors.Join(errs...)
}

// UploadRGB creates a mipmapped 2D texture from an RGB image.
func UploadRGB(img *textures.Image) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, int32(img.Width), int32(img.Height), 0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// BeginFrame clears the window and sets the camera uniforms.
func (r *Renderer) BeginFrame(ctx *core.Context) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if ctx.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.UseProgram(r.sphere.ID)
	gl.UniformMatrix4fv(r.sphere.View, 1, false, &ctx.View[0])
	gl.UniformMatrix4fv(r.sphere.Projection, 1, false, &ctx.Projection[0])
}

// DrawBody draws one body with its current transform.
func (r *Renderer) DrawBody(b *core.Body, ctx *core.Context) error {
	if b.Mesh == nil {
		return fmt.Errorf("body %q has no mesh: %w", b.Name, core.ErrInvalidParameter)
	}
	buf := r.buffers(b.Mesh)

	model := b.Transform.Mat4f()
	gl.UseProgram(r.sphere.ID)
	gl.UniformMatrix4fv(r.sphere.Model, 1, false, &model[0])
	gl.Uniform3f(r.sphere.BaseColor, b.Color[0], b.Color[1], b.Color[2])
	setBool(r.sphere.Emissive, !b.HasOrbit())

	tex, textured := r.textures[b.Texture]
	setBool(r.sphere.UseTexture, textured)
	if textured {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.Uniform1i(r.sphere.Surface, 0)
	}

	gl.BindVertexArray(buf.vao)
	if ctx.Wireframe {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.lineEBO)
		gl.DrawElements(gl.LINES, buf.lineIndexSize, gl.UNSIGNED_INT, nil)
	} else {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
		gl.DrawElements(gl.TRIANGLES, buf.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("draw %q: gl error 0x%x: %w", b.Name, e, core.ErrGraphicsBackend)
	}
	return nil
}

// buffers uploads a mesh the first time it is drawn.
func (r *Renderer) buffers(m *core.Mesh) *meshBuffers {
	if buf, ok := r.meshes[m]; ok {
		return buf
	}

	buf := &meshBuffers{
		indexCount:    int32(len(m.Indices)),
		lineIndexSize: int32(len(m.LineIndices)),
	}
	data := m.Interleaved()

	gl.GenVertexArrays(1, &buf.vao)
	gl.GenBuffers(1, &buf.vbo)
	gl.GenBuffers(1, &buf.ebo)
	gl.GenBuffers(1, &buf.lineEBO)

	gl.BindVertexArray(buf.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.lineEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.LineIndices)*4, gl.Ptr(m.LineIndices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	r.meshes[m] = buf
	slog.Debug("mesh uploaded", "vertices", m.VertexCount(), "triangles", m.TriangleCount())
	return buf
}

// DrawText draws an overlay string at window coordinates.
func (r *Renderer) DrawText(text string, x, y, scale float32, color mgl32.Vec3) {
	r.text.Render(text, x, y, scale, color, r.ctx.Width, r.ctx.Height)
}

// EndFrame presents the frame.
func (r *Renderer) EndFrame() {
	r.window.SwapBuffers()
}

// Close releases GL objects and terminates GLFW.
func (r *Renderer) Close() {
	for _, buf := range r.meshes {
		gl.DeleteVertexArrays(1, &buf.vao)
		gl.DeleteBuffers(1, &buf.vbo)
		gl.DeleteBuffers(1, &buf.ebo)
		gl.DeleteBuffers(1, &buf.lineEBO)
	}
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	if r.text != nil {
		r.text.Delete()
	}
	if r.sphere != nil {
		gl.DeleteProgram(r.sphere.ID)
	}
	r.window.Destroy()
	glfw.Terminate()
}

func setBool(loc int32, v bool) {
	if v {
		gl.Uniform1i(loc, 1)
	} else {
		gl.Uniform1i(loc, 0)
	}
}
