package overlay

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"solarsystem/rendering/opengl/shaders"
)

const textVertexShader = `
#version 410 core

layout (location = 0) in vec2 position;
layout (location = 1) in vec2 texCoord;

uniform vec2 screenSize;

out vec2 fragTexCoord;

void main() {
    vec2 ndcPos = (position / screenSize) * 2.0 - 1.0;
    ndcPos.y = -ndcPos.y; // Flip Y for top-left origin
    gl_Position = vec4(ndcPos, 0.0, 1.0);
    fragTexCoord = texCoord;
}
`

const textFragmentShader = `
#version 410 core

in vec2 fragTexCoord;
out vec4 outColor;

uniform sampler2D fontTexture;
uniform vec3 textColor;

void main() {
    float alpha = texture(fontTexture, fragTexCoord).r;
    outColor = vec4(textColor, alpha);
}
`

// TextRenderer draws atlas text in window pixel coordinates.
type TextRenderer struct {
	Atlas *FontAtlas

	program    uint32
	vao        uint32
	vbo        uint32
	texture    uint32
	screenSize int32
	textColor  int32
	fontTex    int32

	vertices []float32
}

// NewTextRenderer compiles the text program and uploads the font atlas.
func NewTextRenderer(atlas *FontAtlas) (*TextRenderer, error) {
	program, err := shaders.NewProgram(textVertexShader, textFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile text shaders: %v", err)
	}

	tr := &TextRenderer{
		Atlas:      atlas,
		program:    program,
		screenSize: shaders.Uniform(program, "screenSize"),
		textColor:  shaders.Uniform(program, "textColor"),
		fontTex:    shaders.Uniform(program, "fontTexture"),
	}

	gl.GenTextures(1, &tr.texture)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	size := atlas.Image.Rect.Size()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(size.X), int32(size.Y), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Image.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if e := gl.GetError(); e != gl.NO_ERROR {
		tr.Delete()
		return nil, fmt.Errorf("font atlas upload failed: gl error 0x%x", e)
	}

	gl.GenVertexArrays(1, &tr.vao)
	gl.GenBuffers(1, &tr.vbo)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)

	stride := int32(4 * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	return tr, nil
}

// Render draws text with its top-left corner at (x, y) on a width x height
// viewport.
func (tr *TextRenderer) Render(text string, x, y, scale float32, color mgl32.Vec3, width, height int) {
	quads := tr.Atlas.Layout(text, x, y, scale)
	if len(quads) == 0 {
		return
	}

	tr.vertices = tr.vertices[:0]
	for _, q := range quads {
		tr.vertices = append(tr.vertices,
			q.X0, q.Y0, q.U0, q.V0,
			q.X1, q.Y0, q.U1, q.V0,
			q.X0, q.Y1, q.U0, q.V1,
			q.X1, q.Y0, q.U1, q.V0,
			q.X1, q.Y1, q.U1, q.V1,
			q.X0, q.Y1, q.U0, q.V1,
		)
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	gl.UseProgram(tr.program)
	gl.Uniform2f(tr.screenSize, float32(width), float32(height))
	gl.Uniform3f(tr.textColor, color[0], color[1], color[2])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.Uniform1i(tr.fontTex, 0)

	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(tr.vertices)*4, gl.Ptr(tr.vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quads)*6))
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Delete releases the GL objects.
func (tr *TextRenderer) Delete() {
	gl.DeleteTextures(1, &tr.texture)
	gl.DeleteBuffers(1, &tr.vbo)
	gl.DeleteVertexArrays(1, &tr.vao)
	gl.DeleteProgram(tr.program)
}
