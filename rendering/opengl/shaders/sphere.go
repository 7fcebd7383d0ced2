package shaders

// Sphere shaders take the interleaved mesh layout: position (location 0),
// normal (1) and texture coordinate (2).
const sphereVertexShader = `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 texCoord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 fragNormal;
out vec3 fragPos;
out vec2 fragTexCoord;

void main() {
    vec4 world = model * vec4(position, 1.0);
    fragPos = world.xyz;
    fragNormal = mat3(model) * normal;
    fragTexCoord = texCoord;
    gl_Position = projection * view * world;
}
`

// A light sits at the origin where the star is. emissive bodies skip shading.
const sphereFragmentShader = `
#version 410 core

in vec3 fragNormal;
in vec3 fragPos;
in vec2 fragTexCoord;

uniform vec3 baseColor;
uniform bool useTexture;
uniform bool emissive;
uniform sampler2D surface;

out vec4 outColor;

void main() {
    vec3 albedo = useTexture ? texture(surface, fragTexCoord).rgb : baseColor;
    if (emissive) {
        outColor = vec4(albedo, 1.0);
        return;
    }
    vec3 toLight = normalize(-fragPos);
    float diffuse = max(dot(normalize(fragNormal), toLight), 0.0);
    outColor = vec4(albedo * (0.15 + 0.85 * diffuse), 1.0);
}
`

// SphereProgram holds the sphere program and its uniform locations.
type SphereProgram struct {
	ID uint32

	Model      int32
	View       int32
	Projection int32
	BaseColor  int32
	UseTexture int32
	Emissive   int32
	Surface    int32
}

// NewSphereProgram compiles the lit sphere program.
func NewSphereProgram() (*SphereProgram, error) {
	id, err := NewProgram(sphereVertexShader, sphereFragmentShader)
	if err != nil {
		return nil, err
	}
	return &SphereProgram{
		ID:         id,
		Model:      Uniform(id, "model"),
		View:       Uniform(id, "view"),
		Projection: Uniform(id, "projection"),
		BaseColor:  Uniform(id, "baseColor"),
		UseTexture: Uniform(id, "useTexture"),
		Emissive:   Uniform(id, "emissive"),
		Surface:    Uniform(id, "surface"),
	}, nil
}
