package gltriangle

// Attribute names looked up in the linked program
const (
	PositionAttribute = "position"
	ColorAttribute    = "color"
)

var VertexShader = `#version 330 core
in vec2 position;
in vec3 color;
out vec3 vColor;
void main() {
	vColor = color;
	gl_Position = vec4(position, 0.0, 1.0);
}` + "\x00"

var FragmentShader = `#version 330 core
in vec3 vColor;
out vec4 outColor;
void main() {
	outColor = vec4(vColor, 1.0);
}` + "\x00"
