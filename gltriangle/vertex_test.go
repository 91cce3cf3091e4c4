package gltriangle

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleaveTriangle(t *testing.T) {
	data := Interleave(Triangle)
	require.Len(t, data, 3*FloatsPerVertex)
	assert.Equal(t, []float32{
		0.0, 0.5, 1, 0, 0,
		0.5, -0.5, 0, 1, 0,
		-0.5, -0.5, 0, 0, 1,
	}, data)
}

func TestColorOffset(t *testing.T) {
	v := Vertex{Position: mgl32.Vec2{7, 8}, Color: mgl32.Vec3{0.1, 0.2, 0.3}}
	data := Interleave([]Vertex{v})
	assert.Equal(t, float32(0.1), data[ColorOffset])
	assert.Equal(t, FloatsPerVertex, ColorOffset+3)
}

func TestShaderSources(t *testing.T) {
	for _, src := range []string{VertexShader, FragmentShader} {
		assert.True(t, strings.HasPrefix(src, "#version 330 core\n"))
		assert.True(t, strings.HasSuffix(src, "\x00"), "sources are passed to GL as C strings")
	}

	assert.Contains(t, VertexShader, "in vec2 "+PositionAttribute+";")
	assert.Contains(t, VertexShader, "in vec3 "+ColorAttribute+";")
	assert.Contains(t, VertexShader, "out vec3 vColor;")
	assert.Contains(t, FragmentShader, "in vec3 vColor;")
	assert.Contains(t, FragmentShader, "vec4(vColor, 1.0)")
}
