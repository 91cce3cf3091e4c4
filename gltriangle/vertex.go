package gltriangle

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FloatsPerVertex is the stride of the interleaved buffer in floats
	FloatsPerVertex = 5
	// ColorOffset is where the colour starts inside a vertex, in floats
	ColorOffset = 2

	floatSize = 4
)

// Vertex is a 2D position with an RGB colour
type Vertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec3
}

// Triangle is red at the top, green bottom right and blue bottom left
var Triangle = []Vertex{
	{Position: mgl32.Vec2{0.0, 0.5}, Color: mgl32.Vec3{1, 0, 0}},
	{Position: mgl32.Vec2{0.5, -0.5}, Color: mgl32.Vec3{0, 1, 0}},
	{Position: mgl32.Vec2{-0.5, -0.5}, Color: mgl32.Vec3{0, 0, 1}},
}

// Interleave lays vertices out as x, y, r, g, b
func Interleave(vertices []Vertex) []float32 {
	data := make([]float32, 0, len(vertices)*FloatsPerVertex)
	for _, v := range vertices {
		data = append(data, v.Position[0], v.Position[1], v.Color[0], v.Color[1], v.Color[2])
	}
	return data
}
