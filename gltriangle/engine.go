// Package gltriangle draws the triangle with OpenGL 3.3 style shaders on a
// 4.1 core context.
package gltriangle

import (
	"log"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// WindowHints requests a forward compatible 4.1 core context
func WindowHints(resizable bool) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}
}

type Engine struct {
	Window     *glfw.Window
	ClearColor mgl32.Vec4
	FPS        int
	Verbose    bool

	program uint32
	vao     uint32
	vbo     uint32
}

// NewEngine makes the window's context current and uploads the triangle
func NewEngine(window *glfw.Window, clearColor mgl32.Vec4, fps int) (*Engine, error) {
	if fps <= 0 {
		return nil, errors.Newf("fps %d must be positive", fps)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gl init")
	}

	e := &Engine{Window: window, ClearColor: clearColor, FPS: fps}

	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var err error
	e.program, err = newProgram(VertexShader, FragmentShader)
	if err != nil {
		return nil, err
	}

	vertices := Interleave(Triangle)

	gl.GenVertexArrays(1, &e.vao)
	gl.BindVertexArray(e.vao)

	gl.GenBuffers(1, &e.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, e.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(FloatsPerVertex * floatSize)
	if err := e.bindAttribute(PositionAttribute, 2, stride, 0); err != nil {
		e.Destroy()
		return nil, err
	}
	if err := e.bindAttribute(ColorAttribute, 3, stride, ColorOffset*floatSize); err != nil {
		e.Destroy()
		return nil, err
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	log.Printf("[INFO] OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return e, nil
}

func (e *Engine) bindAttribute(name string, size, stride int32, offset int) error {
	location := gl.GetAttribLocation(e.program, gl.Str(name+"\x00"))
	if location < 0 {
		return errors.Newf("attribute %q not found in program", name)
	}
	gl.EnableVertexAttribArray(uint32(location))
	gl.VertexAttribPointer(uint32(location), size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
	return nil
}

// checkKeys closes the window on Escape
func (e *Engine) checkKeys() {
	if e.Window.GetKey(glfw.KeyEscape) == glfw.Press {
		e.Window.SetShouldClose(true)
	}
}

func (e *Engine) draw() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(e.program)
	gl.BindVertexArray(e.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(Triangle)))
	gl.BindVertexArray(0)
}

// Run draws at most FPS frames per second until the window closes or exit
// is signaled
func (e *Engine) Run(exit <-chan struct{}) error {
	ticker := time.NewTicker(time.Second / time.Duration(e.FPS))
	defer ticker.Stop()

	frames := 0
	start := time.Now()
loop:
	for !e.Window.ShouldClose() {
		e.checkKeys()
		e.draw()
		e.Window.SwapBuffers()
		glfw.PollEvents()
		frames++
		select {
		case <-exit:
			break loop
		case <-ticker.C:
		}
	}
	if e.Verbose {
		log.Printf("[INFO] %d frames in %s", frames, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// Destroy deletes the program and buffers, the context must still be current
func (e *Engine) Destroy() {
	if e.program != 0 {
		gl.DeleteProgram(e.program)
		e.program = 0
	}
	if e.vbo != 0 {
		gl.DeleteBuffers(1, &e.vbo)
		e.vbo = 0
	}
	if e.vao != 0 {
		gl.DeleteVertexArrays(1, &e.vao)
		e.vao = 0
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, errors.Newf("failed to compile %v: %v", source, infoLog)
	}
	return shader, nil
}

func newProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "vertex shader")
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, errors.Wrap(err, "fragment shader")
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	// shaders can be deleted after linking
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(program)
		return 0, errors.Newf("failed to link program: %v", infoLog)
	}
	return program, nil
}
