//go:build opengl43

package compute

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	backends["gl"] = func(workers int) Backend { return NewGLBackend(workers) }
	windowOnly["gl"] = true
}

const glGroupSize = 256

const accelerationShader = `#version 430
layout(local_size_x = 256) in;

layout(std430, binding = 0) readonly buffer Positions { vec2 pos[]; };
layout(std430, binding = 1) readonly buffer Masses { float mass[]; };
layout(std430, binding = 2) writeonly buffer Accelerations { vec2 acc[]; };

uniform int n;
uniform float g;
uniform float eps2;

void main() {
	int i = int(gl_GlobalInvocationID.x);
	if (i >= n) {
		return;
	}
	vec2 xi = pos[i];
	vec2 a = vec2(0.0);
	for (int j = 0; j < n; j++) {
		if (j == i) {
			continue;
		}
		vec2 r = pos[j] - xi;
		float rInv = inversesqrt(dot(r, r) + eps2);
		a += g * mass[j] * rInv * rInv * rInv * r;
	}
	acc[i] = a;
}
` + "\x00"

// GLBackend runs the pairwise kernel as an OpenGL 4.3 compute shader. It
// binds to the context current on the calling goroutine at the first
// call, so it must be driven from the window's render loop. If setup
// fails it falls back to the cpu backend and reports why through Err.
type GLBackend struct {
	program  uint32
	pos      uint32
	mass     uint32
	acc      uint32
	n        int
	ready    bool
	err      error
	fallback *CPUBackend
}

func NewGLBackend(workers int) *GLBackend {
	return &GLBackend{fallback: NewCPUBackend(workers)}
}

func (b *GLBackend) Name() string { return "gl" }

// Err is the setup failure that sent the backend to the cpu path, or nil.
func (b *GLBackend) Err() error { return b.err }

func (b *GLBackend) Accelerations(pos []mgl32.Vec2, mass []float32, g, softening float32, acc []mgl32.Vec2) {
	n := len(mass)
	if b.err == nil && (!b.ready || b.n != n) {
		b.err = b.init(mass)
	}
	if b.err != nil || n == 0 {
		b.fallback.Accelerations(pos, mass, g, softening, acc)
		return
	}

	gl.UseProgram(b.program)
	gl.Uniform1i(gl.GetUniformLocation(b.program, gl.Str("n\x00")), int32(n))
	gl.Uniform1f(gl.GetUniformLocation(b.program, gl.Str("g\x00")), g)
	gl.Uniform1f(gl.GetUniformLocation(b.program, gl.Str("eps2\x00")), softening*softening)

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.pos)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*8, gl.Ptr(&pos[0][0]))

	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.pos)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, b.mass)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 2, b.acc)

	gl.DispatchCompute(uint32((n+glGroupSize-1)/glGroupSize), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT)

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.acc)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*8, gl.Ptr(&acc[0][0]))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
}

// init compiles the kernel and sizes the buffers for len(mass) particles.
// Masses are uploaded once; they never change during a run.
func (b *GLBackend) init(mass []float32) error {
	n := len(mass)
	if n == 0 {
		return nil
	}
	if !b.ready {
		if err := gl.Init(); err != nil {
			return fmt.Errorf("failed to init opengl: %w", err)
		}
		program, err := createComputeProgram(accelerationShader)
		if err != nil {
			return err
		}
		b.program = program
		gl.GenBuffers(1, &b.pos)
		gl.GenBuffers(1, &b.mass)
		gl.GenBuffers(1, &b.acc)
	}

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.pos)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, n*8, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.mass)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, n*4, gl.Ptr(&mass[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.acc)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, n*8, nil, gl.DYNAMIC_READ)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)

	b.n = n
	b.ready = true
	return nil
}

func createComputeProgram(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to compile compute shader: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("failed to link compute program")
	}
	return program, nil
}
