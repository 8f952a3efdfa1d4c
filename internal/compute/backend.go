package compute

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

type Backend interface {
	Name() string
	// Accelerations overwrites acc[i] with the softened gravitational
	// acceleration on particle i from all j != i.
	Accelerations(pos []mgl32.Vec2, mass []float32, g, softening float32, acc []mgl32.Vec2)
}

var backends = map[string]func(workers int) Backend{
	"cpu":    func(workers int) Backend { return NewCPUBackend(workers) },
	"serial": func(int) Backend { return NewSerialBackend() },
}

// windowOnly names backends that need a current GL context, which only
// the raylib window provides.
var windowOnly = map[string]bool{}

// RequiresWindow reports whether the named backend can only run inside
// the window's render loop.
func RequiresWindow(name string) bool { return windowOnly[name] }

// New builds the named backend. workers <= 0 means one per CPU.
func New(name string, workers int) (Backend, error) {
	fn, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownBackend, name, Names())
	}
	return fn(workers), nil
}

func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
