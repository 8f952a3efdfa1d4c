// Package gui draws the simulation in a raylib window.
package gui

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/shader"
	"github.com/san-kum/galaxysim/internal/sim"
)

const Title = "Universal N-Body Merger"

var colHud = rl.NewColor(140, 140, 140, 255)

// Run opens the window and advances s one frame per drawn frame until the
// window closes or ctx is done. Space pauses, H toggles the overlay.
func Run(ctx context.Context, s *sim.Simulator) error {
	r := s.Config().Render

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(r.Width), int32(r.Height), Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(r.FPS))

	bg := toColor(mgl32.Vec3(r.Background))
	radius := r.PointRadius * float32(r.Width)
	running, hud := true, true

	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if rl.IsKeyPressed(rl.KeySpace) {
			running = !running
		}
		if rl.IsKeyPressed(rl.KeyH) {
			hud = !hud
		}

		frame := s.Frame()
		if running {
			var err error
			if frame, err = s.Advance(); err != nil {
				return err
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(bg)
		drawFrame(frame, r.Width, r.Height, radius)
		if hud {
			info := s.Info()
			rl.DrawText(fmt.Sprintf("frame %d  t %.3f  %d fps", info.Frame, info.Time, rl.GetFPS()), 10, 10, 16, colHud)
			if !running {
				rl.DrawText("PAUSED", 10, 30, 16, colHud)
			}
			if err := fallbackErr(s); err != nil {
				rl.DrawText("gl backend unavailable, using cpu: "+err.Error(), 10, int32(r.Height)-26, 16, colHud)
			}
		}
		rl.EndDrawing()
	}
	return nil
}

// fallbackErr reports why a GPU kernel dropped to the cpu path, if it did.
func fallbackErr(s *sim.Simulator) error {
	if b, ok := s.Backend().(interface{ Err() error }); ok {
		return b.Err()
	}
	return nil
}

func drawFrame(f *shader.Frame, w, h int, radius float32) {
	for i, p := range f.Positions {
		rl.DrawCircleV(toScreen(p, w, h), radius, toColor(f.Colors[i]))
	}
}

// toScreen maps a normalized position to pixels; window y grows downward.
func toScreen(p mgl32.Vec2, w, h int) rl.Vector2 {
	return rl.NewVector2(p[0]*float32(w), (1-p[1])*float32(h))
}

func toColor(c mgl32.Vec3) rl.Color {
	return rl.NewColor(shader.Channel(c[0]), shader.Channel(c[1]), shader.Channel(c[2]), 255)
}
