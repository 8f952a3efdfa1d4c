// Package export writes shaded frames and metric series as SVG.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/shader"
)

// WriteSVG writes frame as one SVG document sized by r, a circle per
// particle on the background color.
func WriteSVG(w io.Writer, frame *shader.Frame, r config.RenderConfig) error {
	bw := bufio.NewWriter(w)
	width, height := float32(r.Width), float32(r.Height)

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, r.Width, r.Height, r.Width, r.Height, shader.Hex(mgl32.Vec3(r.Background)))

	radius := r.PointRadius * width
	for i, p := range frame.Positions {
		fmt.Fprintf(bw, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>
`, p[0]*width, (1-p[1])*height, radius, shader.Hex(frame.Colors[i]))
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// WriteSeriesSVG plots values as a polyline scaled to fill width x height.
func WriteSeriesSVG(w io.Writer, values []float64, width, height int, stroke string) error {
	if len(values) < 2 {
		return fmt.Errorf("series needs at least 2 points, got %d", len(values))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`, width, height, width, height, stroke)

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		x := float64(i) * step
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}

	bw.WriteString("\"/>\n</svg>\n")
	return bw.Flush()
}
