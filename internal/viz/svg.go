package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/nbody/internal/sim"
)

type point struct{ X, Y float64 }

type trajectory struct {
	name   string
	points []point
}

// TrajectoryRecorder collects the path of every body it is asked to draw.
// It implements physics.Drawer. Each frame starts with Begin, and bodies are
// told apart by draw order within the frame, so shared names stay separate.
type TrajectoryRecorder struct {
	paths []trajectory
	next  int
}

func NewTrajectoryRecorder() *TrajectoryRecorder {
	return &TrajectoryRecorder{}
}

// Begin starts a new frame.
func (r *TrajectoryRecorder) Begin() {
	r.next = 0
}

// Record draws u as one frame.
func (r *TrajectoryRecorder) Record(u *sim.Universe) {
	r.Begin()
	u.Draw(r)
}

// Draw appends a point to the path at the current slot. Non-finite points
// are skipped but still occupy their slot.
func (r *TrajectoryRecorder) Draw(x, y float64, name string) {
	i := r.next
	r.next++
	if i >= len(r.paths) {
		r.paths = append(r.paths, trajectory{name: name})
	}

	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	r.paths[i].points = append(r.paths[i].points, point{x, y})
}

// Names returns the name of every recorded slot in draw order.
func (r *TrajectoryRecorder) Names() []string {
	names := make([]string, len(r.paths))
	for i, p := range r.paths {
		names[i] = p.name
	}
	return names
}

// Len returns the number of points recorded for slot i.
func (r *TrajectoryRecorder) Len(i int) int {
	if i < 0 || i >= len(r.paths) {
		return 0
	}
	return len(r.paths[i].points)
}

func (r *TrajectoryRecorder) bounds(radius float64) (minX, maxX, minY, maxY float64) {
	if radius > 0 {
		return -radius, radius, -radius, radius
	}

	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, path := range r.paths {
		for _, p := range path.points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

func (r *TrajectoryRecorder) empty() bool {
	for _, p := range r.paths {
		if len(p.points) > 0 {
			return false
		}
	}
	return true
}

// SVG renders every trajectory as a polyline with a dot at its final
// position. A positive radius fixes the view to [-radius, radius]².
func (r *TrajectoryRecorder) SVG(width, height int, radius float64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, CurrentTheme.Background)

	if r.empty() {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minX, maxX, minY, maxY := r.bounds(radius)
	rangeX := maxX - minX
	rangeY := maxY - minY

	project := func(p point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	for i, traj := range r.paths {
		path := traj.points
		if len(path) == 0 {
			continue
		}
		color := CurrentTheme.BodyColor(i)

		if len(path) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
			for j, p := range path {
				x, y := project(p)
				if j == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(path[len(path)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"><title>%s</title></circle>\n", x, y, color, ShortName(traj.name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
