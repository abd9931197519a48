package viz

import (
	"math"
	"path/filepath"
	"strings"
)

// Scene renders bodies onto a Canvas. It implements physics.Drawer, mapping
// the square [-Radius, Radius]² of universe coordinates onto the canvas.
// Bodies are told apart by draw order within a frame, not by name.
type Scene struct {
	canvas *Canvas
	radius float64
	drawn  int
	last   []trailPoint

	// Trails keeps earlier frames' pixels so bodies leave a path.
	Trails bool
	// Labels prints each body's short name beside it.
	Labels bool
}

type trailPoint struct {
	px, py int
	ok     bool
}

func NewScene(w, h int, radius float64) *Scene {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		radius = 1
	}
	return &Scene{
		canvas: NewCanvas(w, h),
		radius: radius,
		Labels: true,
	}
}

func (s *Scene) Canvas() *Canvas { return s.canvas }
func (s *Scene) Radius() float64 { return s.radius }

// Begin starts a new frame.
func (s *Scene) Begin() {
	s.drawn = 0
	if !s.Trails {
		s.canvas.ClearPixels()
	}
	s.canvas.ClearText()
}

// Reset drops all pixels including trails.
func (s *Scene) Reset() {
	s.canvas.Clear()
	s.drawn = 0
	s.last = s.last[:0]
}

// Project maps universe coordinates to canvas pixels; ok is false when the
// point falls outside the canvas or is not finite.
func (s *Scene) Project(x, y float64) (px, py int, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, false
	}

	w, h := s.canvas.PixelWidth(), s.canvas.PixelHeight()
	scale := float64(min(w, h)) / (2 * s.radius)

	fx := float64(w)/2 + x*scale
	fy := float64(h)/2 - y*scale
	if fx < 0 || fy < 0 || fx >= float64(w) || fy >= float64(h) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Draw plots one body as a 2x2 dot with its label to the right. With
// Trails set, the dot is joined to the position drawn at the same slot in
// the previous frame.
func (s *Scene) Draw(x, y float64, name string) {
	i := s.drawn
	s.drawn++
	if i >= len(s.last) {
		s.last = append(s.last, trailPoint{})
	}

	px, py, ok := s.Project(x, y)
	if !ok {
		s.last[i] = trailPoint{}
		return
	}

	if prev := s.last[i]; prev.ok && s.Trails {
		s.canvas.DrawLine(prev.px, prev.py, px, py)
	}
	s.last[i] = trailPoint{px: px, py: py, ok: true}

	s.canvas.Set(px, py)
	s.canvas.Set(px+1, py)
	s.canvas.Set(px, py+1)
	s.canvas.Set(px+1, py+1)

	if s.Labels {
		s.canvas.Text(px/2+1, py/4, ShortName(name))
	}
}

func (s *Scene) String() string {
	return s.canvas.String()
}

// ShortName strips directories and the image extension from a display name.
func ShortName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return name
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
