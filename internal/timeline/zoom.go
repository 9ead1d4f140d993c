package timeline

import (
	"math"

	"github.com/alexanderramin/spanplan/internal/domain"
)

const (
	MinZoom = 0.2
	MaxZoom = 5.0

	ZoomOutFactor = 0.99
	ZoomInFactor  = 1.01
)

// Zoom is the scale multiplier applied to the base pixels-per-unit.
// The zero value is not usable; call NewZoom.
type Zoom struct {
	scale float64
}

func NewZoom() *Zoom {
	return &Zoom{scale: 1}
}

// Scale returns the current multiplier.
func (z *Zoom) Scale() float64 {
	return z.scale
}

// Set clamps and applies an explicit scale.
func (z *Zoom) Set(scale float64) {
	z.scale = clampScale(scale)
}

// Reset returns to 1.0.
func (z *Zoom) Reset() {
	z.scale = 1
}

// Wheel applies a wheel event. Only predominantly vertical deltas zoom;
// it returns false for horizontal ones so the caller can pan instead.
func (z *Zoom) Wheel(dx, dy float64) bool {
	if math.Abs(dy) <= math.Abs(dx) {
		return false
	}
	factor := ZoomInFactor
	if dy > 0 {
		factor = ZoomOutFactor
	}
	z.scale = clampScale(z.scale * factor)
	return true
}

// PixelsPerUnit is the zoomed width of one unit of mode.
func (z *Zoom) PixelsPerUnit(mode domain.ViewMode) float64 {
	return BasePixelsPerUnit(mode) * z.scale
}

func clampScale(s float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, s))
}
