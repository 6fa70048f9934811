package board

import "github.com/zeusync/tabletop/internal/core/geom"

// Viewport converts between local (screen) and global (world) coordinates.
// Global = local / zoom - pan.
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func (v Viewport) L2GX(x float64) float64 { return x/v.zoom() - v.PanX }
func (v Viewport) L2GY(y float64) float64 { return y/v.zoom() - v.PanY }
func (v Viewport) G2LX(x float64) float64 { return (x + v.PanX) * v.zoom() }
func (v Viewport) G2LY(y float64) float64 { return (y + v.PanY) * v.zoom() }

// L2GZ scales a local length to global units.
func (v Viewport) L2GZ(z float64) float64 { return z / v.zoom() }

func (v Viewport) L2G(p geom.LocalPoint) geom.Point {
	return geom.Point{X: v.L2GX(p.X), Y: v.L2GY(p.Y)}
}

func (v Viewport) G2L(p geom.Point) geom.LocalPoint {
	return geom.LocalPoint{X: v.G2LX(p.X), Y: v.G2LY(p.Y)}
}

// L2GVector converts a local displacement. Displacements only scale; panning
// does not apply.
func (v Viewport) L2GVector(d geom.LocalPoint) geom.Vector {
	return geom.NewVector(v.L2GZ(d.X), v.L2GZ(d.Y))
}
