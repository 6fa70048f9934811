package geom

import "math"

// Vector is a displacement: an origin plus a direction. Vectors are values;
// every operation returns a new one.
type Vector struct {
	Origin    Point `json:"origin"`
	Direction Point `json:"direction"`
}

// NewVector creates a vector anchored at the global origin.
func NewVector(x, y float64) Vector {
	return Vector{Direction: Point{X: x, Y: y}}
}

func (v Vector) X() float64 { return v.Direction.X }
func (v Vector) Y() float64 { return v.Direction.Y }

func (v Vector) Add(other Vector) Vector {
	v.Direction.X += other.Direction.X
	v.Direction.Y += other.Direction.Y
	return v
}

func (v Vector) Subtract(other Vector) Vector {
	v.Direction.X -= other.Direction.X
	v.Direction.Y -= other.Direction.Y
	return v
}

func (v Vector) Multiply(scale float64) Vector {
	v.Direction.X *= scale
	v.Direction.Y *= scale
	return v
}

func (v Vector) Dot(other Vector) float64 {
	return v.Direction.X*other.Direction.X + v.Direction.Y*other.Direction.Y
}

func (v Vector) Length() float64 { return math.Hypot(v.Direction.X, v.Direction.Y) }

// Normalize returns the unit vector with the same heading. The zero vector
// normalizes to itself.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Multiply(1 / l)
}

// WithX returns a copy of v whose x component is replaced.
func (v Vector) WithX(x float64) Vector {
	v.Direction.X = x
	return v
}

// WithY returns a copy of v whose y component is replaced.
func (v Vector) WithY(y float64) Vector {
	v.Direction.Y = y
	return v
}

// IsZero reports whether both direction components are zero.
func (v Vector) IsZero() bool { return v.Direction.X == 0 && v.Direction.Y == 0 }

// Unit axes.
var (
	UnitX = NewVector(1, 0)
	UnitY = NewVector(0, 1)
)
