// Package geometry implements the SE(2) primitives the path follower uses:
// waypoints, angle normalization, and signed distance to an oriented line.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Waypoint is a pose in a 2D frame. The frame (map or robot-local) is
// determined by context; Waypoint itself carries no frame tag.
type Waypoint struct {
	X, Y, Theta float64
}

// Vec2 returns the position component as a mathgl vector, for use with
// Line2D and other vector arithmetic.
func (w Waypoint) Vec2() mgl64.Vec2 {
	return mgl64.Vec2{w.X, w.Y}
}

// NormalizeAngle folds a into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleClamp is an alias for NormalizeAngle, kept distinct per spec
// terminology: segmentation and turning-point tests use AngleClamp while
// error calculators use NormalizeAngle.
func AngleClamp(a float64) float64 {
	return NormalizeAngle(a)
}

// Sgn returns +1 if x >= 0, else -1. Zero is treated as positive; this
// convention is load-bearing for dir_sign derivation (see DESIGN.md).
func Sgn(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}

// Distance returns the Euclidean distance between two waypoints' positions,
// ignoring heading.
func Distance(a, b Waypoint) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// Line2D is the directed line through P0 and P1.
type Line2D struct {
	P0, P1 mgl64.Vec2
}

// NewLine2D builds the directed line from p0 to p1.
func NewLine2D(p0, p1 mgl64.Vec2) Line2D {
	return Line2D{P0: p0, P1: p1}
}

// SignedDistance returns the signed distance from q to the line, positive
// on the left of the directed line P0->P1.
func (l Line2D) SignedDistance(q mgl64.Vec2) float64 {
	dir := l.P1.Sub(l.P0)
	length := dir.Len()
	if length == 0 {
		return q.Sub(l.P0).Len()
	}
	toQ := q.Sub(l.P0)
	cross := dir[0]*toQ[1] - dir[1]*toQ[0]
	return cross / length
}
