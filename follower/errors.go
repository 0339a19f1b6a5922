package follower

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"pathdriver-core/geometry"
	"pathdriver-core/predict"
)

// lateralDeadband is the |delta| < 0.1m band below which lateralDelta
// reports zero, to prevent chatter when already lined up with a cusp.
const lateralDeadband = 0.1

// headingError is normalize_angle(theta_next_wp_map - theta_robot_map).
func headingError(nextWpMap, robotMap geometry.Waypoint) float64 {
	return geometry.NormalizeAngle(nextWpMap.Theta - robotMap.Theta)
}

// lineError is the OnLine-mode cross-track error: the oriented line runs
// from the current (local-frame) waypoint to the next one in the same
// sub-path; the carrot's signed distance to that line is negated so that a
// positive error drives the robot back toward the line using the same sign
// convention as headingError.
func lineError(curLocal, nextLocal geometry.Waypoint, carrot predict.Point) float64 {
	line := geometry.NewLine2D(curLocal.Vec2(), nextLocal.Vec2())
	d := line.SignedDistance(mgl64.Vec2{carrot.X, carrot.Y})
	return -d
}

// lateralDelta is the ApproachTurningPoint-mode error: the local-frame y
// offset between the cusp waypoint and the carrot, dead-banded.
func lateralDelta(wpLocal geometry.Waypoint, carrot predict.Point) float64 {
	delta := wpLocal.Y - carrot.Y
	if math.Abs(delta) < lateralDeadband {
		return 0
	}
	return delta
}
