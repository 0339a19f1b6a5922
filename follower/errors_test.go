package follower

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"pathdriver-core/geometry"
	"pathdriver-core/predict"
)

func TestHeadingErrorNormalizes(t *testing.T) {
	next := geometry.Waypoint{Theta: math.Pi}
	robot := geometry.Waypoint{Theta: -math.Pi + 0.1}

	e := headingError(next, robot)
	require.InDelta(t, -0.1, e, 1e-9)
}

func TestLineErrorZeroWhenCarrotOnLine(t *testing.T) {
	cur := geometry.Waypoint{X: 0, Y: 0}
	next := geometry.Waypoint{X: 1, Y: 0}
	carrot := predict.Point{X: 0.5, Y: 0}

	require.InDelta(t, 0, lineError(cur, next, carrot), 1e-9)
}

func TestLineErrorSignFollowsOffsetSide(t *testing.T) {
	cur := geometry.Waypoint{X: 0, Y: 0}
	next := geometry.Waypoint{X: 1, Y: 0}

	left := lineError(cur, next, predict.Point{X: 0.5, Y: 1})
	right := lineError(cur, next, predict.Point{X: 0.5, Y: -1})

	require.NotEqual(t, 0.0, left)
	require.Equal(t, -left, right)
}

func TestLateralDeltaDeadband(t *testing.T) {
	wp := geometry.Waypoint{Y: 0}

	require.Equal(t, 0.0, lateralDelta(wp, predict.Point{Y: 0.05}), "within deadband")
	require.Equal(t, 0.0, lateralDelta(wp, predict.Point{Y: -0.099}), "just inside deadband")
}

func TestLateralDeltaOutsideDeadband(t *testing.T) {
	wp := geometry.Waypoint{Y: 0}

	d := lateralDelta(wp, predict.Point{Y: 0.2})
	require.InDelta(t, -0.2, d, 1e-9)
}

func TestLateralDeltaBoundaryIsExclusive(t *testing.T) {
	wp := geometry.Waypoint{Y: 0}

	// exactly at the boundary: |delta| < lateralDeadband is false at equality,
	// so the raw (negative) delta passes through unchanged.
	d := lateralDelta(wp, predict.Point{Y: lateralDeadband})
	require.InDelta(t, -lateralDeadband, d, 1e-9)
}
