// Package pathset decomposes a raw waypoint list into direction-consistent
// sub-paths separated by cusps (direction reversals).
package pathset

import (
	"fmt"
	"math"

	"pathdriver-core/geometry"
)

// Path is a maximal contiguous subsequence of waypoints with tangent
// continuity (successive tangent directions differ by less than 60
// degrees). Paths are produced by Segment and never modified after.
type Path struct {
	Waypoints []geometry.Waypoint
}

// Len returns the number of waypoints in the path.
func (p Path) Len() int {
	return len(p.Waypoints)
}

// PathSet is an ordered sequence of sub-paths.
type PathSet struct {
	Paths []Path
}

// Len returns the number of sub-paths.
func (ps PathSet) Len() int {
	return len(ps.Paths)
}

// cuspThreshold is the strict tangent-angle-delta threshold above which a
// cusp is declared (pi/3 radians, 60 degrees); exactly pi/3 does not split.
const cuspThreshold = math.Pi / 3

// Segment splits a raw waypoint list into a PathSet on cusps. It rejects
// inputs shorter than two waypoints.
func Segment(w []geometry.Waypoint) (PathSet, error) {
	if len(w) < 2 {
		return PathSet{}, fmt.Errorf("pathset: need at least 2 waypoints, got %d", len(w))
	}

	var out []Path
	current := []geometry.Waypoint{w[0]}

	for i := 1; i < len(w); i++ {
		current = append(current, w[i])

		if i == len(w)-1 {
			out = append(out, Path{Waypoints: current})
			break
		}

		prevAngle := tangentAngle(w[i-1], w[i])
		nextAngle := tangentAngle(w[i], w[i+1])
		if math.Abs(geometry.AngleClamp(prevAngle-nextAngle)) > cuspThreshold {
			out = append(out, Path{Waypoints: current})
			current = []geometry.Waypoint{w[i]}
		}
	}

	return PathSet{Paths: out}, nil
}

func tangentAngle(a, b geometry.Waypoint) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}
