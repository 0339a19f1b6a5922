package follower

import (
	"math"

	"pathdriver-core/geometry"
	"pathdriver-core/pathset"
	"pathdriver-core/pid"
	"pathdriver-core/predict"
)

// Status is the terminal or steady-state outcome of one Execute call.
type Status int

const (
	StatusMoving Status = iota
	StatusSuccess
	StatusSlamFail
	StatusInternalError
)

func (s Status) String() string {
	switch s {
	case StatusMoving:
		return "Moving"
	case StatusSuccess:
		return "Success"
	case StatusSlamFail:
		return "SlamFail"
	case StatusInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// stateKind discriminates the closed BehaviourState variant.
type stateKind int

const (
	kindOnLine stateKind = iota
	kindApproachTurningPoint
	kindDone
)

// Cursor is the follower's position along the active PathSet.
type Cursor struct {
	PathIdx, WpIdx int
}

// BehaviourState is the tagged sum {OnLine(cursor), ApproachTurningPoint(cursor),
// Done(status)}. A tick function's return value IS the transition directive:
// the facade simply replaces its active state with whatever comes back, and
// treats kindDone as terminal.
type BehaviourState struct {
	kind   stateKind
	cursor Cursor
	status Status
}

func onLineState(c Cursor) BehaviourState {
	return BehaviourState{kind: kindOnLine, cursor: c}
}

func approachState(c Cursor) BehaviourState {
	return BehaviourState{kind: kindApproachTurningPoint, cursor: c}
}

func doneState(s Status) BehaviourState {
	return BehaviourState{kind: kindDone, status: s}
}

// tickContext is the mutable view a tick function borrows for the duration
// of one call. No behaviour state retains a reference to it across ticks;
// the facade constructs a fresh one every Execute.
type tickContext struct {
	opts        *Options
	pathSet     *pathset.PathSet
	pose        geometry.Waypoint
	transformer FrameTransformer
	pid         *pid.Controller
	cmd         *Command
	vFiltered   float64
	viz         Visualizer
}

// tick dispatches to the tick function matching st.kind. Only kindOnLine and
// kindApproachTurningPoint are driving states; kindDone has no tick body
// (the facade never dispatches into it).
func tick(ctx *tickContext, st BehaviourState) BehaviourState {
	switch st.kind {
	case kindOnLine:
		return tickOnLine(ctx, st.cursor)
	case kindApproachTurningPoint:
		return tickApproachTurningPoint(ctx, st.cursor)
	default:
		return st
	}
}

func tickOnLine(ctx *tickContext, cursor Cursor) BehaviourState {
	path := ctx.pathSet.Paths[cursor.PathIdx]
	wpIdx := cursor.WpIdx

	for geometry.Distance(ctx.pose, path.Waypoints[wpIdx]) < ctx.opts.WpTolerance {
		if wpIdx == path.Len()-1 {
			return approachState(Cursor{cursor.PathIdx, wpIdx})
		}
		wpIdx++
	}
	if wpIdx == path.Len()-1 {
		return approachState(Cursor{cursor.PathIdx, wpIdx})
	}

	target := path.Waypoints[wpIdx]
	lineEnd := path.Waypoints[wpIdx+1]

	targetLocal, ok := ctx.transformer.ToLocal(target)
	if !ok {
		return doneState(StatusInternalError)
	}
	lineEndLocal, ok := ctx.transformer.ToLocal(lineEnd)
	if !ok {
		return doneState(StatusInternalError)
	}

	dirSign := geometry.Sgn(targetLocal.X)
	carrot := predictCarrot(ctx, dirSign)

	e := lineError(targetLocal, lineEndLocal, carrot) + headingError(target, ctx.pose)

	speed := ctx.opts.MaxSpeed
	if dirSign < 0 {
		speed /= 2
	}
	issueCommand(ctx, e, speed, dirSign)

	ctx.viz.Mark(wpIdx, "target", target)
	ctx.viz.Arrow(0, "robot", ctx.pose)

	return onLineState(Cursor{cursor.PathIdx, wpIdx})
}

func tickApproachTurningPoint(ctx *tickContext, cursor Cursor) BehaviourState {
	path := ctx.pathSet.Paths[cursor.PathIdx]
	wpIdx := path.Len() - 1
	wp := path.Waypoints[wpIdx]

	wpLocal, ok := ctx.transformer.ToLocal(wp)
	if !ok {
		return doneState(StatusInternalError)
	}
	dirSign := geometry.Sgn(wpLocal.X)

	next := approachState(Cursor{cursor.PathIdx, wpIdx})
	if cuspReached(ctx.pose, wp) {
		nextPathIdx := cursor.PathIdx + 1
		if nextPathIdx < ctx.pathSet.Len() {
			next = onLineState(Cursor{nextPathIdx, 0})
		} else {
			next = doneState(StatusSuccess)
		}
	}

	carrot := predictCarrot(ctx, dirSign)
	e := lateralDelta(wpLocal, carrot) + headingError(wp, ctx.pose)

	issueCommand(ctx, e, 0.1, dirSign) // fixed crawl speed while approaching a cusp

	ctx.viz.Mark(wpIdx, "cusp", wp)
	ctx.viz.Arrow(0, "robot", ctx.pose)

	return next
}

// cuspReached implements the cusp-reached test: the waypoint has fallen
// behind the robot along the sub-path tangent once the bearing to it
// differs from the waypoint's own heading by at least a quarter turn.
func cuspReached(robotMap, wp geometry.Waypoint) bool {
	bearing := math.Atan2(wp.Y-robotMap.Y, wp.X-robotMap.X)
	alpha := geometry.AngleClamp(bearing - math.Atan2(math.Sin(wp.Theta), math.Cos(wp.Theta)))
	return math.Abs(alpha) >= math.Pi/2
}

func predictCarrot(ctx *tickContext, dirSign float64) predict.Point {
	cmd := predict.Command{V: ctx.cmd.V, SteerFront: ctx.cmd.SteerFront, SteerBack: ctx.cmd.SteerBack}
	cfg := predict.Config{Wheelbase: ctx.opts.Wheelbase, DeadTime: ctx.opts.DeadTime}
	carrot := predict.Predict(cmd, cfg, ctx.vFiltered)
	return carrot.Pick(dirSign)
}

// issueCommand is the shared command-writing step used by both driving
// states. It leaves ctx.cmd untouched when the PID is gated (still within
// the Ta sample period), so the previously-latched command remains active.
func issueCommand(ctx *tickContext, e, speed, dirSign float64) {
	delta, ok := ctx.pid.Tick(e)
	if !ok {
		return
	}

	if math.Abs(delta) > ctx.opts.SteerSlowThreshold {
		speed /= 2
	}

	ctx.cmd.SteerFront = dirSign * delta
	ctx.cmd.SteerBack = 0
	ctx.cmd.V = dirSign * speed
}
