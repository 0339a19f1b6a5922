package follower

import (
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"pathdriver-core/geometry"
	"pathdriver-core/pathset"
	"pathdriver-core/pid"
	"pathdriver-core/utils"
)

// TypeFollowPath is the constant discriminant returned by GetType.
const TypeFollowPath = "FOLLOW_PATH"

// Driver is the facade: it owns Options, the PathSet, the PID controller,
// the command buffer, and the active behaviour state, and exposes the only
// entry points external callers use (SetGoal, Execute, Stop, GetType).
//
// Driver is not safe for concurrent use; one goroutine drives it per the
// single-threaded cooperative tick model.
type Driver struct {
	pose      PoseProvider
	transform FrameTransformer
	sink      CommandSink
	viz       Visualizer
	log       *utils.Logger

	opts    Options
	pathSet pathset.PathSet
	pidCtrl *pid.Controller
	cmd     Command

	state      *BehaviourState
	vFiltered  float64
	pendingErr *Status
	lastStatus Status
	goalID     uuid.UUID
	tickCount  int
}

// NewDriver constructs a Driver against its external collaborators. viz may
// be nil, in which case a NopVisualizer is used. log may be nil, in which
// case the driver runs silently.
func NewDriver(pose PoseProvider, transform FrameTransformer, sink CommandSink, viz Visualizer, log *utils.Logger) *Driver {
	if viz == nil {
		viz = NopVisualizer{}
	}
	d := &Driver{
		pose:       pose,
		transform:  transform,
		sink:       sink,
		viz:        viz,
		log:        log,
		lastStatus: StatusSuccess,
	}
	d.Configure(DefaultOptions())
	return d
}

// Configure installs new Options, ahead of any SetGoal call. It resets the
// PID controller, per spec: reset is invoked on every reconfigure and at
// goal start.
func (d *Driver) Configure(opts Options) {
	d.ConfigureWithClock(opts, clock.New())
}

// ConfigureWithClock is Configure against an injected clock, so tests can
// advance the PID's sample-period gate deterministically instead of
// sleeping real time.
func (d *Driver) ConfigureWithClock(opts Options, c clock.Clock) {
	d.opts = opts
	d.pidCtrl = pid.NewWithClock(opts.PID(), c)
}

// GetType reports the behaviour type discriminant.
func (d *Driver) GetType() string {
	return TypeFollowPath
}

// SetGoal validates and segments path, then arms the facade to drive it at
// speed vMax. Rejected input arms a pending error instead of failing
// synchronously; the error surfaces on the next Execute call.
func (d *Driver) SetGoal(path []geometry.Waypoint, vMax float64) {
	d.pendingErr = nil

	ps, err := pathset.Segment(path)
	if err != nil {
		status := StatusInternalError
		d.pendingErr = &status
		if d.log != nil {
			d.log.Warn("set_goal rejected: %v", err)
		}
		return
	}

	d.pathSet = ps
	d.opts.MaxSpeed = vMax
	d.pidCtrl.Reset()
	d.state = nil
	d.cmd = Command{}
	d.vFiltered = 0
	d.goalID = uuid.New()
	d.tickCount = 0

	if d.log != nil {
		d.goalLog().Info("goal accepted: subpaths=%d waypoints=%d v_max=%.3f", ps.Len(), len(path), vMax)
	}
}

// goalLog derives a ScopedLogger carrying the active goal's correlation
// fields, so every line logged during that goal's lifetime can be grepped
// out by id without hand-formatting it into each call site.
func (d *Driver) goalLog() *utils.ScopedLogger {
	return d.log.Scoped(utils.Fields{"goal": d.goalID, "tick": d.tickCount})
}

// Execute runs one control tick and returns the resulting Status.
func (d *Driver) Execute() Status {
	if d.pendingErr != nil {
		status := *d.pendingErr
		d.pendingErr = nil
		d.haltWith(status)
		return status
	}

	if d.pathSet.Len() == 0 {
		return d.lastStatus
	}

	if d.state == nil {
		s := onLineState(Cursor{0, 0})
		d.state = &s
	}

	worldPose, ok := d.pose.GetWorldPose()
	if !ok {
		if d.log != nil {
			d.goalLog().Warn("pose query failed, goal aborted")
		}
		d.haltWith(StatusSlamFail)
		return StatusSlamFail
	}
	d.tickCount++

	ctx := &tickContext{
		opts:        &d.opts,
		pathSet:     &d.pathSet,
		pose:        worldPose.Waypoint,
		transformer: d.transform,
		pid:         d.pidCtrl,
		cmd:         &d.cmd,
		vFiltered:   d.vFiltered,
		viz:         d.viz,
	}

	next := tick(ctx, *d.state)

	if next.kind == kindDone {
		if d.log != nil {
			d.goalLog().Info("goal finished: %s", next.status)
		}
		d.haltWith(next.status)
		return next.status
	}

	d.state = &next
	d.vFiltered += d.opts.VFilterAlpha * (d.cmd.V - d.vFiltered)
	d.sink.Publish(d.cmd)

	return StatusMoving
}

// Stop clears the active state and zeroes the published velocity. It is
// idempotent: calling it twice is equivalent to calling it once.
func (d *Driver) Stop() {
	d.state = nil
	d.pathSet = pathset.PathSet{}
	d.cmd.V = 0
	d.lastStatus = StatusSuccess
	d.sink.Publish(d.cmd)
}

// haltWith performs the shared terminal sequence: clear the active state
// and the exhausted PathSet, publish a zero-velocity command, and latch the
// status so that subsequent Execute calls (with no intervening SetGoal)
// keep reporting it instead of silently re-driving the finished path. This
// generalizes spec §4.G step (ii)'s "PathSet empty -> return Success" to
// every terminal cause, since a driver that cleared its state but kept
// reporting a hardcoded Success after a SlamFail or InternalError would be
// indistinguishable from one that never failed.
func (d *Driver) haltWith(status Status) {
	d.state = nil
	d.pathSet = pathset.PathSet{}
	d.cmd.V = 0
	d.lastStatus = status
	d.sink.Publish(d.cmd)
}
