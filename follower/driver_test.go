package follower

import (
	"math"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"pathdriver-core/geometry"
)

// fakePoseProvider returns a fixed pose, or nothing at all once Fail is set.
type fakePoseProvider struct {
	pose geometry.Waypoint
	fail bool
}

func (f *fakePoseProvider) GetWorldPose() (WorldPose, bool) {
	if f.fail {
		return WorldPose{}, false
	}
	return WorldPose{Waypoint: f.pose}, true
}

// recordingSink captures every published command.
type recordingSink struct {
	published []Command
}

func (s *recordingSink) Publish(cmd Command) {
	s.published = append(s.published, cmd)
}

func (s *recordingSink) last() Command {
	return s.published[len(s.published)-1]
}

func newTestDriver(t *testing.T, pose *fakePoseProvider, sink *recordingSink) (*Driver, *clock.Mock) {
	t.Helper()
	return newTestDriverWithTransform(t, pose, IdentityTransformer{}, sink)
}

func newTestDriverWithTransform(t *testing.T, pose *fakePoseProvider, transform FrameTransformer, sink *recordingSink) (*Driver, *clock.Mock) {
	t.Helper()
	d := NewDriver(pose, transform, sink, nil, nil)
	mock := clock.NewMock()
	opts := DefaultOptions()
	opts.PIDTa = 0.01
	d.ConfigureWithClock(opts, mock)
	return d, mock
}

// relativeTransformer performs a genuine SE(2) map<->robot-local transform
// against whatever pose the robot currently reports, the way a real tf-tree
// FrameTransformer would. IdentityTransformer is not representative enough
// to exercise dir_sign: a waypoint behind the robot only has negative local
// x once the transform actually rotates and translates into the robot frame.
type relativeTransformer struct {
	pose *geometry.Waypoint
}

func (r relativeTransformer) ToLocal(poseMap geometry.Waypoint) (geometry.Waypoint, bool) {
	dx := poseMap.X - r.pose.X
	dy := poseMap.Y - r.pose.Y
	cos, sin := math.Cos(-r.pose.Theta), math.Sin(-r.pose.Theta)
	return geometry.Waypoint{
		X:     dx*cos - dy*sin,
		Y:     dx*sin + dy*cos,
		Theta: geometry.NormalizeAngle(poseMap.Theta - r.pose.Theta),
	}, true
}

func (r relativeTransformer) ToGlobal(poseLocal geometry.Waypoint) (geometry.Waypoint, bool) {
	cos, sin := math.Cos(r.pose.Theta), math.Sin(r.pose.Theta)
	return geometry.Waypoint{
		X:     poseLocal.X*cos - poseLocal.Y*sin + r.pose.X,
		Y:     poseLocal.X*sin + poseLocal.Y*cos + r.pose.Y,
		Theta: geometry.NormalizeAngle(poseLocal.Theta + r.pose.Theta),
	}, true
}

func straightPath() []geometry.Waypoint {
	return []geometry.Waypoint{{X: 0, Y: 0, Theta: 0}, {X: 1, Y: 0, Theta: 0}, {X: 2, Y: 0, Theta: 0}}
}

func outAndBackPath() []geometry.Waypoint {
	return []geometry.Waypoint{
		{X: 0, Y: 0, Theta: 0},
		{X: 1, Y: 0, Theta: 0},
		{X: 2, Y: 0, Theta: 0},
		{X: 1, Y: 0, Theta: math.Pi},
		{X: 0, Y: 0, Theta: math.Pi},
	}
}

func TestSetGoalRejectsShortPath(t *testing.T) {
	sink := &recordingSink{}
	d, _ := newTestDriver(t, &fakePoseProvider{}, sink)

	d.SetGoal([]geometry.Waypoint{{X: 0, Y: 0, Theta: 0}}, 1.0)
	status := d.Execute()

	require.Equal(t, StatusInternalError, status)

	status = d.Execute()
	require.Equal(t, StatusInternalError, status, "state remains idle: repeat calls keep reporting the latched error")
}

func TestExecuteWithNoGoalReturnsSuccess(t *testing.T) {
	sink := &recordingSink{}
	d, _ := newTestDriver(t, &fakePoseProvider{}, sink)

	require.Equal(t, StatusSuccess, d.Execute())
}

func TestStopIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	pose := &fakePoseProvider{pose: geometry.Waypoint{X: 0, Y: 0, Theta: 0}}
	d, _ := newTestDriver(t, pose, sink)

	d.SetGoal(straightPath(), 1.0)
	d.Execute()

	d.Stop()
	first := sink.last()
	d.Stop()
	second := sink.last()

	require.Equal(t, first, second)
	require.Equal(t, 0.0, second.V)
}

func TestLocalizationFailureHaltsAndZeroesVelocity(t *testing.T) {
	sink := &recordingSink{}
	pose := &fakePoseProvider{pose: geometry.Waypoint{X: 0, Y: 0, Theta: 0}}
	d, _ := newTestDriver(t, pose, sink)

	d.SetGoal(straightPath(), 1.0)
	d.Execute()

	pose.fail = true
	status := d.Execute()

	require.Equal(t, StatusSlamFail, status)
	require.Equal(t, 0.0, sink.last().V)

	// A subsequent execute() with no intervening SetGoal keeps reporting
	// the latched failure rather than silently restarting from OnLine(0,0).
	require.Equal(t, StatusSlamFail, d.Execute())
}

func TestStraightLineDrivesToSuccess(t *testing.T) {
	sink := &recordingSink{}
	pose := &fakePoseProvider{pose: geometry.Waypoint{X: 0, Y: 0, Theta: 0}}
	d, mock := newTestDriver(t, pose, sink)
	d.SetGoal(straightPath(), 1.0)

	var status Status
	for i := 0; i < 2000 && status != StatusSuccess; i++ {
		status = d.Execute()
		if status == StatusMoving {
			// advance the robot along its last published heading/velocity,
			// and the clock far enough to clear the PID's Ta gate every tick.
			mock.Add(20_000_000) // 20ms, well past the 0.01s default test Ta
			cmd := sink.last()
			pose.pose.X += cmd.V * 0.02
		}
	}

	require.Equal(t, StatusSuccess, status)
	require.InDelta(t, 0.0, sink.last().V, 1e-9, "final emitted command has zero velocity")

	// Once finished, repeated calls stay terminal without a new goal.
	require.Equal(t, StatusSuccess, d.Execute())
}

func TestSingleCuspReversesDirectionSign(t *testing.T) {
	sink := &recordingSink{}
	pose := &fakePoseProvider{pose: geometry.Waypoint{X: 0, Y: 0, Theta: 0}}
	transform := relativeTransformer{pose: &pose.pose}
	d, mock := newTestDriverWithTransform(t, pose, transform, sink)
	d.SetGoal(outAndBackPath(), 1.0)

	sawNegative := false
	var status Status
	for i := 0; i < 4000 && status != StatusSuccess; i++ {
		status = d.Execute()
		if status != StatusMoving {
			break
		}
		mock.Add(20_000_000)
		cmd := sink.last()
		if cmd.V < 0 {
			sawNegative = true
			require.LessOrEqual(t, math.Abs(cmd.V), 0.5+1e-9, "reverse sub-path speed is halved versus max_speed")
		}
		pose.pose.X += cmd.V * 0.02
	}

	require.Equal(t, StatusSuccess, status)
	require.True(t, sawNegative, "second sub-path should be driven in reverse (dir_sign = -1)")
}

func TestPendingErrorConsumedOnce(t *testing.T) {
	sink := &recordingSink{}
	pose := &fakePoseProvider{pose: geometry.Waypoint{X: 0, Y: 0, Theta: 0}}
	d, _ := newTestDriver(t, pose, sink)

	d.SetGoal([]geometry.Waypoint{{X: 0, Y: 0, Theta: 0}}, 1.0)

	require.Equal(t, StatusInternalError, d.Execute())
	require.Equal(t, StatusInternalError, d.Execute(), "latched lastStatus, not a second pending error")
}

func TestConfigureResetsIntegrator(t *testing.T) {
	sink := &recordingSink{}
	pose := &fakePoseProvider{pose: geometry.Waypoint{X: 0, Y: 0, Theta: 0}}
	d, mock := newTestDriver(t, pose, sink)
	d.SetGoal(straightPath(), 1.0)

	d.Execute()
	mock.Add(20_000_000)
	d.Execute()

	opts := DefaultOptions()
	opts.PIDTa = 0.01
	d.ConfigureWithClock(opts, mock)
	require.Equal(t, 0.0, d.pidCtrl.Integral())
}
