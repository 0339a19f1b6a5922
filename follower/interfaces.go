// Package follower implements the path-following control core: the
// behaviour state machine, error calculators, and the Driver facade that
// ties them to externally supplied pose, frame-transform, and actuation
// collaborators.
package follower

import "pathdriver-core/geometry"

// WorldPose is the localization estimate returned by a PoseProvider.
type WorldPose struct {
	geometry.Waypoint
	OrientationRaw float64
}

// PoseProvider supplies the robot's current pose in the map frame. It must
// be side-effect-free and return promptly; the facade treats a failed query
// as a terminal SlamFail for the in-progress goal.
type PoseProvider interface {
	GetWorldPose() (WorldPose, bool)
}

// FrameTransformer converts poses between the map frame and the robot-local
// frame. A false return is treated by the core as an InternalError.
type FrameTransformer interface {
	ToLocal(poseMap geometry.Waypoint) (geometry.Waypoint, bool)
	ToGlobal(poseLocal geometry.Waypoint) (geometry.Waypoint, bool)
}

// CommandSink receives the computed actuator command. Fire-and-forget: the
// facade does not wait for or react to anything from Publish.
type CommandSink interface {
	Publish(cmd Command)
}

// Visualizer sinks debug markers keyed by integer id and namespace. A nil
// Visualizer is never passed to behaviour code; NopVisualizer fills that role.
type Visualizer interface {
	Arrow(id int, ns string, pose geometry.Waypoint)
	Mark(id int, ns string, pose geometry.Waypoint)
}

// NopVisualizer discards every call. It is the default Visualizer when the
// caller has no debug sink to offer.
type NopVisualizer struct{}

func (NopVisualizer) Arrow(id int, ns string, pose geometry.Waypoint) {}
func (NopVisualizer) Mark(id int, ns string, pose geometry.Waypoint)  {}

// IdentityTransformer treats the map and local frames as coincident. It is
// useful for benches and tests where no real tf tree is available; it never
// fails.
type IdentityTransformer struct{}

func (IdentityTransformer) ToLocal(poseMap geometry.Waypoint) (geometry.Waypoint, bool) {
	return poseMap, true
}

func (IdentityTransformer) ToGlobal(poseLocal geometry.Waypoint) (geometry.Waypoint, bool) {
	return poseLocal, true
}
