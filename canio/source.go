package canio

import (
	"context"
	"sync"
	"sync/atomic"

	"pathdriver-core/follower"
	"pathdriver-core/geometry"
)

// Source implements follower.PoseProvider by decoding VEHICLE_POSE_1 frames
// off a background reader goroutine and caching the most recent one. It is
// safe for concurrent use: GetWorldPose may be called from the tick loop
// while Run feeds it from the RX goroutine.
type Source struct {
	reader Reader
	cmap   *Map

	mu      sync.Mutex
	pose    follower.WorldPose
	hasPose bool

	frameCount atomic.Uint64
}

// NewSource wraps a Reader with the pose-frame decoder.
func NewSource(reader Reader, cmap *Map) *Source {
	return &Source{reader: reader, cmap: cmap}
}

// GetWorldPose returns the most recently decoded pose, if any has arrived
// yet.
func (s *Source) GetWorldPose() (follower.WorldPose, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose, s.hasPose
}

// FrameCount reports how many VEHICLE_POSE_1 frames have been decoded, for
// diagnostics.
func (s *Source) FrameCount() uint64 {
	return s.frameCount.Load()
}

// Run reads frames until ctx is cancelled or the reader errors, decoding
// VEHICLE_POSE_1 frames into the cached pose. It is meant to run in its own
// goroutine, supervised by an errgroup.
func (s *Source) Run(ctx context.Context) error {
	poseID, err := s.cmap.FrameByName(FramePose)
	if err != nil {
		return err
	}

	for {
		frame, err := s.reader.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if uint32(frame.ID) != poseID.ID {
			continue
		}

		values, err := s.cmap.DecodeEinrideFrame(frame)
		if err != nil {
			continue
		}

		s.mu.Lock()
		s.pose = follower.WorldPose{
			Waypoint: geometry.Waypoint{X: values["x"], Y: values["y"], Theta: values["heading"]},
		}
		s.hasPose = true
		s.mu.Unlock()
		s.frameCount.Add(1)
	}
}
