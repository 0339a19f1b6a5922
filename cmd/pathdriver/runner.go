package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pathdriver-core/canio"
	"pathdriver-core/follower"
	"pathdriver-core/utils"
)

// RunnerConfig bundles the knobs the CLI exposes.
type RunnerConfig struct {
	Interface string
	MapPath   string
	GoalPath  string
	TickMS    int
}

// Runner owns the CAN transport, the follower Driver, and the tick loop
// that drives it.
type Runner struct {
	cfg    RunnerConfig
	log    *utils.Logger
	cmap   *canio.Map
	writer canio.Writer
	source *canio.Source
	sink   *canio.Sink
	driver *follower.Driver
	goal   GoalFile
}

// NewRunner wires a Runner from cfg: it loads the signal table and goal,
// dials the SocketCAN interface for both RX and TX, and constructs the
// follower.Driver against the resulting Source/Sink.
func NewRunner(ctx context.Context, cfg RunnerConfig, log *utils.Logger) (*Runner, error) {
	cmap := canio.DefaultMap()
	if cfg.MapPath != "" {
		loaded, err := canio.LoadMap(cfg.MapPath)
		if err != nil {
			return nil, fmt.Errorf("load can map: %w", err)
		}
		cmap = loaded
	}

	goal := demoGoal()
	if cfg.GoalPath != "" {
		loaded, err := LoadGoal(cfg.GoalPath)
		if err != nil {
			return nil, fmt.Errorf("load goal: %w", err)
		}
		goal = loaded
	}

	reader, err := canio.NewSocketCANReader(ctx, cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("open can reader: %w", err)
	}
	writer, err := canio.NewSocketCANWriter(ctx, cfg.Interface)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("open can writer: %w", err)
	}

	source := canio.NewSource(reader, cmap)
	sink := canio.NewSink(ctx, writer, cmap)

	driver := follower.NewDriver(source, follower.IdentityTransformer{}, sink, follower.NopVisualizer{}, log)
	driver.SetGoal(goal.Waypoints, goal.VMax)

	return &Runner{
		cfg:    cfg,
		log:    log,
		cmap:   cmap,
		writer: writer,
		source: source,
		sink:   sink,
		driver: driver,
		goal:   goal,
	}, nil
}

// Close closes the CAN writer. The reader held by the pose Source is not
// closed here.
func (r *Runner) Close() {
	if r.writer != nil {
		_ = r.writer.Close()
	}
}

// Run drives the follower at the configured tick rate until ctx is
// cancelled or the goal reaches a terminal status. The pose-RX goroutine
// and the tick loop are supervised together: either one failing cancels
// the other.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("starting pathdriver: iface=%s tick_ms=%d waypoints=%d v_max=%.3f",
		r.cfg.Interface, r.cfg.TickMS, len(r.goal.Waypoints), r.goal.VMax)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.Go(func() error {
		return r.source.Run(ctx)
	})

	g.Go(func() error {
		// A finished goal ends the tick loop with nil; cancel so the pose-RX
		// goroutine stops too.
		defer cancel()
		return r.tickLoop(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (r *Runner) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(r.cfg.TickMS) * time.Millisecond)
	defer ticker.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			r.driver.Stop()
			return nil
		case <-ticker.C:
			status := r.driver.Execute()
			ticks++
			if ticks%50 == 0 {
				r.log.Debug("tick=%d status=%s", ticks, status)
			}
			if sinkErr := r.sink.LastError(); sinkErr != nil {
				r.log.Error("publish failed: %v", sinkErr)
			}
			if status != follower.StatusMoving {
				r.log.Info("goal finished after %d ticks: %s", ticks, status)
				return nil
			}
		}
	}
}
