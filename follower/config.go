package follower

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"pathdriver-core/pid"
)

// Options holds the configuration fixed for the lifetime of one goal.
// DeadTime, WpTolerance, Wheelbase, SteerSlowThreshold, and PID are
// consulted by the behaviour state machine; MaxSpeed is overwritten by
// SetGoal on every new goal; GoalTolerance is loaded but neither checked by
// Validate nor consulted by any behaviour (see DESIGN.md's open-question log —
// the covered source observably never read it either).
type Options struct {
	DeadTime           float64 `json:"dead_time"`
	WpTolerance        float64 `json:"waypoint_tolerance"`
	GoalTolerance      float64 `json:"goal_tolerance"`
	Wheelbase          float64 `json:"l"`
	SteerSlowThreshold float64 `json:"steer_slow_threshold"`
	MaxSpeed           float64 `json:"-"`
	VFilterAlpha       float64 `json:"v_filter_alpha"`

	PIDTa       float64 `json:"pid_ta"`
	PIDKp       float64 `json:"pid_kp"`
	PIDKi       float64 `json:"pid_ki"`
	PIDIMax     float64 `json:"pid_i_max"`
	PIDDeltaMax float64 `json:"pid_delta_max"`
	PIDEMax     float64 `json:"pid_e_max"`
}

// DefaultOptions returns the configuration table's defaults.
func DefaultOptions() Options {
	return Options{
		DeadTime:           0.10,
		WpTolerance:        0.20,
		GoalTolerance:      0.15,
		Wheelbase:          0.38,
		SteerSlowThreshold: 0.25,
		VFilterAlpha:       0.5,
		PIDTa:              0.03,
		PIDKp:              1.5,
		PIDKi:              0.001,
		PIDIMax:            0.0,
		PIDDeltaMax:        30 * math.Pi / 180,
		PIDEMax:            0.10,
	}
}

// PID assembles the pid.Config embedded in these Options.
func (o Options) PID() pid.Config {
	return pid.Config{
		Kp:       o.PIDKp,
		Ki:       o.PIDKi,
		IMax:     o.PIDIMax,
		DeltaMax: o.PIDDeltaMax,
		EMax:     o.PIDEMax,
		Ta:       o.PIDTa,
	}
}

// LoadOptions reads a JSON file and overlays it onto DefaultOptions: any
// key absent from the file keeps its default, since json.Unmarshal leaves
// unmentioned struct fields untouched.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("follower: read options file: %w", err)
	}

	opts := DefaultOptions()
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("follower: unmarshal options: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}

// Validate rejects configurations that could not produce a sane tick.
func (o Options) Validate() error {
	if o.DeadTime < 0 {
		return fmt.Errorf("follower: invalid dead_time: %f", o.DeadTime)
	}
	if o.WpTolerance <= 0 {
		return fmt.Errorf("follower: invalid waypoint_tolerance: %f", o.WpTolerance)
	}
	if o.Wheelbase == 0 {
		return fmt.Errorf("follower: invalid l (wheelbase): %f", o.Wheelbase)
	}
	if o.PIDTa <= 0 {
		return fmt.Errorf("follower: invalid pid_ta: %f", o.PIDTa)
	}
	if o.PIDIMax < 0 {
		return fmt.Errorf("follower: invalid pid_i_max: %f", o.PIDIMax)
	}
	return nil
}
