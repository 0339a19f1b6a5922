package main

import (
	"encoding/json"
	"fmt"
	"os"

	"pathdriver-core/geometry"
)

// GoalFile is the on-disk shape of a goal: a waypoint list and a top speed.
type GoalFile struct {
	VMax      float64             `json:"v_max"`
	Waypoints []geometry.Waypoint `json:"waypoints"`
}

// LoadGoal reads a GoalFile from a JSON file.
func LoadGoal(path string) (GoalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GoalFile{}, fmt.Errorf("read goal file: %w", err)
	}
	var g GoalFile
	if err := json.Unmarshal(data, &g); err != nil {
		return GoalFile{}, fmt.Errorf("unmarshal goal file: %w", err)
	}
	if len(g.Waypoints) < 2 {
		return GoalFile{}, fmt.Errorf("goal file needs at least 2 waypoints, got %d", len(g.Waypoints))
	}
	if g.VMax <= 0 {
		return GoalFile{}, fmt.Errorf("invalid v_max: %f", g.VMax)
	}
	return g, nil
}

// demoGoal is used when no -goal flag is supplied: a short out-and-back
// path with a single cusp, exercising both driving states.
func demoGoal() GoalFile {
	return GoalFile{
		VMax: 0.6,
		Waypoints: []geometry.Waypoint{
			{X: 0, Y: 0, Theta: 0},
			{X: 1, Y: 0, Theta: 0},
			{X: 2, Y: 0, Theta: 0},
			{X: 1, Y: 0, Theta: 3.141592653589793},
			{X: 0, Y: 0, Theta: 3.141592653589793},
		},
	}
}
