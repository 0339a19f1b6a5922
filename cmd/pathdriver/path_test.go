package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pathdriver-core/geometry"
)

func TestDemoGoalIsLoadable(t *testing.T) {
	g := demoGoal()
	require.GreaterOrEqual(t, len(g.Waypoints), 2)
	require.Greater(t, g.VMax, 0.0)
}

func TestLoadGoalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goal.json")

	want := GoalFile{VMax: 1.2, Waypoints: []geometry.Waypoint{
		{X: 0, Y: 0, Theta: 0}, {X: 3, Y: 0, Theta: 0},
	}}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadGoal(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadGoalRejectsTooFewWaypoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v_max":1,"waypoints":[{"x":0,"y":0,"theta":0}]}`), 0o644))

	_, err := LoadGoal(path)
	require.Error(t, err)
}

func TestLoadGoalRejectsNonPositiveVMax(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v_max":0,"waypoints":[{"x":0,"y":0,"theta":0},{"x":1,"y":0,"theta":0}]}`), 0o644))

	_, err := LoadGoal(path)
	require.Error(t, err)
}

func TestLoadGoalMissingFile(t *testing.T) {
	_, err := LoadGoal(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
