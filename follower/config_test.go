package follower

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValidates(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := map[string]func(*Options){
		"negative dead_time":  func(o *Options) { o.DeadTime = -1 },
		"zero wp_tolerance":   func(o *Options) { o.WpTolerance = 0 },
		"zero wheelbase":      func(o *Options) { o.Wheelbase = 0 },
		"zero pid_ta":         func(o *Options) { o.PIDTa = 0 },
		"negative pid_i_max":  func(o *Options) { o.PIDIMax = -0.1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions()
			mutate(&opts)
			require.Error(t, opts.Validate())
		})
	}
}

func TestLoadOptionsOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.json")

	partial := map[string]float64{"pid_kp": 9.0}
	data, err := json.Marshal(partial)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	def := DefaultOptions()
	require.Equal(t, 9.0, opts.PIDKp)
	require.Equal(t, def.DeadTime, opts.DeadTime, "unmentioned keys keep their default")
	require.Equal(t, def.Wheelbase, opts.Wheelbase)
}

func TestLoadOptionsRejectsInvalidOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"l": 0}`), 0o644))

	_, err := LoadOptions(path)
	require.Error(t, err)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestPIDAssemblesFromOptions(t *testing.T) {
	opts := DefaultOptions()
	cfg := opts.PID()
	require.Equal(t, opts.PIDKp, cfg.Kp)
	require.Equal(t, opts.PIDKi, cfg.Ki)
	require.Equal(t, opts.PIDIMax, cfg.IMax)
	require.Equal(t, opts.PIDTa, cfg.Ta)
}
