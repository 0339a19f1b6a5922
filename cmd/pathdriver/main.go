package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pathdriver-core/utils"
)

func main() {
	var (
		iface    = flag.String("iface", "vcan0", "SocketCAN interface name")
		mapPath  = flag.String("map", "", "Path to a custom can_map.csv (default: built-in VEHICLE_POSE_1/ACTUATOR_CMD_1)")
		goalPath = flag.String("goal", "", "Path to a goal JSON file (default: built-in out-and-back demo path)")
		tickMS   = flag.Int("tick-ms", 20, "Control tick period, milliseconds")
		logLevel = flag.String("log", "info", "trace|debug|info|warn|error|critical")
		logFile  = flag.String("log-file", "", "Also log to this file (default: stdout only)")
	)
	flag.Parse()

	level := parseLevel(*logLevel)

	var log *utils.Logger
	if *logFile != "" {
		var err error
		log, err = utils.NewFileLogger(*logFile, level, true)
		if err != nil {
			os.Stderr.WriteString("ERROR: cannot open log file: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer log.Close()
	} else {
		log = utils.NewStdoutLogger(level)
	}

	cfg := RunnerConfig{
		Interface: *iface,
		MapPath:   *mapPath,
		GoalPath:  *goalPath,
		TickMS:    *tickMS,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := NewRunner(ctx, cfg, log)
	if err != nil {
		log.Critical("startup failed: %v", err)
		os.Exit(1)
	}
	defer runner.Close()

	if err := runner.Run(ctx); err != nil {
		log.Critical("run failed: %v", err)
		os.Exit(1)
	}
}

func parseLevel(s string) utils.LogLevel {
	switch s {
	case "trace":
		return utils.TRACE
	case "debug":
		return utils.DEBUG
	case "info":
		return utils.INFO
	case "warn", "warning":
		return utils.WARN
	case "error":
		return utils.ERROR
	case "critical":
		return utils.CRITICAL
	default:
		return utils.INFO
	}
}
