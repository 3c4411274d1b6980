package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/san-kum/chutesim/internal/sim"
)

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// deployLogger logs every deployment of a run at info level.
type deployLogger struct {
	logger *slog.Logger
}

func (d deployLogger) OnStep(sim.Snapshot) {}

func (d deployLogger) OnDeploy(dep sim.Deployment) {
	d.logger.Info("canopy deployed",
		"phase", dep.Phase.Key(),
		"time_s", dep.Time,
		"altitude_m", dep.Altitude,
		"velocity_ms", dep.Velocity,
		"inflation_s", dep.InflationDuration,
	)
}
