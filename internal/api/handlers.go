package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/config"
	"github.com/san-kum/chutesim/internal/metrics"
	"github.com/san-kum/chutesim/internal/sim"
	"github.com/san-kum/chutesim/internal/storage"
	"github.com/san-kum/chutesim/internal/sweep"
	"github.com/san-kum/chutesim/internal/telemetry"
)

// maxSweepValues bounds the work a single sweep request can queue.
const maxSweepValues = 200

// Per-run sample budgets. A run that keeps its series is held to the
// tighter one.
const (
	maxRunSamples     = 10_000_000
	maxHistorySamples = 1_000_000
)

// checkSampleBudget leaves non-positive steps to validation.
func checkSampleBudget(cc chute.Config, budget float64) error {
	dt := cc.Global.TimeStep
	if dt <= 0 {
		return nil
	}
	if n := sim.MaxSamples(dt); n > budget {
		return fmt.Errorf("time_step %g allows up to %.0f samples, over the limit of %.0f",
			dt, n, budget)
	}
	return nil
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// SimulateResponse is the body of a successful POST /api/v1/simulate.
type SimulateResponse struct {
	RunID       string               `json:"run_id,omitempty"`
	Outcome     sim.Outcome          `json:"outcome"`
	Summary     sim.Summary          `json:"summary"`
	Deployments []sim.Deployment     `json:"deployments"`
	Metrics     map[string]float64   `json:"metrics"`
	Warnings    []string             `json:"warnings,omitempty"`
	Steps       int                  `json:"steps"`
	Series      map[string][]float64 `json:"series,omitempty"`
}

// SweepRequest is the body of POST /api/v1/sweep.
type SweepRequest struct {
	Config             config.Config `json:"config"`
	Phase              string        `json:"phase"`
	Param              string        `json:"param"`
	From               float64       `json:"from"`
	To                 float64       `json:"to"`
	Step               float64       `json:"step"`
	MaxLandingVelocity float64       `json:"max_landing_velocity"`
}

type SweepResponse struct {
	Points []sweep.Point `json:"points"`
	Best   *sweep.Point  `json:"best,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr *chute.ValidationError
	if errors.As(err, &verr) {
		resp.Problems = verr.Problems
	}
	writeJSON(w, status, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func listPresetsHandler(w http.ResponseWriter, r *http.Request) {
	names := config.ListPresets()
	presets := make([]*config.Config, 0, len(names))
	for _, name := range names {
		presets = append(presets, config.GetPreset(name))
	}
	writeJSON(w, http.StatusOK, presets)
}

func getPresetHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	cfg := config.GetPreset(name)
	if cfg == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown preset: %s", name))
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func simulateHandler(logger *slog.Logger, store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg config.Config
		if err := decodeBody(w, r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		cc, err := cfg.ToChute()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		query := r.URL.Query()
		wantSeries, _ := strconv.ParseBool(query.Get("series"))
		save, _ := strconv.ParseBool(query.Get("save"))
		save = save && store != nil

		opts := []sim.Option{sim.WithMetrics(metrics.Defaults()...)}
		budget := float64(maxHistorySamples)
		if !wantSeries && !save {
			opts = append(opts, sim.WithoutHistory())
			budget = maxRunSamples
		}
		if err := checkSampleBudget(cc, budget); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		res, err := telemetry.Simulate(cc, opts...)
		if err != nil {
			logger.Debug("rejected config", "component", "api", "error", err)
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resp := SimulateResponse{
			Outcome:     res.Outcome,
			Summary:     res.Summary,
			Deployments: res.Deployments,
			Metrics:     res.Metrics,
			Warnings:    res.Warnings,
			Steps:       res.Steps,
		}
		if wantSeries {
			resp.Series = res.Series.Series()
		}
		if save {
			runID, err := store.Save(cfg.Name, &cfg, res)
			if err != nil {
				logger.Error("save run", "component", "api", "error", err)
				writeError(w, http.StatusInternalServerError, errors.New("could not save run"))
				return
			}
			resp.RunID = runID
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func sweepHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SweepRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		cc, err := req.Config.ToChute()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		phase, err := chute.ParsePhase(req.Phase)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		values, err := sweep.Range(req.From, req.To, req.Step, maxSweepValues)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := checkSampleBudget(cc, maxRunSamples); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		s := sweep.Sweep{Phase: phase, Param: req.Param, Values: values}
		run := func(cfg chute.Config) (*sim.Result, error) {
			return telemetry.Simulate(cfg, sim.WithoutHistory())
		}
		points, err := s.RunWith(r.Context(), cc, 0, run)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resp := SweepResponse{Points: points}
		if best, err := sweep.Best(points, req.MaxLandingVelocity); err == nil {
			resp.Best = &best
		}
		logger.Debug("sweep", "component", "api", "phase", phase.Key(), "param", req.Param, "values", len(values))
		writeJSON(w, http.StatusOK, resp)
	}
}

func listRunsHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := store.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func getRunHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := store.Load(r.PathValue("id"))
		if errors.Is(err, storage.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, meta)
	}
}
