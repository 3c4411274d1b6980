package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/config"
	"github.com/san-kum/chutesim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Outcome     sim.Outcome        `json:"outcome"`
	Steps       int                `json:"steps"`
	Config      *config.Config     `json:"config"`
	Summary     sim.Summary        `json:"summary"`
	Deployments []sim.Deployment   `json:"deployments"`
	Metrics     map[string]float64 `json:"metrics"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// NewRunID returns "<name>_<8 hex>" with the name made path safe.
func NewRunID(name string) string {
	return fmt.Sprintf("%s_%s", slug(name), uuid.NewString()[:8])
}

func slug(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	runID := NewRunID(name)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   time.Now(),
		Outcome:     result.Outcome,
		Steps:       result.Steps,
		Config:      cfg,
		Summary:     result.Summary,
		Deployments: result.Deployments,
		Metrics:     result.Metrics,
		Warnings:    result.Warnings,
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
			if result.Series == nil {
				return nil
			}
			return WriteCSV(w, result.Series)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("storage: save %s: %w", runID, err)
	}
	return runID, nil
}

// writeFile creates path, fills it with write and reports the first of the
// write and close errors.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes one header row of series keys followed by one row per
// step.
func WriteCSV(out io.Writer, ts *sim.TimeSeries) error {
	w := csv.NewWriter(out)

	keys := ts.Keys()
	if err := w.Write(keys); err != nil {
		return err
	}

	cols := ts.Series()
	row := make([]string, len(keys))
	for i := 0; i < ts.Len(); i++ {
		for j, k := range keys {
			row[j] = strconv.FormatFloat(cols[k][i], 'f', 6, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// validID rejects ids that would escape the base directory.
func validID(runID string) bool {
	return runID != "" && runID != "." && runID != ".." && !strings.ContainsAny(runID, `/\`)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if !validID(runID) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries rebuilds the time series of a saved run from its CSV.
func (s *Store) LoadSeries(runID string) (*sim.TimeSeries, error) {
	if !validID(runID) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses the format written by WriteCSV. Columns are matched by
// header name, so their order does not matter.
func ReadCSV(in io.Reader) (*sim.TimeSeries, error) {
	r := csv.NewReader(in)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if len(records) == 0 {
		return sim.NewTimeSeries(nil, 0), nil
	}

	header := records[0]
	col := make(map[string]int, len(header))
	var phases []chute.Phase
	for i, key := range header {
		col[key] = i
		if name, ok := strings.CutPrefix(key, "drag_"); ok {
			p, err := chute.ParsePhase(name)
			if err != nil {
				return nil, fmt.Errorf("storage: column %q: %w", key, err)
			}
			phases = append(phases, p)
		}
	}
	for _, key := range []string{sim.KeyTime, sim.KeyAltitude, sim.KeyVelocity} {
		if _, ok := col[key]; !ok {
			return nil, fmt.Errorf("storage: missing column %q", key)
		}
	}

	ts := sim.NewTimeSeries(phases, len(records)-1)
	drag := make([]float64, len(phases))
	for n, record := range records[1:] {
		values := make(map[string]float64, len(record))
		for key, i := range col {
			if i >= len(record) {
				continue
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d column %q: %w", n+1, key, err)
			}
			values[key] = v
		}
		for i, p := range phases {
			drag[i] = values[sim.DragKey(p)]
		}
		ts.Append(sim.Snapshot{
			Time:         values[sim.KeyTime],
			Altitude:     values[sim.KeyAltitude],
			Velocity:     values[sim.KeyVelocity],
			TotalDrag:    values[sim.KeyTotalDrag],
			PhaseDrag:    drag,
			Horizontal:   values[sim.KeyHorizontal],
			Acceleration: values[sim.KeyAcceleration],
			Mass:         values[sim.KeyMass],
		})
	}
	return ts, nil
}
