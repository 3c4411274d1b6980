package sim

import "github.com/san-kum/chutesim/internal/chute"

// Series keys returned by TimeSeries.Series.
const (
	KeyTime         = "time"
	KeyAltitude     = "altitude"
	KeyVelocity     = "velocity"
	KeyTotalDrag    = "total_drag"
	KeyHorizontal   = "horizontal_position"
	KeyAcceleration = "acceleration"
	KeyMass         = "mass"
)

// DragKey is the series key of one phase's drag force.
func DragKey(p chute.Phase) string {
	return "drag_" + p.Key()
}

// TimeSeries stores snapshots column by column.
type TimeSeries struct {
	Phases       []chute.Phase
	Time         []float64
	Altitude     []float64
	Velocity     []float64
	TotalDrag    []float64
	Horizontal   []float64
	Acceleration []float64
	Mass         []float64
	PhaseDrag    [][]float64 // [phase][step]
}

func NewTimeSeries(phases []chute.Phase, capacity int) *TimeSeries {
	ts := &TimeSeries{
		Phases:       append([]chute.Phase(nil), phases...),
		Time:         make([]float64, 0, capacity),
		Altitude:     make([]float64, 0, capacity),
		Velocity:     make([]float64, 0, capacity),
		TotalDrag:    make([]float64, 0, capacity),
		Horizontal:   make([]float64, 0, capacity),
		Acceleration: make([]float64, 0, capacity),
		Mass:         make([]float64, 0, capacity),
		PhaseDrag:    make([][]float64, len(phases)),
	}
	for i := range ts.PhaseDrag {
		ts.PhaseDrag[i] = make([]float64, 0, capacity)
	}
	return ts
}

// Append copies s into the series. Missing phase entries are stored as 0.
func (ts *TimeSeries) Append(s Snapshot) {
	ts.Time = append(ts.Time, s.Time)
	ts.Altitude = append(ts.Altitude, s.Altitude)
	ts.Velocity = append(ts.Velocity, s.Velocity)
	ts.TotalDrag = append(ts.TotalDrag, s.TotalDrag)
	ts.Horizontal = append(ts.Horizontal, s.Horizontal)
	ts.Acceleration = append(ts.Acceleration, s.Acceleration)
	ts.Mass = append(ts.Mass, s.Mass)
	for i := range ts.PhaseDrag {
		f := 0.0
		if i < len(s.PhaseDrag) {
			f = s.PhaseDrag[i]
		}
		ts.PhaseDrag[i] = append(ts.PhaseDrag[i], f)
	}
}

func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Time)
}

// At returns step i as a snapshot with its own PhaseDrag slice.
func (ts *TimeSeries) At(i int) Snapshot {
	drag := make([]float64, len(ts.PhaseDrag))
	for p := range ts.PhaseDrag {
		drag[p] = ts.PhaseDrag[p][i]
	}
	return Snapshot{
		Time:         ts.Time[i],
		Altitude:     ts.Altitude[i],
		Velocity:     ts.Velocity[i],
		TotalDrag:    ts.TotalDrag[i],
		PhaseDrag:    drag,
		Horizontal:   ts.Horizontal[i],
		Acceleration: ts.Acceleration[i],
		Mass:         ts.Mass[i],
	}
}

// PhaseSeries returns the drag series of p, or nil if p is not configured.
func (ts *TimeSeries) PhaseSeries(p chute.Phase) []float64 {
	for i, q := range ts.Phases {
		if q == p {
			return ts.PhaseDrag[i]
		}
	}
	return nil
}

// Keys lists series names in column order.
func (ts *TimeSeries) Keys() []string {
	keys := []string{KeyTime, KeyAltitude, KeyVelocity, KeyTotalDrag, KeyHorizontal, KeyAcceleration, KeyMass}
	for _, p := range ts.Phases {
		keys = append(keys, DragKey(p))
	}
	return keys
}

// Series returns every column keyed by name. All slices share an index.
func (ts *TimeSeries) Series() map[string][]float64 {
	out := map[string][]float64{
		KeyTime:         ts.Time,
		KeyAltitude:     ts.Altitude,
		KeyVelocity:     ts.Velocity,
		KeyTotalDrag:    ts.TotalDrag,
		KeyHorizontal:   ts.Horizontal,
		KeyAcceleration: ts.Acceleration,
		KeyMass:         ts.Mass,
	}
	for i, p := range ts.Phases {
		out[DragKey(p)] = ts.PhaseDrag[i]
	}
	return out
}
