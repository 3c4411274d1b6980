package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/chutesim/internal/sim"
)

type ExportData struct {
	Run    *RunMetadata         `json:"run"`
	Keys   []string             `json:"keys"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSON writes the run metadata and every series as one indented
// document.
func ExportJSON(w io.Writer, meta *RunMetadata, series *sim.TimeSeries) error {
	data := ExportData{Run: meta}
	if series != nil {
		data.Keys = series.Keys()
		data.Series = series.Series()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
