package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/rotation"
)

type Sample struct {
	T          float64    `json:"t"`
	Quaternion [4]float64 `json:"quaternion"`
	Euler      [3]float64 `json:"euler"`
	Rate       [3]float64 `json:"rate"`
	Norm       float64    `json:"norm"`
}

type ExportData struct {
	RunMetadata
	History []Sample `json:"history"`
}

func newExportData(meta RunMetadata, tr *attitude.Trajectory) ExportData {
	data := ExportData{RunMetadata: meta, History: make([]Sample, tr.Len())}
	data.RunMetadata.Samples = tr.Len()
	for i := range tr.Times {
		r := tr.Rates[i]
		data.History[i] = Sample{
			T:          tr.Times[i],
			Quaternion: tr.Quaternions[i].AsVector(),
			Euler:      tr.Euler[i].AsVector(rotation.Radians),
			Rate:       [3]float64{r.X, r.Y, r.Z},
			Norm:       tr.Norms[i],
		}
	}
	return data
}

// ExportJSON writes the run with its full sample history to path.
func ExportJSON(path string, meta RunMetadata, tr *attitude.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSONTo(file, meta, tr)
}

func ExportJSONTo(w io.Writer, meta RunMetadata, tr *attitude.Trajectory) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, tr))
}
