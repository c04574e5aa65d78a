package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/golang/geo/r3"
	"k8s.io/klog/v2"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/rotation"
)

var ErrMalformed = errors.New("store: malformed states file")

var columns = []string{"t", "w", "x", "y", "z", "roll", "pitch", "yaw", "p", "q", "r", "norm"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	Renormalize bool               `json:"renormalize"`
	Initial     [4]float64         `json:"initial"`
	Samples     int                `json:"samples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv into a fresh run directory and
// returns its id.
func (s *Store) Save(sc attitude.Scenario, tr *attitude.Trajectory) (string, error) {
	name := sc.Name
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID, runDir, err := s.mkRunDir(fmt.Sprintf("%s_%d", name, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    sc.Name,
		Timestamp:   now,
		Dt:          sc.Dt,
		Duration:    sc.Duration,
		Integrator:  sc.Integrator,
		Renormalize: sc.Renormalize,
		Initial:     sc.Initial.AsVector(),
		Samples:     tr.Len(),
		Metrics:     tr.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), tr); err != nil {
		return "", err
	}

	klog.V(2).InfoS("saved run", "id", runID, "dir", runDir, "samples", tr.Len())
	return runID, nil
}

func (s *Store) mkRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeStates(path string, tr *attitude.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for i := range tr.Times {
		q := tr.Quaternions[i].AsVector()
		e := tr.Euler[i]
		rate := tr.Rates[i]
		row := []string{
			formatFloat(tr.Times[i]),
			formatFloat(q[0]), formatFloat(q[1]), formatFloat(q[2]), formatFloat(q[3]),
			formatFloat(e.Roll()), formatFloat(e.Pitch()), formatFloat(e.Yaw()),
			formatFloat(rate.X), formatFloat(rate.Y), formatFloat(rate.Z),
			formatFloat(tr.Norms[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the readable runs, oldest first. Directories without a
// parseable metadata.json are skipped.
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
			klog.V(4).InfoS("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads states.csv back into a trajectory. Columns are
// matched by header name.
func (s *Store) LoadTrajectory(runID string) (*attitude.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: run %s has no header", ErrMalformed, runID)
	}

	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[name] = i
	}
	for _, name := range columns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: run %s missing column %q", ErrMalformed, runID, name)
		}
	}

	n := len(records) - 1
	tr := &attitude.Trajectory{
		Times:       make([]float64, 0, n),
		Quaternions: make([]rotation.UnitQuaternion, 0, n),
		Euler:       make([]rotation.EulerAngles, 0, n),
		Rates:       make([]r3.Vector, 0, n),
		Norms:       make([]float64, 0, n),
	}
	if meta, err := s.Load(runID); err == nil {
		tr.Metrics = meta.Metrics
	}

	for line, record := range records[1:] {
		vals := make(map[string]float64, len(columns))
		for _, name := range columns {
			v, err := strconv.ParseFloat(record[idx[name]], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: run %s line %d: %v", ErrMalformed, runID, line+2, err)
			}
			vals[name] = v
		}
		tr.Times = append(tr.Times, vals["t"])
		tr.Quaternions = append(tr.Quaternions, rotation.QuaternionFromComponents(vals["w"], vals["x"], vals["y"], vals["z"]))
		tr.Euler = append(tr.Euler, rotation.EulerFromAngles(vals["roll"], vals["pitch"], vals["yaw"], rotation.Radians))
		tr.Rates = append(tr.Rates, r3.Vector{X: vals["p"], Y: vals["q"], Z: vals["r"]})
		tr.Norms = append(tr.Norms, vals["norm"])
	}
	return tr, nil
}
