// Package report archives scenario reports on disk and renders them as
// text. Each report lives in its own directory holding report.json and
// CSV series for plotting.
package report

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

	"github.com/san-kum/neoshield/internal/scenario"
)

const (
	reportFile      = "report.json"
	approachesFile  = "approaches.csv"
	propagationFile = "propagation.csv"
)

// Series names accepted by LoadSeries.
const (
	SeriesApproaches  = "approaches"
	SeriesPropagation = "propagation"
)

var ErrNotFound = errors.New("report not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Summary is the listing view of a stored report.
type Summary struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	CreatedAt time.Time `json:"created_at"`
	EnergyMt  float64   `json:"energy_mt"`
	Torino    int       `json:"torino_scale"`
	Warnings  int       `json:"warnings"`
}

func Summarize(rep *scenario.Report) Summary {
	return Summary{
		ID:        rep.ID,
		Scenario:  rep.Scenario,
		CreatedAt: rep.CreatedAt,
		EnergyMt:  rep.EnergyMt.Value,
		Torino:    rep.TorinoScale,
		Warnings:  rep.WarningCount(),
	}
}

// Save writes rep under its ID and returns the directory used.
func (s *Store) Save(rep *scenario.Report) (string, error) {
	if rep.ID == "" {
		return "", fmt.Errorf("report for %s has no id", rep.Scenario)
	}
	dir := filepath.Join(s.baseDir, rep.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(dir, reportFile), rep); err != nil {
		return "", err
	}
	if a := rep.Approaches; a != nil && len(a.Samples) > 0 {
		rows := make([][2]float64, len(a.Samples))
		for i, smp := range a.Samples {
			rows[i] = [2]float64{smp.JD, smp.DistanceAU}
		}
		if err := writeSeries(filepath.Join(dir, approachesFile), "jd", rows); err != nil {
			return "", err
		}
	}
	if p := rep.Propagation; p != nil && len(p.Times) > 0 {
		rows := make([][2]float64, len(p.Times))
		for i := range p.Times {
			rows[i] = [2]float64{p.Times[i], p.DistancesAU[i]}
		}
		if err := writeSeries(filepath.Join(dir, propagationFile), "days", rows); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeSeries(path, timeHeader string, rows [][2]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{timeHeader, "distance_au"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			strconv.FormatFloat(r[0], 'f', 6, 64),
			strconv.FormatFloat(r[1], 'g', 10, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns stored reports, newest first. Directories without a
// readable report are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, err
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rep, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		out = append(out, Summarize(rep))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Load(id string) (*scenario.Report, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, reportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var rep scenario.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("report %s: %w", id, err)
	}
	return &rep, nil
}

// LoadSeries reads one of the CSV series saved with a report.
func (s *Store) LoadSeries(id, name string) (times, distances []float64, err error) {
	var file string
	switch name {
	case SeriesApproaches:
		file = approachesFile
	case SeriesPropagation:
		file = propagationFile
	default:
		return nil, nil, fmt.Errorf("unknown series: %s", name)
	}

	f, err := os.Open(filepath.Join(s.baseDir, id, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s has no %s series", ErrNotFound, id, name)
		}
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for _, rec := range records[min(1, len(records)):] {
		if len(rec) < 2 {
			continue
		}
		t, err1 := strconv.ParseFloat(rec[0], 64)
		d, err2 := strconv.ParseFloat(rec[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		times = append(times, t)
		distances = append(distances, d)
	}
	return times, distances, nil
}
