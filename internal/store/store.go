package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rteja/rodsim/internal/sim"
)

// Store persists simulation runs under a base directory, one subdirectory
// per run holding metadata plus the recorded trajectories.
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
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Stepper   string             `json:"stepper"`
	Dt        float64            `json:"dt"`
	FinalTime float64            `json:"final_time"`
	Steps     int                `json:"steps"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run: metadata.json plus a trajectory CSV per body.
func (s *Store) Save(scenario, stepper string, dt, finalTime float64, metrics map[string]float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Stepper:   stepper,
		Dt:        dt,
		FinalTime: finalTime,
		Steps:     result.StepsTaken,
		Metrics:   metrics,
	}
	for _, series := range result.Series {
		if len(series) > 0 {
			meta.Bodies = append(meta.Bodies, series[0].Snapshot.Name)
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for i, name := range meta.Bodies {
		path := filepath.Join(runDir, name+"_trajectory.csv")
		if err := ExportCSV(path, result, i); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}
	var runs []string
	for _, e := range entries {
		if e.IsDir() {
			runs = append(runs, e.Name())
		}
	}
	return runs, nil
}
