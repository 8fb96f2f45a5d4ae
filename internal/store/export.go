package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rteja/rodsim/internal/sim"
)

type ExportData struct {
	Scenario  string             `json:"scenario"`
	Stepper   string             `json:"stepper"`
	Dt        float64            `json:"dt"`
	FinalTime float64            `json:"final_time"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Bodies    []BodySeries       `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

type BodySeries struct {
	Name       string         `json:"name"`
	Positions  [][][3]float64 `json:"positions"`
	Velocities [][][3]float64 `json:"velocities"`
}

func buildExportData(scenario, stepper string, dt, finalTime float64, metrics map[string]float64, result *sim.Result) ExportData {
	data := ExportData{
		Scenario:  scenario,
		Stepper:   stepper,
		Dt:        dt,
		FinalTime: finalTime,
		Steps:     result.StepsTaken,
		Times:     result.Times,
		Metrics:   metrics,
	}

	for _, series := range result.Series {
		if len(series) == 0 {
			continue
		}
		body := BodySeries{Name: series[0].Snapshot.Name}
		for _, rec := range series {
			positions := make([][3]float64, len(rec.Snapshot.Positions))
			velocities := make([][3]float64, len(rec.Snapshot.Velocities))
			for i, p := range rec.Snapshot.Positions {
				positions[i] = p
			}
			for i, v := range rec.Snapshot.Velocities {
				velocities[i] = v
			}
			body.Positions = append(body.Positions, positions)
			body.Velocities = append(body.Velocities, velocities)
		}
		data.Bodies = append(data.Bodies, body)
	}

	return data
}

func ExportJSON(path, scenario, stepper string, dt, finalTime float64, metrics map[string]float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExportData(scenario, stepper, dt, finalTime, metrics, result))
}

func ExportJSONStdout(scenario, stepper string, dt, finalTime float64, metrics map[string]float64, result *sim.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExportData(scenario, stepper, dt, finalTime, metrics, result))
}

// ExportCSV writes one body's recorded trajectory: a row per record with
// the time followed by every nodal position, x y z per node.
func ExportCSV(path string, result *sim.Result, body int) error {
	if body < 0 || body >= len(result.Series) {
		return fmt.Errorf("store: no body series %d", body)
	}
	series := result.Series[body]
	if len(series) == 0 {
		return fmt.Errorf("store: body series %d is empty", body)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"time"}
	for i := range series[0].Snapshot.Positions {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, rec := range series {
		row := []string{strconv.FormatFloat(rec.Time, 'f', 6, 64)}
		for _, p := range rec.Snapshot.Positions {
			for k := 0; k < 3; k++ {
				row = append(row, strconv.FormatFloat(p[k], 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
