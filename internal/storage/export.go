package storage

import (
	"encoding/json"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

type ExportData struct {
	Scenario  string             `json:"scenario"`
	TimeScale float64            `json:"time_scale"`
	Theta     float64            `json:"theta"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Bodies    []string           `json:"bodies"`
	Times     []float64          `json:"times"`
	Frames    [][]r3.Vec         `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func ExportJSON(path, scenario string, timeScale, theta, duration float64, result *Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeExport(file, scenario, timeScale, theta, duration, result)
}

func ExportJSONStdout(scenario string, timeScale, theta, duration float64, result *Result) error {
	return writeExport(os.Stdout, scenario, timeScale, theta, duration, result)
}

func writeExport(w io.Writer, scenario string, timeScale, theta, duration float64, result *Result) error {
	data := ExportData{
		Scenario:  scenario,
		TimeScale: timeScale,
		Theta:     theta,
		Duration:  duration,
		Steps:     len(result.Times),
		Bodies:    result.IDs,
		Times:     result.Times,
		Frames:    result.Frames,
		Metrics:   result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
