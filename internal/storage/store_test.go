package storage

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func sampleResult() *Result {
	return &Result{
		IDs:   []string{"sun", "earth"},
		Times: []float64{0.0, 1.0},
		Frames: [][]r3.Vec{
			{{X: 0}, {X: 1.5e8}},
			{{X: 0}, {X: 1.4e8, Y: 2.5e7}},
		},
		Metrics: map[string]float64{
			"energy_drift": 1.5e-6,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("solar", 100, 0.5, 365, 42, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "solar" {
		t.Errorf("expected scenario 'solar', got '%s'", meta.Scenario)
	}

	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}

	if meta.Bodies != 2 {
		t.Errorf("expected 2 bodies, got %d", meta.Bodies)
	}

	if meta.Metrics["energy_drift"] != 1.5e-6 {
		t.Errorf("expected energy_drift 1.5e-6, got %g", meta.Metrics["energy_drift"])
	}

	states, times, ids, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 {
		t.Errorf("expected 2 state rows, got %d", len(states))
	}

	if len(times) != 2 {
		t.Errorf("expected 2 times, got %d", len(times))
	}

	if len(ids) != 2 || ids[0] != "sun" || ids[1] != "earth" {
		t.Errorf("expected body ids [sun earth], got %v", ids)
	}

	if len(states[0]) != 6 {
		t.Errorf("expected 6 columns per row, got %d", len(states[0]))
	}

	if states[0][3] != 1.5e8 {
		t.Errorf("expected earth x 1.5e8, got %g", states[0][3])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	_, err = st.Save("binary", 1, 0.5, 30, 0, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("cluster", 1, 0.5, 30, 7, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	metaPath := filepath.Join(runDir, "metadata.json")
	csvPath := filepath.Join(runDir, "states.csv")

	if _, err := os.Stat(metaPath); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "run.json")

	if err := ExportJSON(path, "solar", 100, 0.5, 365, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(data) == 0 {
		t.Error("expected non-empty export")
	}
}
