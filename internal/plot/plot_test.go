package plot

import (
	"os"
	"path/filepath"
	"testing"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[1:4]) != "PNG" {
		t.Errorf("not a PNG file: % x", data[:4])
	}
}

func TestTimeSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.png")
	times := []float64{0, 0.1, 0.2, 0.3}
	err := TimeSeries(path, "Energy", "E (J)", times,
		Series{Name: "translational", Values: []float64{1, 0.9, 0.8, 0.7}},
		Series{Name: "rotational", Values: []float64{0, 0.1, 0.2, 0.3}},
	)
	if err != nil {
		t.Fatal(err)
	}
	assertPNG(t, path)
}

func TestTimeSeriesRejectsMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	err := TimeSeries(path, "Bad", "E", []float64{0, 1},
		Series{Name: "short", Values: []float64{1}})
	if err == nil {
		t.Error("expected error for length mismatch")
	}
	if err := TimeSeries(path, "Empty", "E", nil); err == nil {
		t.Error("expected error for no data")
	}
}

func TestCenterline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "centerline.png")
	if err := Centerline(path, "Rod", []float64{0, 0.5, 1}, []float64{0, -0.1, -0.3}); err != nil {
		t.Fatal(err)
	}
	assertPNG(t, path)
}

func TestRollingSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.png")
	factors := []float64{0.5, 1.0, 1.5, 2.0}
	trans := []float64{0.31, 0.22, 0.16, 0.12}
	rot := []float64{0.08, 0.11, 0.12, 0.12}
	if err := RollingSweep(path, factors, trans, rot, 1.0, 1.0); err != nil {
		t.Fatal(err)
	}
	assertPNG(t, path)

	if err := RollingSweep(path, factors, trans[:2], rot, 1, 1); err == nil {
		t.Error("expected error for mismatched sweep data")
	}
}
