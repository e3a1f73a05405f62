package solarkit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func j2000() time.Time {
	return time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
}

// csvRows returns the non-comment lines of an export artifact.
func csvRows(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []string
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if !strings.HasPrefix(line, "#") {
			rows = append(rows, line)
		}
	}
	return rows
}

func TestFrameWriterStreamsPositions(t *testing.T) {
	dir := t.TempDir()
	conf := ExportConfig{Filename: "test", OutputDir: dir, AsCSV: true, AsJSON: true, Epoch: j2000()}
	w, err := NewFrameWriter(conf)
	if err != nil {
		t.Fatal(err)
	}
	d := newTestDriver(t, fastCfg(AnimatedOrbits, "Venus", "Earth"), w)
	if err := d.Animate(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rows := csvRows(t, filepath.Join(dir, "positions-test.csv"))
	// Header row plus one row per tick.
	if len(rows) != 1+d.Ctx.Steps {
		t.Fatalf("got %d rows, want %d", len(rows), 1+d.Ctx.Steps)
	}
	if !strings.Contains(rows[0], "Venus_x") || !strings.Contains(rows[0], "Earth_y") {
		t.Fatalf("unexpected header: %s", rows[0])
	}
	// t=0 maps to the run epoch, J2000 here.
	if !strings.HasPrefix(rows[1], "2451545,0,") {
		t.Fatalf("first row not stamped with the epoch JD: %s", rows[1])
	}

	raw, err := os.ReadFile(filepath.Join(dir, "run-test.json"))
	if err != nil {
		t.Fatal(err)
	}
	var manifest struct {
		Bodies  []string `json:"bodies"`
		Frames  int      `json:"frames"`
		EpochJD float64  `json:"epochJD"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.Frames != d.Ctx.Steps || len(manifest.Bodies) != 2 {
		t.Fatalf("manifest wrong: %+v", manifest)
	}
	if manifest.EpochJD != 2451545.0 {
		t.Fatalf("epoch JD %f, want 2451545", manifest.EpochJD)
	}
}

func TestWriteTrace(t *testing.T) {
	dir := t.TempDir()
	d := newTestDriver(t, fastCfg(Spinograph, "Venus", "Earth"), nil)
	trace, err := d.Trace()
	if err != nil {
		t.Fatal(err)
	}
	conf := ExportConfig{Filename: "spin", OutputDir: dir, AsCSV: true, Epoch: j2000()}
	if err := WriteTrace(conf, trace); err != nil {
		t.Fatal(err)
	}
	rows := csvRows(t, filepath.Join(dir, "trace-spin.csv"))
	if len(rows) != 1+len(trace.Steps) {
		t.Fatalf("got %d rows, want %d", len(rows), 1+len(trace.Steps))
	}
}

func TestWritePaths(t *testing.T) {
	dir := t.TempDir()
	body := CelestialBody{Name: "Earth", A: 1, Ecc: 0.0167, P: 1}
	paths := []OrbitPath{mustPath(t, body, Flat)}
	conf := ExportConfig{Filename: "orb", OutputDir: dir, AsCSV: true}
	if err := WritePaths(conf, paths, Flat); err != nil {
		t.Fatal(err)
	}
	rows := csvRows(t, filepath.Join(dir, "orbits-orb.csv"))
	if len(rows) != 1+PathSamples {
		t.Fatalf("got %d rows, want %d", len(rows), 1+PathSamples)
	}
	if !strings.HasPrefix(rows[1], "Earth,") {
		t.Fatalf("unexpected first record: %s", rows[1])
	}
}

func TestExportConfigUseless(t *testing.T) {
	if !(ExportConfig{}).IsUseless() {
		t.Fatal("empty export config must be useless")
	}
	if (ExportConfig{AsCSV: true}).IsUseless() {
		t.Fatal("CSV export is not useless")
	}
}
