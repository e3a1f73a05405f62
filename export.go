package solarkit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const daysPerYear = 365.25 // Julian year

// ExportConfig configures how a run's frames are written to disk.
type ExportConfig struct {
	Filename  string    // base name of the artifacts
	OutputDir string    // directory, created if missing
	AsCSV     bool      // write per-tick positions as CSV
	AsJSON    bool      // write a run manifest as JSON
	Timestamp bool      // stamp artifact names with the wall clock
	Epoch     time.Time // wall-clock date of t=0; zero value means now
}

// IsUseless returns whether this configuration requests no output at all.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV && !c.AsJSON
}

// epochJD returns the Julian date of simulation t=0.
func (c ExportConfig) epochJD() float64 {
	epoch := c.Epoch
	if epoch.IsZero() {
		epoch = time.Now()
	}
	return julian.TimeToJD(epoch.UTC())
}

// artifactPath builds the on-disk name of one export artifact.
func (c ExportConfig) artifactPath(kind, ext string) string {
	if c.Timestamp {
		t := time.Now()
		return fmt.Sprintf("%s/%s-%s-%d-%02d-%02dT%02d.%02d.%02d.%s", c.OutputDir, kind,
			c.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), ext)
	}
	return fmt.Sprintf("%s/%s-%s.%s", c.OutputDir, kind, c.Filename, ext)
}

// runManifest is the JSON summary written next to the CSV artifacts.
type runManifest struct {
	Name       string   `json:"name"`
	Projection string   `json:"projection"`
	Mode       string   `json:"mode"`
	Bodies     []string `json:"bodies"`
	EpochJD    float64  `json:"epochJD"`
	Frames     int      `json:"frames"`
	FinalT     float64  `json:"finalT"`
}

// positionHeader writes the comment preamble and the column header of a
// positions CSV. One column group per body; the z column only exists for
// inclined runs.
func positionHeader(w *csv.Writer, f *os.File, names []string, proj Projection) {
	fmt.Fprintf(f, `# Creation date (UTC): %s
# Records are <jd> <t> then x,y%s per body
#   Time t is in years, jd is a Julian date
#   Positions are in AU, heliocentric
`, time.Now().UTC(), map[Projection]string{Flat: "", Inclined: ",z"}[proj])
	row := []string{"jd", "t"}
	for _, name := range names {
		row = append(row, name+"_x", name+"_y")
		if proj == Inclined {
			row = append(row, name+"_z")
		}
	}
	w.Write(row)
}

// positionRow appends one tick's positions.
func positionRow(w *csv.Writer, jd0, t float64, positions []PositionSample, proj Projection) error {
	row := make([]string, 0, 2+3*len(positions))
	row = append(row,
		strconv.FormatFloat(jd0+t*daysPerYear, 'f', -1, 64),
		strconv.FormatFloat(t, 'f', -1, 64))
	for _, pos := range positions {
		row = append(row,
			strconv.FormatFloat(pos.X, 'f', -1, 64),
			strconv.FormatFloat(pos.Y, 'f', -1, 64))
		if proj == Inclined {
			row = append(row, strconv.FormatFloat(pos.Z, 'f', -1, 64))
		}
	}
	return w.Write(row)
}

// FrameWriter is a Renderer which streams every frame it receives to an
// export goroutine, the way a plotting surface would consume them. Frames
// are buffered on a channel so the driver's loop is not blocked on disk.
// Close must be called to flush and collect any write error.
type FrameWriter struct {
	conf   ExportConfig
	frames chan Frame
	wg     sync.WaitGroup
	err    error
}

// NewFrameWriter starts the export goroutine.
func NewFrameWriter(conf ExportConfig) (*FrameWriter, error) {
	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return nil, err
	}
	w := &FrameWriter{conf: conf, frames: make(chan Frame, 1000)}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.err = w.stream()
	}()
	return w, nil
}

// RenderFrame implements Renderer.
func (w *FrameWriter) RenderFrame(f Frame) error {
	w.frames <- f
	return nil
}

// Close flushes the pending frames and returns the first write error.
func (w *FrameWriter) Close() error {
	close(w.frames)
	w.wg.Wait()
	return w.err
}

// stream drains the frame channel into the configured artifacts.
func (w *FrameWriter) stream() error {
	var (
		f        *os.File
		records  *csv.Writer
		manifest runManifest
		jd0      = w.conf.epochJD()
	)
	for frame := range w.frames {
		if manifest.Frames == 0 {
			manifest = runManifest{
				Name:       w.conf.Filename,
				Projection: frame.Projection.String(),
				Mode:       frame.Mode.String(),
				EpochJD:    jd0,
			}
			for _, pos := range frame.Positions {
				manifest.Bodies = append(manifest.Bodies, pos.Name)
			}
			if w.conf.AsCSV && len(frame.Positions) > 0 {
				var err error
				if f, err = os.Create(w.conf.artifactPath("positions", "csv")); err != nil {
					return err
				}
				defer f.Close()
				records = csv.NewWriter(f)
				defer records.Flush()
				positionHeader(records, f, manifest.Bodies, frame.Projection)
			}
		}
		if records != nil {
			if err := positionRow(records, jd0, frame.T, frame.Positions, frame.Projection); err != nil {
				return err
			}
		}
		manifest.Frames++
		manifest.FinalT = frame.T
	}
	if records != nil {
		records.Flush()
		if err := records.Error(); err != nil {
			return err
		}
	}
	if w.conf.AsJSON && manifest.Frames > 0 {
		return writeManifest(w.conf, manifest)
	}
	return nil
}

// writeManifest saves the run summary JSON.
func writeManifest(conf ExportConfig, manifest runManifest) error {
	out, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(conf.artifactPath("run", "json"), out, 0644)
}

// WriteTrace saves a one-shot trace: one CSV row per step, with the same
// jd/t stamping as the animated export. Used for the spinograph and the
// relative views.
func WriteTrace(conf ExportConfig, trace Trace) error {
	if conf.IsUseless() || len(trace.Steps) == 0 {
		return nil
	}
	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return err
	}
	jd0 := conf.epochJD()
	names := make([]string, len(trace.Steps[0]))
	for i, pos := range trace.Steps[0] {
		names[i] = pos.Name
	}
	if conf.AsCSV {
		f, err := os.Create(conf.artifactPath("trace", "csv"))
		if err != nil {
			return err
		}
		defer f.Close()
		records := csv.NewWriter(f)
		positionHeader(records, f, names, trace.Projection)
		for k, chord := range trace.Steps {
			if err := positionRow(records, jd0, float64(k)*trace.DT, chord, trace.Projection); err != nil {
				return err
			}
		}
		records.Flush()
		if err := records.Error(); err != nil {
			return err
		}
	}
	if conf.AsJSON {
		return writeManifest(conf, runManifest{
			Name:       conf.Filename,
			Projection: trace.Projection.String(),
			Mode:       trace.Mode.String(),
			Bodies:     names,
			EpochJD:    jd0,
			Frames:     len(trace.Steps),
		})
	}
	return nil
}

// WritePaths saves the cached orbit paths of an orbits-only render, one
// CSV per run with a body column.
func WritePaths(conf ExportConfig, paths []OrbitPath, proj Projection) error {
	if !conf.AsCSV || len(paths) == 0 {
		return nil
	}
	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return err
	}
	f, err := os.Create(conf.artifactPath("orbits", "csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprintf(f, "# Creation date (UTC): %s\n# Records are <body> <x> <y> <z>, positions in AU\n", time.Now().UTC())
	records := csv.NewWriter(f)
	records.Write([]string{"body", "x", "y", "z"})
	for _, path := range paths {
		for i := range path.X {
			z := 0.0
			if proj == Inclined {
				z = path.Z[i]
			}
			records.Write([]string{
				path.Name,
				strconv.FormatFloat(path.X[i], 'f', -1, 64),
				strconv.FormatFloat(path.Y[i], 'f', -1, 64),
				strconv.FormatFloat(z, 'f', -1, 64),
			})
		}
	}
	records.Flush()
	return records.Error()
}
