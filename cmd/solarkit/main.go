package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/cobra"

	solarkit "github.com/carlos-lorenzo/solar-kit"
)

// This binary only wires configuration, the body table and the export
// surface to the engine; all geometry lives in the library.

var (
	scenario  string
	dataPath  string
	sysName   string
	bodies    []string
	threeD    bool
	targetFPS int
	outputDir string
	asJSON    bool
	timestamp bool

	logger kitlog.Logger
)

func main() {
	logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))

	root := &cobra.Command{
		Use:           "solarkit",
		Short:         "Compute and export orbital paths and positions of celestial bodies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&scenario, "scenario", "", "scenario file (TOML or YAML); flags override it")
	root.PersistentFlags().StringVar(&dataPath, "data", "planet_data.csv", "CSV body table")
	root.PersistentFlags().StringVar(&sysName, "name", "Solar System", "system display name")
	root.PersistentFlags().StringSliceVar(&bodies, "bodies", nil, "bodies to use (default: all)")
	root.PersistentFlags().BoolVar(&threeD, "3d", false, "project orbits using inclination")
	root.PersistentFlags().IntVar(&targetFPS, "fps", 30, "animation target fps")
	root.PersistentFlags().StringVar(&outputDir, "out", "figures", "output directory")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "also write a run manifest JSON")
	root.PersistentFlags().BoolVar(&timestamp, "timestamp", false, "timestamp artifact names")

	root.AddCommand(orbitsCmd(), animateCmd(), spinographCmd(), relativeCmd(), initCmd())
	if err := root.Execute(); err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}
}

// runConfig merges the scenario file (if any) with the command-line flags.
func runConfig(cmd *cobra.Command, mode solarkit.Mode) (solarkit.RunConfig, error) {
	cfg := solarkit.DefaultRunConfig()
	if scenario != "" {
		var err error
		if cfg, err = solarkit.LoadRunConfig(scenario); err != nil {
			return cfg, err
		}
	}
	flagOverrides := map[string]func(){
		"data":   func() { cfg.DataPath = dataPath },
		"name":   func() { cfg.SystemName = sysName },
		"bodies": func() { cfg.Bodies = bodies },
		"3d":     func() { cfg.ThreeD = threeD },
		"fps":    func() { cfg.TargetFPS = targetFPS },
		"out":    func() { cfg.OutputDir = outputDir },
	}
	for name, apply := range flagOverrides {
		if cmd.Root().PersistentFlags().Changed(name) || scenario == "" {
			apply()
		}
	}
	cfg.Mode = mode
	cfg.ModeName = mode.String()
	return cfg, cfg.Validate()
}

// newDriver loads the body table and builds the run.
func newDriver(cfg solarkit.RunConfig, out solarkit.Renderer) (*solarkit.Driver, error) {
	sys, err := solarkit.LoadSystem(cfg.SystemName, cfg.DataPath)
	if err != nil {
		return nil, err
	}
	ctx, err := solarkit.NewRunContext(sys, cfg)
	if err != nil {
		return nil, err
	}
	return solarkit.NewDriver(ctx, out, logger), nil
}

// exportConfig derives the artifact naming for a run.
func exportConfig(cfg solarkit.RunConfig) solarkit.ExportConfig {
	return solarkit.ExportConfig{
		Filename:  cfg.SystemName,
		OutputDir: cfg.OutputDir,
		AsCSV:     true,
		AsJSON:    asJSON,
		Timestamp: timestamp,
		Epoch:     time.Now(),
	}
}

// stopOnInterrupt requests a cooperative stop on SIGINT/SIGTERM.
func stopOnInterrupt(d *solarkit.Driver) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		d.Stop()
	}()
}

// pathSink renders the single orbits-only frame by saving its paths.
type pathSink struct {
	conf solarkit.ExportConfig
}

func (s pathSink) RenderFrame(f solarkit.Frame) error {
	return solarkit.WritePaths(s.conf, f.Orbits, f.Projection)
}

func orbitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orbits",
		Short: "Compute the full orbit paths and save them in one shot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runConfig(cmd, solarkit.OrbitsOnly)
			if err != nil {
				return err
			}
			d, err := newDriver(cfg, pathSink{exportConfig(cfg)})
			if err != nil {
				return err
			}
			return d.Orbits()
		},
	}
}

func animateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "animate",
		Short: "Step the bodies along their orbits, streaming each frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runConfig(cmd, solarkit.AnimatedOrbits)
			if err != nil {
				return err
			}
			w, err := solarkit.NewFrameWriter(exportConfig(cfg))
			if err != nil {
				return err
			}
			d, err := newDriver(cfg, w)
			if err != nil {
				return err
			}
			stopOnInterrupt(d)
			if err := d.Animate(); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
}

func spinographCmd() *cobra.Command {
	var animate bool
	cmd := &cobra.Command{
		Use:   "spinograph",
		Short: "Trace the chords connecting the bodies' simultaneous positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := solarkit.Spinograph
			if animate {
				mode = solarkit.AnimatedSpinograph
			}
			cfg, err := runConfig(cmd, mode)
			if err != nil {
				return err
			}
			if animate {
				w, err := solarkit.NewFrameWriter(exportConfig(cfg))
				if err != nil {
					return err
				}
				d, err := newDriver(cfg, w)
				if err != nil {
					return err
				}
				stopOnInterrupt(d)
				if err := d.Animate(); err != nil {
					w.Close()
					return err
				}
				return w.Close()
			}
			d, err := newDriver(cfg, nil)
			if err != nil {
				return err
			}
			stopOnInterrupt(d)
			trace, err := d.Trace()
			if err != nil {
				return err
			}
			return solarkit.WriteTrace(exportConfig(cfg), trace)
		},
	}
	cmd.Flags().BoolVar(&animate, "animate", false, "draw the trace tick by tick")
	return cmd
}

func relativeCmd() *cobra.Command {
	var origin string
	cmd := &cobra.Command{
		Use:   "relative",
		Short: "Trace the system as seen from one of its bodies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if origin == "" {
				return fmt.Errorf("--origin is required")
			}
			cfg, err := runConfig(cmd, solarkit.Spinograph)
			if err != nil {
				return err
			}
			d, err := newDriver(cfg, nil)
			if err != nil {
				return err
			}
			stopOnInterrupt(d)
			trace, err := d.TraceRelative(origin)
			if err != nil {
				return err
			}
			conf := exportConfig(cfg)
			conf.Filename = conf.Filename + "-from-" + origin
			return solarkit.WriteTrace(conf, trace)
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "body to center the view on")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "solarkit.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			return solarkit.DefaultRunConfig().Save(path)
		},
	}
}
