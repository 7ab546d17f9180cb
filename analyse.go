// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// vframes tool's analyse subcommand implementation.

package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evolution-gaming/vframes/frames"
	"github.com/evolution-gaming/vframes/internal/analysis"
	"github.com/evolution-gaming/vframes/internal/logging"
	"github.com/evolution-gaming/vframes/internal/metric"
	"github.com/evolution-gaming/vframes/internal/tools"
	"github.com/schollz/progressbar/v3"
)

const (
	// Contact sheet layout.
	sheetMaxFrames  = 24
	sheetColumns    = 6
	sheetThumbWidth = 160
)

// Make sure AnalyseApp implements Commander interface.
var _ Commander = (*AnalyseApp)(nil)

// AnalyseApp is analyse subcommand context that implements Commander interface.
type AnalyseApp struct {
	// Configuration object
	cfg *Config
	// FlagSet instance
	fs *flag.FlagSet
	// Global flags
	gf globalFlags
	// Extraction flags
	ef extractFlags
	// Create luma multi-plot
	flPlot bool
	// Create contact sheet
	flSheet bool
	// Per-frame measurements
	mStore *metric.Store
	// Progress bar output
	progressOut io.Writer
}

// CreateAnalyseCommand will create Commander instance from AnalyseApp.
func CreateAnalyseCommand() *AnalyseApp {
	longHelp := `Subcommand "analyse" will extract frames of a video file into a temporary
directory, measure every frame and write results into output directory:
CSV report with per-frame measurements, optionally luma plot (-plot) and
contact sheet (-sheet). Extracted frames are removed afterwards.

Examples:

  vframes analyse -i video.mp4 -out-dir results -fps 5 -plot -sheet`

	app := &AnalyseApp{
		fs:          flag.NewFlagSet("analyse", flag.ContinueOnError),
		gf:          globalFlags{},
		mStore:      metric.NewStore(),
		progressOut: os.Stderr,
	}
	app.gf.Register(app.fs)
	app.ef.Register(app.fs)
	app.fs.BoolVar(&app.flPlot, "plot", false, "Create per-frame luma multi-plot")
	app.fs.BoolVar(&app.flSheet, "sheet", false, "Create contact sheet of frames")
	app.fs.Usage = func() {
		printSubCommandUsage(longHelp, app.fs)
	}

	return app
}

func (a *AnalyseApp) Name() string {
	return a.fs.Name()
}

func (a *AnalyseApp) Help() {
	a.fs.Usage()
}

// init will do App state initialization.
func (a *AnalyseApp) init(args []string) error {
	if err := a.fs.Parse(args); err != nil {
		return &AppError{
			exitCode: 2,
			msg:      fmt.Sprintf("%s usage error", a.Name()),
		}
	}

	if a.gf.Debug {
		logging.EnableDebugLogger()
	}

	if a.ef.InFile == "" {
		a.Help()
		return &AppError{exitCode: 2, msg: "mandatory option -i is missing"}
	}

	// If after flag parsing output directory is not defined - error out.
	if a.ef.OutDir == "" {
		a.Help()
		return &AppError{exitCode: 2, msg: "mandatory option -out-dir is missing"}
	}

	if _, err := os.Stat(a.ef.InFile); err != nil {
		return &AppError{exitCode: 2, msg: fmt.Sprintf("input file does not exist? %s", err)}
	}

	// Do not write over existing results.
	if isNonEmptyDir(a.ef.OutDir) {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("non-empty out dir: %s", a.ef.OutDir)}
	}

	c, err := LoadConfig(a.gf.ConfFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}
	a.cfg = &c

	return nil
}

// Run is main entry point into AnalyseApp execution.
func (a *AnalyseApp) Run(args []string) error {
	if err := a.init(args); err != nil {
		return err
	}

	logging.Debugf("Application configuration: %#v", a.cfg)
	if err := a.cfg.Verify(); err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("configuration validation: %s", err)}
	}

	opts, err := a.ef.options(a.cfg)
	if err != nil {
		return extractionAppError(err)
	}

	if err := os.MkdirAll(a.ef.OutDir, os.FileMode(0o755)); err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("failed creating directory: %s", err)}
	}

	logging.Infof("Extracting frames of %s", a.ef.InFile)
	ex, err := frames.New(a.ef.InFile, opts)
	if err != nil {
		return extractionAppError(err)
	}
	defer func() {
		if err := ex.Close(); err != nil {
			logging.Infof("Failed removing %s: %s", ex.Dir(), err)
		}
	}()
	a.crossCheckResolution(ex)

	lumas, thumbs, err := a.measure(ex)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	if err := a.saveReport(); err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	s, err := analysis.Summarise(lumas)
	if err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("no frames extracted from %s", a.ef.InFile)}
	}
	logging.Infof("Mean luma of %d frames: min=%.2f max=%.2f mean=%.2f stdev=%.2f median=%.2f",
		len(lumas), s.Min, s.Max, s.Mean, s.StDev, s.Median)

	base := path.Base(a.ef.InFile)
	base = strings.TrimSuffix(base, path.Ext(base))

	if a.flPlot {
		lumaPlot := filepath.Join(a.ef.OutDir, base+"_luma.png")
		if err := analysis.MultiPlotLuma(lumas, base, lumaPlot); err != nil {
			return &AppError{exitCode: 1, msg: fmt.Sprintf("failed creating luma multi-plot: %s", err)}
		}
		logging.Infof("Luma multi-plot done: %s", lumaPlot)
	}

	if a.flSheet {
		sheet := filepath.Join(a.ef.OutDir, base+"_sheet.jpg")
		if err := analysis.SaveContactSheet(thumbs, sheetColumns, sheetThumbWidth, sheet); err != nil {
			return &AppError{exitCode: 1, msg: fmt.Sprintf("failed creating contact sheet: %s", err)}
		}
		logging.Infof("Contact sheet done: %s", sheet)
	}

	logging.Info("Done")
	return nil
}

// measure iterates over extracted frames and records per-frame measurements.
// Returns mean luma of every frame and a sample of frames for contact sheet.
func (a *AnalyseApp) measure(ex *frames.Extractor) (lumas []float64, sample []image.Image, err error) {
	n := ex.Len()
	// Sample evenly, at most sheetMaxFrames.
	step := max(1, (n+sheetMaxFrames-1)/sheetMaxFrames)

	bar := progressbar.NewOptions(n,
		progressbar.OptionSetWriter(a.progressOut),
		progressbar.OptionSetDescription("Analysing frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	lumas = make([]float64, 0, n)
	k := 0
	for img, err := range ex.Frames() {
		if err != nil {
			return nil, nil, fmt.Errorf("decoding frame %d: %w", k, err)
		}
		b := img.Bounds()
		luma := analysis.MeanLuma(img)
		id := a.mStore.Insert(metric.Record{
			Index:    k,
			Path:     ex.FramePath(k),
			Width:    b.Dx(),
			Height:   b.Dy(),
			MeanLuma: luma,
		})
		logging.Debugf("Storing record (id=%v) for frame %d", id, k)
		lumas = append(lumas, luma)

		if a.flSheet && k%step == 0 && len(sample) < sheetMaxFrames {
			sample = append(sample, img)
		}
		k++
		_ = bar.Add(1)
	}
	return lumas, sample, nil
}

// crossCheckResolution compares native resolution reported by the extraction
// tool with ffprobe metadata, mismatch is only logged.
func (a *AnalyseApp) crossCheckResolution(ex *frames.Extractor) {
	native, ok := ex.NativeResolution()
	if !ok {
		logging.Info("Native resolution unknown")
	} else {
		logging.Infof("Native resolution: %s", native)
	}

	if a.cfg.FfprobePath.IsNil() {
		return
	}
	meta, err := tools.ExtractMetadata(a.cfg.FfprobePath.Value(), ex.Source())
	if err != nil {
		logging.Debugf("Unable to probe %s: %s", ex.Source(), err)
		return
	}
	if ok && meta.Resolution() != native {
		logging.Infof("Native resolution %s differs from probed %s", native, meta.Resolution())
	}
}

// saveReport writes recorded measurements to report file.
func (a *AnalyseApp) saveReport() error {
	reportPath := filepath.Join(a.ef.OutDir, a.cfg.ReportFileName.Value())
	reportOut, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("creating CSV report file: %w", err)
	}
	defer reportOut.Close()

	if err := a.mStore.WriteCSV(reportOut); err != nil {
		return fmt.Errorf("writing CSV report: %w", err)
	}
	logging.Infof("Report done: %s", reportPath)

	return nil
}
