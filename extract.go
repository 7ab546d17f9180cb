// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// vframes tool's extract subcommand implementation.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/evolution-gaming/vframes/frames"
	"github.com/evolution-gaming/vframes/internal/logging"
)

// Make sure ExtractApp implements Commander interface.
var _ Commander = (*ExtractApp)(nil)

// ExtractApp is extract subcommand context that implements Commander interface.
type ExtractApp struct {
	// Configuration object
	cfg *Config
	// Summary output
	out io.Writer
	// FlagSet instance
	fs *flag.FlagSet
	// Global flags
	gf globalFlags
	// Extraction flags
	ef extractFlags
	// Frame file name pattern
	flPattern string
}

// CreateExtractCommand will create Commander instance from ExtractApp.
func CreateExtractCommand() *ExtractApp {
	longHelp := `Subcommand "extract" will extract frames of a video file into numbered image
files in output directory. Output directory is created if missing and is kept
after the command finishes.

Examples:

  vframes extract -i video.mp4 -out-dir frames
  vframes extract -i video.mp4 -out-dir frames -fps 1 -size 320x180 -pattern %05d.png`

	app := &ExtractApp{
		fs:  flag.NewFlagSet("extract", flag.ContinueOnError),
		gf:  globalFlags{},
		out: os.Stdout,
	}
	app.gf.Register(app.fs)
	app.ef.Register(app.fs)
	app.fs.StringVar(&app.flPattern, "pattern", frames.DefaultFilenamePattern,
		"Frame file name pattern, extension selects image format")
	app.fs.Usage = func() {
		printSubCommandUsage(longHelp, app.fs)
	}
	return app
}

func (a *ExtractApp) Name() string {
	return a.fs.Name()
}

func (a *ExtractApp) Help() {
	a.fs.Usage()
}

// init will do App state initialization.
func (a *ExtractApp) init(args []string) error {
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

	if a.ef.OutDir == "" {
		a.Help()
		return &AppError{exitCode: 2, msg: "mandatory option -out-dir is missing"}
	}

	if _, err := os.Stat(a.ef.InFile); err != nil {
		return &AppError{exitCode: 2, msg: fmt.Sprintf("input file does not exist? %s", err)}
	}

	c, err := LoadConfig(a.gf.ConfFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}
	a.cfg = &c

	return nil
}

// Run is main entry point into ExtractApp execution.
func (a *ExtractApp) Run(args []string) error {
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
	opts.OutputDir = a.ef.OutDir
	opts.FilenamePattern = a.flPattern
	opts.PreserveOutput = true

	logging.Infof("Extracting frames of %s", a.ef.InFile)
	ex, err := frames.New(a.ef.InFile, opts)
	if err != nil {
		return extractionAppError(err)
	}
	defer ex.Close()

	st := ex.Stats()
	logging.Infof("Extraction took %s (user %s, sys %s, CPU %.1f%%)", st.HElapsed, st.HUtime, st.HStime, st.CPUPercent())

	fmt.Fprintf(a.out, "Frames: %d\n", ex.Len())
	fmt.Fprintf(a.out, "Directory: %s\n", ex.Dir())
	if r, ok := ex.NativeResolution(); ok {
		fmt.Fprintf(a.out, "Native resolution: %s\n", r)
	} else {
		fmt.Fprintln(a.out, "Native resolution: unknown")
	}

	return nil
}
