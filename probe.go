// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// vframes tool's probe subcommand implementation.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/evolution-gaming/vframes/internal/logging"
	"github.com/evolution-gaming/vframes/internal/tools"
)

// Make sure ProbeApp implements Commander interface.
var _ Commander = (*ProbeApp)(nil)

// ProbeApp is probe subcommand context that implements Commander interface.
type ProbeApp struct {
	// Configuration object
	cfg *Config
	out io.Writer
	// FlagSet instance
	fs *flag.FlagSet
	// Input video file path
	flInFile string
	// Global flags
	gf globalFlags
}

// CreateProbeCommand will create Commander instance from ProbeApp.
func CreateProbeCommand() *ProbeApp {
	longHelp := `Subcommand "probe" will print video stream metadata of given file as JSON.
Requires ffprobe.

Examples:

  vframes probe -i video.mp4`

	app := &ProbeApp{
		fs:  flag.NewFlagSet("probe", flag.ContinueOnError),
		gf:  globalFlags{},
		out: os.Stdout,
	}
	app.gf.Register(app.fs)
	app.fs.StringVar(&app.flInFile, "i", "", "Input video file (mandatory)")
	app.fs.Usage = func() {
		printSubCommandUsage(longHelp, app.fs)
	}
	return app
}

func (a *ProbeApp) Name() string {
	return a.fs.Name()
}

func (a *ProbeApp) Help() {
	a.fs.Usage()
}

// Run is main entry point into ProbeApp execution.
func (a *ProbeApp) Run(args []string) error {
	if err := a.fs.Parse(args); err != nil {
		return &AppError{
			exitCode: 2,
			msg:      "usage error",
		}
	}

	if a.gf.Debug {
		logging.EnableDebugLogger()
	}

	if a.flInFile == "" {
		a.Help()
		return &AppError{exitCode: 2, msg: "mandatory option -i is missing"}
	}

	c, err := LoadConfig(a.gf.ConfFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}
	a.cfg = &c

	if a.cfg.FfprobePath.IsNil() || !fileExists(a.cfg.FfprobePath.Value()) {
		return &AppError{exitCode: 1, msg: "dependency ffprobe: not found"}
	}

	meta, err := tools.ExtractMetadata(a.cfg.FfprobePath.Value(), a.flInFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("probing %s: %s", a.flInFile, err)}
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}
	return nil
}
