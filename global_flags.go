// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"

	"github.com/evolution-gaming/vframes/frames"
	"github.com/evolution-gaming/vframes/internal/video"
)

type globalFlags struct {
	ConfFile string
	Debug    bool
}

func (g *globalFlags) Register(fs *flag.FlagSet) {
	fs.BoolVar(&g.Debug, "debug", false, "Enable debug logging (optional)")
	fs.StringVar(&g.ConfFile, "conf", "", "Application configuration file path (optional)")
}

// extractFlags are flags shared by subcommands that extract frames.
type extractFlags struct {
	InFile  string
	OutDir  string
	FPS     int
	Size    string
	Quality int
}

func (e *extractFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&e.InFile, "i", "", "Input video file (mandatory)")
	fs.StringVar(&e.OutDir, "out-dir", "", "Output directory (mandatory)")
	fs.IntVar(&e.FPS, "fps", 0, "Output frame rate (optional)")
	fs.StringVar(&e.Size, "size", "", "Output frame size as WIDTHxHEIGHT (optional)")
	fs.IntVar(&e.Quality, "quality", 0,
		fmt.Sprintf("Output JPEG quality %d (best) to %d (worst) (optional)", frames.MinQuality, frames.MaxQuality))
}

// options creates frame extraction options from flags and configuration.
func (e *extractFlags) options(cfg *Config) (opts frames.Options, err error) {
	if e.Size != "" {
		if opts.Size, err = video.ParseResolution(e.Size); err != nil {
			return opts, fmt.Errorf("%w: %w", frames.ErrInvalidOptions, err)
		}
	}
	opts.FPS = e.FPS
	opts.Quality = e.Quality

	if opts.Executable, err = cfg.Extractor(); err != nil {
		return opts, err
	}
	if opts.ExtraArgs, err = cfg.ExtraArgList(); err != nil {
		return opts, fmt.Errorf("extra args: %w", err)
	}
	opts.TempRoot = cfg.TempRoot.Value()

	return opts, nil
}
