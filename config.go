// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Application configuration structures.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/evolution-gaming/vframes/internal/logging"
	"github.com/evolution-gaming/vframes/internal/tools"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	defaultReportFile = "report.csv"
)

// Config represent application configuration.
type Config struct {
	FfmpegPath     ConfigVal[string] `json:"ffmpeg_path,omitempty" yaml:"ffmpeg_path,omitempty"`
	AvconvPath     ConfigVal[string] `json:"avconv_path,omitempty" yaml:"avconv_path,omitempty"`
	FfprobePath    ConfigVal[string] `json:"ffprobe_path,omitempty" yaml:"ffprobe_path,omitempty"`
	TempRoot       ConfigVal[string] `json:"temp_root,omitempty" yaml:"temp_root,omitempty"`
	ExtraArgs      ConfigVal[string] `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
	ReportFileName ConfigVal[string] `json:"report_file_name,omitempty" yaml:"report_file_name,omitempty"`
}

// Verify will check that configuration is valid.
//
// Will check that configuration option values are sensible.
func (c *Config) Verify() error {
	msgs := []string{}
	// One extraction tool is enough, but those specified should exist.
	if c.FfmpegPath.IsNil() && c.AvconvPath.IsNil() {
		msgs = append(msgs, "neither ffmpeg nor avconv path set")
	}
	if !c.FfmpegPath.IsNil() && !fileExists(c.FfmpegPath.Value()) {
		msgs = append(msgs, "invalid ffmpeg path")
	}
	if !c.AvconvPath.IsNil() && !fileExists(c.AvconvPath.Value()) {
		msgs = append(msgs, "invalid avconv path")
	}
	// ffprobe is needed only for probing.
	if !c.FfprobePath.IsNil() && !fileExists(c.FfprobePath.Value()) {
		msgs = append(msgs, "invalid ffprobe path")
	}
	if c.TempRoot.Value() == "" {
		msgs = append(msgs, "empty temp root")
	}
	if _, err := c.ExtraArgList(); err != nil {
		msgs = append(msgs, fmt.Sprintf("malformed extra args: %s", err))
	}
	// Report file should not be nil.
	if c.ReportFileName.Value() == "" {
		msgs = append(msgs, "empty report file name")
	}

	if len(msgs) != 0 {
		return fmt.Errorf("%s: %w", strings.Join(msgs, ", "), ErrInvalidConfig)
	}
	return nil
}

// Extractor returns frame extraction tool, configured ffmpeg is preferred
// over configured avconv, then $PATH is searched.
func (c *Config) Extractor() (string, error) {
	return tools.FindExtractor(c.FfmpegPath.Value(), c.AvconvPath.Value())
}

// ExtraArgList splits extra_args the way a shell would.
func (c *Config) ExtraArgList() ([]string, error) {
	return shlex.Split(c.ExtraArgs.Value())
}

// OverrideFrom will overwrite fields from given Config object.
//
// Only fields that are "not-nil" (as per IsNil() method) in src Config object will be
// overwritten.
func (c *Config) OverrideFrom(src Config) {
	if !src.FfmpegPath.IsNil() {
		c.FfmpegPath = src.FfmpegPath
	}
	if !src.AvconvPath.IsNil() {
		c.AvconvPath = src.AvconvPath
	}
	if !src.FfprobePath.IsNil() {
		c.FfprobePath = src.FfprobePath
	}
	if !src.TempRoot.IsNil() {
		c.TempRoot = src.TempRoot
	}
	if !src.ExtraArgs.IsNil() {
		c.ExtraArgs = src.ExtraArgs
	}
	if !src.ReportFileName.IsNil() {
		c.ReportFileName = src.ReportFileName
	}
}

// loadDefaultConfig will create a default configuration.
//
// Tool paths are auto-detected, tools that are not found are left unset: only
// one of ffmpeg and avconv is needed and ffprobe is optional.
func loadDefaultConfig() Config {
	cfg := Config{
		TempRoot:       NewConfigVal(os.TempDir()),
		ReportFileName: NewConfigVal(defaultReportFile),
	}

	if p, err := tools.FfmpegPath(); err == nil {
		cfg.FfmpegPath = NewConfigVal(p)
	} else {
		logging.Debugf("DefaultConfig: %s", err)
	}
	if p, err := tools.AvconvPath(); err == nil {
		cfg.AvconvPath = NewConfigVal(p)
	} else {
		logging.Debugf("DefaultConfig: %s", err)
	}
	if p, err := tools.FfprobePath(); err == nil {
		cfg.FfprobePath = NewConfigVal(p)
	} else {
		logging.Debugf("DefaultConfig: %s", err)
	}

	return cfg
}

// loadConfigFromFile will load configuration from file, format is selected
// by file extension.
func loadConfigFromFile(f string) (cfg Config, err error) {
	fileExt := strings.ToLower(filepath.Ext(f))
	switch fileExt {
	case ".json":
		return loadJSON(f)
	case ".yaml", ".yml":
		return loadYAML(f)
	default:
		return cfg, fmt.Errorf("unknown config format: %s", fileExt)
	}
}

// LoadConfig will return merged default config and config from file. This is main
// function to use for config loading. Configuration file is optional e.g. can be "".
func LoadConfig(configFile string) (cfg Config, err error) {
	cfg = loadDefaultConfig()

	// Load configuration from file and override default configuration options.
	if configFile != "" {
		c, err := loadConfigFromFile(configFile)
		if err != nil {
			return cfg, err
		}
		// Configuration file can specify full set or partial set of configuration
		// options. So we only want to override those options that have been specified in
		// config file, rest will remain as per default config.
		cfg.OverrideFrom(c)
	}

	return cfg, nil
}

func loadJSON(f string) (cfg Config, err error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return cfg, fmt.Errorf("config from JSON file: %w", err)
	}

	if len(b) == 0 {
		return cfg, fmt.Errorf("JSON file is empty: %w", ErrInvalidConfig)
	}

	if err = json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config from JSON document: %w", err)
	}

	return cfg, nil
}

func loadYAML(f string) (cfg Config, err error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return cfg, fmt.Errorf("config from YAML file: %w", err)
	}

	if len(strings.TrimSpace(string(b))) == 0 {
		return cfg, fmt.Errorf("YAML file is empty: %w", ErrInvalidConfig)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config from YAML document: %w", err)
	}

	return cfg, nil
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// In order to support Config overriding we have to implement wrapper type for Config
// fields. Otherwise it is hard to distinguish skipped fields, for instance when loading
// partial configuration from file: in that case it would be impossible to  distinguish
// between say string fields zero value and empty string values as explicitly specified in
// configuration file.

// NewConfigVal is constructor for ConfigVal. It will wrap its argument into ConfigVal.
func NewConfigVal[T any](v T) ConfigVal[T] {
	return ConfigVal[T]{v: &v}
}

// ConfigVal is a wrapper for Config field value.
type ConfigVal[T any] struct {
	// Store wrapped value as pointer in order to have ability to distinguish between
	// unspecified ConfigVal and a value that is the same as zero value for wrapped type.
	v *T
}

// Value will return wrapped value.
//
// In case field has not been defined e.g. is zero value, then appropriate zero value of
// wrapped type will be returned.
func (o *ConfigVal[T]) Value() T {
	if o.IsNil() {
		var v T
		return v
	}
	return *o.v
}

// IsNil check if wrapped value is nil.
func (o *ConfigVal[T]) IsNil() bool {
	return o.v == nil
}

// IsZero reports unset value, yaml omitempty relies on it.
func (o ConfigVal[T]) IsZero() bool {
	return o.v == nil
}

// UnmarshalJSON implements json.Unmarshaler interface for ConfigVal.
func (o *ConfigVal[T]) UnmarshalJSON(b []byte) error {
	var val T
	if err := json.Unmarshal(b, &val); err != nil {
		return err
	}
	o.v = &val
	return nil
}

// MarshalJSON implements json.Marshaler interface for ConfigVal.
func (o ConfigVal[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value())
}

// UnmarshalYAML implements yaml.Unmarshaler interface for ConfigVal.
func (o *ConfigVal[T]) UnmarshalYAML(n *yaml.Node) error {
	var val T
	if err := n.Decode(&val); err != nil {
		return err
	}
	o.v = &val
	return nil
}

// MarshalYAML implements yaml.Marshaler interface for ConfigVal.
func (o ConfigVal[T]) MarshalYAML() (interface{}, error) {
	return o.Value(), nil
}

func CreateDumpConfCommand() *DumpConfApp {
	longHelp := `Command "dump-conf" will print actual application configuration taking into account
configuration file provided and default configuration values.

Examples:

	vframes dump-conf
	vframes dump-conf -conf path/to/config.yaml
	vframes dump-conf -format yaml`

	app := &DumpConfApp{
		fs:  flag.NewFlagSet("dump-conf", flag.ContinueOnError),
		gf:  globalFlags{},
		out: os.Stdout,
	}
	app.gf.Register(app.fs)
	app.fs.StringVar(&app.flFormat, "format", "json", "Output format: json or yaml")
	app.fs.Usage = func() {
		printSubCommandUsage(longHelp, app.fs)
	}

	return app
}

// Make sure DumpConfApp implements Commander interface.
var _ Commander = (*DumpConfApp)(nil)

// DumpConfApp is subcommand application context that implements Commander interface.
type DumpConfApp struct {
	out io.Writer
	fs  *flag.FlagSet
	gf  globalFlags
	// Output format
	flFormat string
}

func (d *DumpConfApp) Name() string {
	return d.fs.Name()
}

func (d *DumpConfApp) Help() {
	d.fs.Usage()
}

// Run is main entry point into DumpConfApp execution.
func (d *DumpConfApp) Run(args []string) error {
	if err := d.fs.Parse(args); err != nil {
		return &AppError{
			exitCode: 2,
			msg:      "usage error",
		}
	}

	if d.gf.Debug {
		logging.EnableDebugLogger()
	}

	// Load application configuration.
	cfg, err := LoadConfig(d.gf.ConfFile)
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	switch d.flFormat {
	case "json":
		enc := json.NewEncoder(d.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(d.out)
		enc.SetIndent(2)
		err = enc.Encode(cfg)
		if err == nil {
			err = enc.Close()
		}
	default:
		return &AppError{exitCode: 2, msg: fmt.Sprintf("unknown format: %s", d.flFormat)}
	}
	if err != nil {
		return &AppError{exitCode: 1, msg: err.Error()}
	}

	// Also, report if configuration is valid.
	if err := cfg.Verify(); err != nil {
		return &AppError{exitCode: 1, msg: fmt.Sprintf("configuration validation: %s", err)}
	}

	return nil
}
