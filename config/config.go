/*
DESCRIPTION
  config.go holds the flat configuration struct for an encoder
  instance: picture geometry, GOP/rate-control targets, parallelism
  limits and the injected Logger. Populated by an external CLI (out of
  scope) and validated by the core before a pipeline is constructed.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the configuration settings for an hevc encoder
// instance.
package config

import (
	"github.com/ausocean/utils/logging"
)

// GOP structure presets selectable via the GOPPreset field.
const (
	GOPLowDelay = iota
	GOPHierarchicalB
)

// Config provides the parameters needed to construct an encoder
// pipeline. A new Config must be passed to New. Default values for
// zero fields are filled in by Validate.
type Config struct {
	// Width and Height are the luma picture dimensions in pixels.
	Width  uint
	Height uint

	// BitDepth is the luma/chroma sample bit depth (8 or 10).
	BitDepth uint

	// FrameRate is the input frame rate in frames per second, used to
	// seed the GOP allocator's bits-per-picture budget.
	FrameRate uint

	// Bitrate is the target bitrate in kbps for the rate-control GOP
	// allocator.
	Bitrate uint

	// QP is the initial quantization parameter, signalled as the PPS
	// init_qp. Per-picture QPs come from the rate-control lambda model,
	// which QP does not seed.
	QP uint

	// GOPPreset selects the GOP structure table (GOPLowDelay or
	// GOPHierarchicalB).
	GOPPreset uint

	// OWF is the output wavefront/overlapped-wave-front depth: the
	// number of pictures that may be in flight concurrently within the
	// pipeline's encoder-state ring.
	OWF uint

	// Tiles is the number of independent tile columns the picture is
	// partitioned into for the wavefront task graph. A value of 0 or 1
	// disables tiling.
	Tiles uint

	// PCMEnabled allows the syntax writer to emit raw PCM CU samples
	// when mode decision selects them.
	PCMEnabled bool

	// ScalingListPath, if non-empty, names a file holding a custom
	// quantization scaling list to load via transform.LoadScalingList.
	ScalingListPath string

	// TraceLogPath, if non-empty, enables the pipeline orchestrator's
	// rotating diagnostic trace log at this path.
	TraceLogPath string

	// Logger holds an implementation of the Logger interface required
	// by every package in the core. This must be set for the pipeline
	// to work correctly.
	Logger logging.Logger

	// LogLevel is the encoder's logging verbosity. Valid values are
	// defined by enums from the logging package: logging.Debug,
	// logging.Info, logging.Warning, logging.Error, logging.Fatal.
	LogLevel int8
}

// Option configures a Config at construction time, following the
// functional-options pattern. An Option returns a ConfigError on
// invalid input.
type Option func(*Config) error

// New constructs a Config from width, height and a Logger, applying
// opts in order and then Validate. The first error encountered, from
// either an option or Validate, is returned.
func New(width, height uint, logger logging.Logger, opts ...Option) (*Config, error) {
	c := &Config{
		Width:     width,
		Height:    height,
		BitDepth:  8,
		FrameRate: 30,
		QP:        26,
		GOPPreset: GOPHierarchicalB,
		OWF:       2,
		Logger:    logger,
		LogLevel:  logging.Info,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LogInvalidField logs that a field was unset or invalid and a default
// was substituted, mirroring the diagnostic the core emits whenever
// Validate corrects a field in place.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
