/*
DESCRIPTION
  options.go provides option functions passed to config.New for
  encoder configuration: bitrate/QP targets, GOP structure, wavefront
  depth, tiling and PCM enablement.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

// WithBitDepth sets the sample bit depth. Only 8 and 10 are supported.
func WithBitDepth(bitDepth uint) Option {
	return func(c *Config) error {
		if bitDepth != 8 && bitDepth != 10 {
			return &ConfigError{Field: "BitDepth", Reason: "must be 8 or 10"}
		}
		c.BitDepth = bitDepth
		return nil
	}
}

// WithFrameRate sets the input frame rate in frames per second.
func WithFrameRate(fps uint) Option {
	return func(c *Config) error {
		if fps == 0 {
			return &ConfigError{Field: "FrameRate", Reason: "must be nonzero"}
		}
		c.FrameRate = fps
		return nil
	}
}

// WithBitrate sets the target bitrate in kbps for the rate-control GOP
// allocator.
func WithBitrate(kbps uint) Option {
	return func(c *Config) error {
		if kbps == 0 {
			return &ConfigError{Field: "Bitrate", Reason: "must be nonzero"}
		}
		c.Bitrate = kbps
		return nil
	}
}

// WithQP sets the initial quantization parameter, in [0,51].
func WithQP(qp uint) Option {
	return func(c *Config) error {
		if qp > 51 {
			return &ConfigError{Field: "QP", Reason: "must be in [0,51]"}
		}
		c.QP = qp
		return nil
	}
}

// WithGOPPreset selects the GOP structure table.
func WithGOPPreset(preset uint) Option {
	return func(c *Config) error {
		if preset != GOPLowDelay && preset != GOPHierarchicalB {
			return &ConfigError{Field: "GOPPreset", Reason: "unknown preset"}
		}
		c.GOPPreset = preset
		return nil
	}
}

// WithOWF sets the output wavefront depth: how many pictures may be in
// flight concurrently in the pipeline's encoder-state ring.
func WithOWF(owf uint) Option {
	return func(c *Config) error {
		if owf == 0 {
			return &ConfigError{Field: "OWF", Reason: "must be at least 1"}
		}
		c.OWF = owf
		return nil
	}
}

// WithTiles partitions each picture into the given number of
// independent tile columns for the wavefront task graph.
func WithTiles(tiles uint) Option {
	return func(c *Config) error {
		c.Tiles = tiles
		return nil
	}
}

// WithPCM allows the syntax writer to emit raw PCM CU samples.
func WithPCM(enabled bool) Option {
	return func(c *Config) error {
		c.PCMEnabled = enabled
		return nil
	}
}

// WithScalingList loads a custom quantization scaling list from the
// named file path at pipeline construction time.
func WithScalingList(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return &ConfigError{Field: "ScalingListPath", Reason: "must not be empty"}
		}
		c.ScalingListPath = path
		return nil
	}
}

// WithTraceLog enables the pipeline orchestrator's rotating diagnostic
// trace log at path.
func WithTraceLog(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return &ConfigError{Field: "TraceLogPath", Reason: "must not be empty"}
		}
		c.TraceLogPath = path
		return nil
	}
}
