/*
DESCRIPTION
  validate.go checks a Config for internal consistency and fills in
  defaults for fields left zero, returning a ConfigError describing
  the first unrecoverable problem found (spec §7).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

// ConfigError describes an invalid or missing Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

// Validate checks the Config for errors and defaults unset fields in
// place, logging each substitution via LogInvalidField.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return &ConfigError{Field: "Logger", Reason: "must be set"}
	}
	if c.Width == 0 || c.Height == 0 {
		return &ConfigError{Field: "Width/Height", Reason: "must be nonzero"}
	}
	if c.Width%8 != 0 || c.Height%8 != 0 {
		return &ConfigError{Field: "Width/Height", Reason: "must be a multiple of the minimum CU size (8)"}
	}
	if c.BitDepth == 0 {
		c.LogInvalidField("BitDepth", 8)
		c.BitDepth = 8
	}
	if c.FrameRate == 0 {
		c.LogInvalidField("FrameRate", 30)
		c.FrameRate = 30
	}
	if c.OWF == 0 {
		c.LogInvalidField("OWF", 2)
		c.OWF = 2
	}
	if c.QP > 51 {
		return &ConfigError{Field: "QP", Reason: "must be in [0,51]"}
	}
	return nil
}
