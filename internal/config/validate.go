package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Render.GBufferWidth < 0 || c.Render.GBufferHeight < 0 {
		err = multierr.Append(err, fmt.Errorf("gbuffer size %dx%d must not be negative", c.Render.GBufferWidth, c.Render.GBufferHeight))
	}

	s := c.Shadows
	if s.DefaultResolution <= 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.default_resolution %d must be positive", s.DefaultResolution))
	}
	if s.NearPlane <= 0 || s.FarPlane <= s.NearPlane {
		err = multierr.Append(err, fmt.Errorf("shadows near/far planes %g/%g must satisfy 0 < near < far", s.NearPlane, s.FarPlane))
	}
	if s.OrthoHalfExtent <= 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.ortho_half_extent %g must be positive", s.OrthoHalfExtent))
	}
	if s.EyeDistance <= 0 {
		err = multierr.Append(err, fmt.Errorf("shadows.eye_distance %g must be positive", s.EyeDistance))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}

	return err
}
