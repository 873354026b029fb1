package config

import "github.com/cockroachdb/errors"

// Validate checks settings that cannot be combined or are out of range.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Newf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Strict && c.Quiet {
		return errors.WithHint(
			errors.New("strict and quiet cannot both be set"),
			"strict turns warnings into errors while quiet drops them; pick one")
	}
	for i, p := range c.UnknownTypesPaths {
		if p == "" {
			return errors.Newf("unknown_types_paths[%d] is empty", i)
		}
	}
	return nil
}
