// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the sweepplot chart configuration, read from an
// optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/heatshrink/sweep/sweepchart"
	"github.com/heatshrink/sweep/sweepstat"
)

// Config is the sweepplot configuration.
type Config struct {
	// File is the discriminant value to chart.
	File string `yaml:"file"`
	// Discriminant is the string field records are bucketed by.
	Discriminant string `yaml:"discriminant"`
	// Primary and Secondary are the integer key fields. Primary
	// values form clusters; secondary values pick a bar within a
	// cluster and its color.
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`

	BarWidth float64 `yaml:"bar_width"`
	Palette  string  `yaml:"palette"`
	WidthCm  float64 `yaml:"width_cm"`
	HeightCm float64 `yaml:"height_cm"` // per chart
	DPI      int     `yaml:"dpi"`

	Charts []ChartConfig `yaml:"charts"`
}

// ChartConfig describes one chart.
type ChartConfig struct {
	Field  string `yaml:"field"`
	Title  string `yaml:"title"`
	XLabel string `yaml:"x_label"`
	YLabel string `yaml:"y_label"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadFile reads a YAML configuration file. Unset keys take their
// default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.File == "" {
		c.File = "tsz-compressed-data.bin"
	}
	if c.Discriminant == "" {
		c.Discriminant = "file_name"
	}
	if c.Primary == "" {
		c.Primary = sweepstat.DefaultOptions.Primary
	}
	if c.Secondary == "" {
		c.Secondary = sweepstat.DefaultOptions.Secondary
	}
	if c.BarWidth == 0 {
		c.BarWidth = 0.075
	}
	if c.Palette == "" {
		c.Palette = "Paired"
	}
	if c.WidthCm <= 0 {
		c.WidthCm = 25
	}
	if c.HeightCm <= 0 {
		c.HeightCm = 12
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}
	if len(c.Charts) == 0 {
		for _, s := range sweepchart.DefaultSpecs {
			c.Charts = append(c.Charts, ChartConfig{Field: s.Field, Title: s.Title, XLabel: s.XLabel, YLabel: s.YLabel})
		}
	}
	for i := range c.Charts {
		ch := &c.Charts[i]
		if ch.Title == "" {
			ch.Title = ch.Field
		}
		if ch.XLabel == "" {
			ch.XLabel = c.Primary
		}
		if ch.YLabel == "" {
			ch.YLabel = "mean " + ch.Field
		}
	}
}

// Validate reports configuration errors that would only surface late
// in a run.
func (c *Config) Validate() error {
	if c.BarWidth <= 0 || c.BarWidth >= 1 {
		return fmt.Errorf("bar_width %v must be between 0 and 1", c.BarWidth)
	}
	if c.Primary == c.Secondary {
		return fmt.Errorf("primary and secondary are both %q", c.Primary)
	}
	for i, ch := range c.Charts {
		if ch.Field == "" {
			return fmt.Errorf("chart %d has no field", i)
		}
	}
	return nil
}

// Options returns the aggregation options for c. Every charted field is
// aggregated in the same pass.
func (c *Config) Options() sweepstat.Options {
	opts := sweepstat.Options{Primary: c.Primary, Secondary: c.Secondary}
	seen := make(map[string]bool)
	for _, ch := range c.Charts {
		if !seen[ch.Field] {
			seen[ch.Field] = true
			opts.Values = append(opts.Values, ch.Field)
		}
	}
	return opts
}

// Specs returns the chart specs of c.
func (c *Config) Specs() []sweepchart.Spec {
	specs := make([]sweepchart.Spec, len(c.Charts))
	for i, ch := range c.Charts {
		specs[i] = sweepchart.Spec{Field: ch.Field, Title: ch.Title, XLabel: ch.XLabel, YLabel: ch.YLabel}
	}
	return specs
}
