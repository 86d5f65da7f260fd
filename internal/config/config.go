// Package config loads and saves the YAML configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 1000000
}

type Pins struct {
	Data  string `yaml:"data"`  // shift register SER
	Clock string `yaml:"clock"` // SRCLK
	Latch string `yaml:"latch"` // RCLK
}

type Config struct {
	Driver     string  `yaml:"driver"`  // "spi" | "gpio" | "term"
	Pattern    string  `yaml:"pattern"` // "comet" | "bounce" | "breathe"
	TickMs     int     `yaml:"tick_ms"`
	StepSize   float64 `yaml:"step_size"`    // comet phase advance per tick
	StepUnitUs int     `yaml:"step_unit_us"` // playback µs per period unit
	Addr       string  `yaml:"addr,omitempty"`

	SPI  SPI  `yaml:"spi,omitempty"`
	Pins Pins `yaml:"pins,omitempty"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	return &Config{
		Driver:     "term",
		Pattern:    "comet",
		TickMs:     15,
		StepSize:   0.03,
		StepUnitUs: 100,
		Addr:       ":8080",
		SPI:        SPI{Dev: "/dev/spidev0.0", SpeedHz: 1000000},
		Pins:       Pins{Data: "GPIO2", Clock: "GPIO3", Latch: "GPIO4"},
	}
}

// Load reads path and unmarshals it over the defaults, so a partial file
// only overrides the fields it names.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
