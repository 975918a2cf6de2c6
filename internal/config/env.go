package config

import (
	"os"
	"strconv"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "SQLBOX_NAME",
		apply: func(c *Config, v string) {
			c.Name = v
		},
	},
	{
		envVar: "SQLBOX_ENGINE",
		apply: func(c *Config, v string) {
			c.Engine = v
		},
	},
	{
		envVar: "SQLBOX_IMAGE",
		apply: func(c *Config, v string) {
			c.Image = v
		},
	},
	{
		envVar: "SQLBOX_PORT",
		apply: func(c *Config, v string) {
			if port, err := strconv.Atoi(v); err == nil {
				c.Port = port
			}
		},
	},
	{
		envVar: "SQLBOX_SA_PASSWORD",
		apply: func(c *Config, v string) {
			c.SAPassword = v
		},
	},
	{
		envVar: "SQLBOX_RUNTIME",
		apply: func(c *Config, v string) {
			c.Runtime = v
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable values.
func applyEnvOverrides(cfg *Config) {
	for _, override := range envOverrides {
		if val := os.Getenv(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}
