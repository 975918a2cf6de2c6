package config

import "github.com/keepdataflow/sqlbox/internal/engine"

const (
	DefaultName         = "sqlbox-dev"
	DefaultEngine       = string(engine.VariantServer)
	DefaultPort         = engine.DefaultPort
	DefaultStopTimeout  = "10s"
	DefaultBuildTag     = "sqlbox/mssql:dev"
	DefaultWaitTimeout  = "90s"
	DefaultWaitInterval = "2s"
)

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Name:        DefaultName,
		Engine:      DefaultEngine,
		Port:        DefaultPort,
		StopTimeout: DefaultStopTimeout,
		Build: BuildConfig{
			Tag: DefaultBuildTag,
		},
		Wait: WaitConfig{
			Timeout:  DefaultWaitTimeout,
			Interval: DefaultWaitInterval,
		},
	}
}
