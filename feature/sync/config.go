package sync

import "time"

// Source kinds for the menu workbook.
const (
	SourceFile    = "file"
	SourceStorage = "storage"
)

// Config holds configuration for the menu reconciliation job.
type Config struct {
	// Enabled starts the background loop alongside the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Source selects where the workbook comes from (file or storage).
	Source string `mapstructure:"source" default:"file"`
	// File is the local workbook path when Source is "file".
	File string `mapstructure:"file" default:"Menu.xlsx"`
	// Object is the object name in the storage bucket when Source is "storage".
	Object string `mapstructure:"object" default:"Menu.xlsx"`
	// IntervalSeconds is the delay between successful passes.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"60"`
	// RetryDelaySeconds is the delay before retrying after a failed pass.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" default:"5"`
}

// Interval returns the delay between successful passes.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RetryDelay returns the delay before retrying a failed pass.
func (c Config) RetryDelay() time.Duration {
	if c.RetryDelaySeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.RetryDelaySeconds) * time.Second
}
