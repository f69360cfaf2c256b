package sync

import "time"

// Config holds configuration for the synchronization engine.
type Config struct {
	// Workers is the number of concurrent sync workers. Different providers
	// may sync in parallel; the same provider never does.
	Workers int `mapstructure:"workers" default:"2"`
	// IntervalSeconds is how often the scheduler checks for due providers.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"60"`
	// FetchTimeoutSeconds bounds every vendor network call. Exceeding it is
	// treated as a transient network failure.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"30"`
	// QueueSize is the capacity of the pending sync queue.
	QueueSize int `mapstructure:"queue_size" default:"64"`
}

// FetchTimeout returns the vendor call timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Interval returns the scheduler tick as a duration.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}
