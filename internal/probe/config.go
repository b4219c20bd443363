package probe

import (
	"runtime"
	"time"
)

// Defaults for Config.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultTimeout = 10 * time.Second
	DefaultRepeat  = 1

	workerChannelMultiplier = 2
	maxRecordedFailures     = 50
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Repeat  int           // Times the catalog is submitted
	Verbose bool          // Log every response
}

// DefaultConfig returns a Config pointed at a local server.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Workers: runtime.NumCPU() * 2,
		Timeout: DefaultTimeout,
		Repeat:  DefaultRepeat,
	}
}

func (c *Config) normalize() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Repeat <= 0 {
		c.Repeat = DefaultRepeat
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Failure describes one request whose outcome did not match its scenario.
type Failure struct {
	Scenario   string `json:"scenario"`
	RequestID  string `json:"requestId"`
	WantStatus string `json:"wantStatus"`
	GotStatus  string `json:"gotStatus"`
	WantCode   int    `json:"wantCode"`
	GotCode    int    `json:"gotCode"`
	Err        string `json:"error,omitempty"`
}

// Summary holds probe statistics.
type Summary struct {
	Submitted       int64         `json:"submitted"`
	Passed          int64         `json:"passed"`
	Failed          int64         `json:"failed"`
	TransportErrors int64         `json:"transportErrors"`
	Duration        time.Duration `json:"duration"`
	Failures        []Failure     `json:"failures,omitempty"`
}
