package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	FlowPath string // .hcl file or directory of .hcl files

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// StrictParams aborts the run when the params lists have mismatched
	// lengths. When false, the mismatch is logged and short lists pad with
	// empty strings.
	StrictParams bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
