package config

import "quorum/internal/spec"

// Normalized defaults applied to fields left unset in the config file.
const (
	DefaultRuns                = 1
	DefaultThreshold           = 100.0
	DefaultConcurrency         = 1
	DefaultAgentTimeoutSeconds = 300
	DefaultJudgeTimeoutSeconds = 120
)

// Normalize fills unset fields with their defaults. The judge inherits the
// agent invocation when no judge command is configured.
func Normalize(cfg *spec.Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Agent.TimeoutSeconds == 0 {
		cfg.Agent.TimeoutSeconds = DefaultAgentTimeoutSeconds
	}
	if cfg.Judge.Command == "" {
		judgeTimeout := cfg.Judge.TimeoutSeconds
		cfg.Judge = cfg.Agent
		cfg.Judge.Args = append([]string(nil), cfg.Agent.Args...)
		cfg.Judge.TimeoutSeconds = judgeTimeout
	}
	if cfg.Judge.TimeoutSeconds == 0 {
		cfg.Judge.TimeoutSeconds = DefaultJudgeTimeoutSeconds
	}
	if cfg.Defaults.Runs == 0 {
		cfg.Defaults.Runs = DefaultRuns
	}
	if cfg.Defaults.Threshold == nil {
		threshold := DefaultThreshold
		cfg.Defaults.Threshold = &threshold
	}
	if cfg.Defaults.Concurrency == 0 {
		cfg.Defaults.Concurrency = DefaultConcurrency
	}
}
