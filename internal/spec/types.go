// Package spec defines the .quorum.yml configuration surface.
package spec

// Config is the parsed form of .quorum.yml.
type Config struct {
	Version     int         `yaml:"version"`
	ProjectRoot string      `yaml:"project_root"`
	OutputDir   string      `yaml:"output_dir"`
	Agent       AgentConfig `yaml:"agent"`
	Judge       AgentConfig `yaml:"judge"`
	Defaults    Defaults    `yaml:"defaults"`
	Report      Report      `yaml:"report"`
}

// AgentConfig describes how to invoke one agent command. Stream marks
// commands whose stdout is a newline-delimited event stream rather than
// plain text. A zero TimeoutSeconds takes the normalized default.
type AgentConfig struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	Stream         bool     `yaml:"stream"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// Defaults carries the run plan applied when flags don't override it.
// Threshold is a pointer because an explicit zero is meaningful; nil takes
// the normalized default. Zero Runs or Concurrency take theirs.
type Defaults struct {
	Runs        int      `yaml:"runs"`
	Threshold   *float64 `yaml:"threshold"`
	Concurrency int      `yaml:"concurrency"`
}

// Report configures the optional results warehouse.
type Report struct {
	DBPath string `yaml:"db_path"`
}
