package config

// Lanefile represents the structure of the fablane.yaml pipeline file.
type Lanefile struct {
	Version   string            `yaml:"version"`
	Name      string            `yaml:"name"`
	Selectors []SelectorDTO     `yaml:"selectors"`
	Catalog   CatalogRefDTO     `yaml:"catalog"`
	Jobs      map[string]JobDTO `yaml:"jobs"`
	Publish   PublishDTO        `yaml:"publish"`
}

// SelectorDTO names one PDK / standard-cell-library pair.
type SelectorDTO struct {
	PDK string `yaml:"pdk"`
	SCL string `yaml:"scl"`
}

// CatalogRefDTO points at the design catalog, either inline or by file.
type CatalogRefDTO struct {
	File    string      `yaml:"file"`
	Designs []DesignDTO `yaml:"designs"`
}

// DesignDTO represents one design catalog entry.
type DesignDTO struct {
	Name   string   `yaml:"name"`
	Config string   `yaml:"config"`
	SCLs   []string `yaml:"scls"`
}

// JobDTO represents a job definition in the pipeline file.
type JobDTO struct {
	RunsOn          string            `yaml:"runsOn"`
	Needs           []string          `yaml:"needs"`
	Matrix          bool              `yaml:"matrix"`
	FailFast        bool              `yaml:"failFast"`
	ContinueOnError bool              `yaml:"continueOnError"`
	Environment     map[string]string `yaml:"environment"`
	Steps           []StepDTO         `yaml:"steps"`
}

// StepDTO represents one argv invocation inside a job.
type StepDTO struct {
	Name string   `yaml:"name"`
	Run  []string `yaml:"run"`
}

// PublishDTO represents the release block gated behind the publish
// condition.
type PublishDTO struct {
	Environment map[string]string `yaml:"environment"`
	Steps       []StepDTO         `yaml:"steps"`
}
