package domain

// Job represents one node of the pipeline graph. A matrix job fans out into
// one instance per matrix entry; all other jobs run exactly once.
// It uses InternedString for fields that are frequently repeated to save memory.
type Job struct {
	Name            InternedString
	Needs           []InternedString
	Steps           []Step
	RunsOn          string
	Matrix          bool
	FailFast        bool
	ContinueOnError bool
	Environment     map[string]string
}

// Step is a single command executed as part of a job or the publish block.
type Step struct {
	Name    string
	Command []string
}
