package domain

// Pipeline is the fully loaded run definition: the job graph plus the
// matrix inputs and the publish block.
type Pipeline struct {
	Name      string
	Graph     *Graph
	Selectors []Selector
	Catalog   []Design
	Publish   PublishSpec
}

// PublishSpec holds the release steps gated behind the publish condition.
// Steps run sequentially in declaration order; the first failure aborts the
// remaining sequence.
type PublishSpec struct {
	Steps       []Step
	Environment map[string]string
}
