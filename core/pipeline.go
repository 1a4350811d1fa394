package core

// Step is one compiled hook with the slot it came from.
type Step struct {
	Stage Stage
	Scope Scope
	Hook  Hook
}

// Pipeline is the ordered hook sequence for one operation.
type Pipeline struct {
	Operation Operation
	Steps     []Step
}

func (p Pipeline) Len() int { return len(p.Steps) }

// Hooks returns the hooks in execution order.
func (p Pipeline) Hooks() []Hook {
	out := make([]Hook, 0, len(p.Steps))
	for _, step := range p.Steps {
		out = append(out, step.Hook)
	}
	return out
}

type slot struct {
	stage Stage
	scope Scope
}

// Fixed slot order. Normalize and post run the operation slot first,
// authorize and pre run the any slot first.
var pipelineSlots = []slot{
	{StageNormalize, ScopeOperation},
	{StageNormalize, ScopeAny},
	{StageAuthorize, ScopeAny},
	{StageAuthorize, ScopeOperation},
	{StagePre, ScopeAny},
	{StagePre, ScopeOperation},
	{StageExecute, ScopeOperation},
	{StagePost, ScopeOperation},
	{StagePost, ScopeAny},
}

// Compile reads the registry at call time and concatenates the nine slots for op.
func (r *HookRegistry) Compile(op Operation) (Pipeline, error) {
	if !op.Valid() {
		return Pipeline{}, newInvalidOperationError(string(op))
	}
	pipeline := Pipeline{Operation: op}
	for _, s := range pipelineSlots {
		target := op
		if s.scope == ScopeAny {
			target = OperationAny
		}
		for _, hook := range r.Hooks(s.stage, target) {
			pipeline.Steps = append(pipeline.Steps, Step{
				Stage: s.stage,
				Scope: s.scope,
				Hook:  hook,
			})
		}
	}
	return pipeline, nil
}
