package core

import (
	"context"
	"sync"
)

// Hook is a unit of work bound to a (stage, operation) slot. Returning an error
// aborts the rest of the pipeline.
type Hook interface {
	Handle(ctx context.Context, ex *Exchange) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, ex *Exchange) error

func (f HookFunc) Handle(ctx context.Context, ex *Exchange) error {
	if f == nil {
		return nil
	}
	return f(ctx, ex)
}

// HookSet is a declarative registration map, applied in operation order by RegisterAll.
type HookSet map[Stage]map[Operation][]Hook

// HookRegistry holds the ordered hook lists for the list-shaped stages and the
// single execute handler per operation.
type HookRegistry struct {
	mu      sync.RWMutex
	lists   map[Stage]map[Operation][]Hook
	execute map[Operation]Hook
}

func NewHookRegistry() *HookRegistry {
	lists := make(map[Stage]map[Operation][]Hook, len(listStages))
	for _, stage := range listStages {
		slots := make(map[Operation][]Hook, len(operations)+1)
		for _, op := range operations {
			slots[op] = make([]Hook, 0)
		}
		slots[OperationAny] = make([]Hook, 0)
		lists[stage] = slots
	}
	return &HookRegistry{
		lists:   lists,
		execute: make(map[Operation]Hook, len(operations)),
	}
}

// Register appends hook to a list-shaped stage or replaces the execute handler.
// A nil hook is ignored.
func (r *HookRegistry) Register(stage Stage, op Operation, hook Hook) error {
	if r == nil {
		return newRegistrationError("core: hook registry is nil", ResourceErrorInvalidStage)
	}
	if !stage.Valid() {
		return newInvalidStageError(string(stage))
	}
	if stage == StageExecute {
		if !op.Valid() {
			return newInvalidOperationError(string(op))
		}
	} else if !op.Valid() && op != OperationAny {
		return newInvalidOperationError(string(op))
	}
	if hook == nil {
		return nil
	}
	if fn, ok := hook.(HookFunc); ok && fn == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stage == StageExecute {
		r.execute[op] = hook
		return nil
	}
	r.lists[stage][op] = append(r.lists[stage][op], hook)
	return nil
}

// RegisterAll applies a HookSet. Stages are visited in pipeline order and
// operations in declaration order so insertion order stays deterministic.
func (r *HookRegistry) RegisterAll(set HookSet) error {
	for stage, slots := range set {
		if !stage.Valid() {
			return newInvalidStageError(string(stage))
		}
		for op := range slots {
			if stage == StageExecute && !op.Valid() {
				return newInvalidOperationError(string(op))
			}
			if !op.Valid() && op != OperationAny {
				return newInvalidOperationError(string(op))
			}
		}
	}
	for _, stage := range Stages() {
		slots := set[stage]
		for _, op := range append(Operations(), OperationAny) {
			for _, hook := range slots[op] {
				if err := r.Register(stage, op, hook); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *HookRegistry) Normalize(op Operation, hook Hook) error {
	return r.Register(StageNormalize, op, hook)
}

func (r *HookRegistry) Authorize(op Operation, hook Hook) error {
	return r.Register(StageAuthorize, op, hook)
}

func (r *HookRegistry) Pre(op Operation, hook Hook) error {
	return r.Register(StagePre, op, hook)
}

func (r *HookRegistry) Post(op Operation, hook Hook) error {
	return r.Register(StagePost, op, hook)
}

// Execute overrides the execute handler for op.
func (r *HookRegistry) Execute(op Operation, hook Hook) error {
	return r.Register(StageExecute, op, hook)
}

// Hooks returns a copy of one slot. For the execute stage the slice holds at most one hook.
func (r *HookRegistry) Hooks(stage Stage, op Operation) []Hook {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if stage == StageExecute {
		if hook := r.execute[op]; hook != nil {
			return []Hook{hook}
		}
		return nil
	}
	slots, ok := r.lists[stage]
	if !ok {
		return nil
	}
	out := make([]Hook, len(slots[op]))
	copy(out, slots[op])
	return out
}
