package core

import "strings"

// Operation names one of the resource actions a pipeline is compiled for.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationGet    Operation = "get"
	OperationGetAll Operation = "getAll"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"

	// OperationAny binds a hook to every operation of a list-shaped stage.
	OperationAny Operation = "any"
)

// Stage names a pipeline phase.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageAuthorize Stage = "authorize"
	StagePre       Stage = "pre"
	StageExecute   Stage = "execute"
	StagePost      Stage = "post"
)

// Scope tells whether a compiled step came from the operation slot or the any slot.
type Scope string

const (
	ScopeOperation Scope = "operation"
	ScopeAny       Scope = "any"
)

var operations = []Operation{
	OperationCreate,
	OperationGet,
	OperationGetAll,
	OperationUpdate,
	OperationDelete,
}

var listStages = []Stage{
	StageNormalize,
	StageAuthorize,
	StagePre,
	StagePost,
}

// Operations returns the closed set of resource operations.
func Operations() []Operation {
	return append([]Operation(nil), operations...)
}

// Stages returns every stage in pipeline order.
func Stages() []Stage {
	return []Stage{StageNormalize, StageAuthorize, StagePre, StageExecute, StagePost}
}

func (o Operation) String() string { return string(o) }

// Valid reports whether o is one of the five resource operations. OperationAny is not valid here.
func (o Operation) Valid() bool {
	for _, candidate := range operations {
		if candidate == o {
			return true
		}
	}
	return false
}

func (s Stage) String() string { return string(s) }

func (s Stage) Valid() bool {
	return s == StageExecute || s.listShaped()
}

func (s Stage) listShaped() bool {
	for _, candidate := range listStages {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOperation accepts the canonical names plus the lowercase "getall" spelling.
func ParseOperation(value string) (Operation, error) {
	trimmed := strings.TrimSpace(value)
	if strings.EqualFold(trimmed, string(OperationGetAll)) {
		return OperationGetAll, nil
	}
	op := Operation(strings.ToLower(trimmed))
	if op.Valid() || op == OperationAny {
		return op, nil
	}
	return "", newInvalidOperationError(value)
}

// ParseStage resolves a stage name.
func ParseStage(value string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(value)))
	if !stage.Valid() {
		return "", newInvalidStageError(value)
	}
	return stage, nil
}
