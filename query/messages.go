package query

import (
	"math"
	"strings"

	"github.com/goliatone/go-resources/core"
)

const (
	TypeGet  = "resources.query.get"
	TypeList = "resources.query.list"
)

type GetMessage struct {
	ID     string
	Locals map[string]any
}

func (GetMessage) Type() string { return TypeGet }

func (m GetMessage) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return queryValidationError("id", "id is required")
	}
	return nil
}

// ListMessage carries the raw listing query: filter fields plus the reserved
// limit, skip and sort keys. The page ceiling is enforced by the controller.
type ListMessage struct {
	Query  map[string]any
	Locals map[string]any
}

func (ListMessage) Type() string { return TypeList }

func (m ListMessage) Validate() error {
	_, err := core.ParsePagination(m.Query, 1, math.MaxInt)
	return err
}
