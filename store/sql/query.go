package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-resources/core"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// column maps well-known record fields onto document columns. Any other field
// is read from the JSON body.
func (s *DocumentStore) column(field string) (string, bool) {
	switch field {
	case s.identityField:
		return "id", true
	case s.alternateKeyField:
		return "handle", true
	case core.VersionField:
		return "version", true
	case core.CreatedAtField:
		return "created_at", true
	case core.UpdatedAtField:
		return "updated_at", true
	}
	return "", false
}

func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, "") + `"`
}

// applyCriteria scopes q to the collection and adds one equality filter per entry.
func (s *DocumentStore) applyCriteria(q *bun.SelectQuery, criteria core.Criteria) *bun.SelectQuery {
	q = q.Where("?TableAlias.collection = ?", s.collection)
	for _, field := range sortedKeys(criteria) {
		value := criteria[field]
		if column, ok := s.column(field); ok {
			q = q.Where("?TableAlias.? = ?", bun.Ident(column), s.columnValue(column, value))
			continue
		}
		if value == nil {
			q = q.Where(s.jsonText()+" IS NULL", s.jsonArg(field))
			continue
		}
		q = q.Where(s.jsonText()+" = ?", s.jsonArg(field), s.filterText(value))
	}
	return q
}

func (s *DocumentStore) applySort(q *bun.SelectQuery, fields []core.SortField) *bun.SelectQuery {
	if len(fields) == 0 {
		return q.OrderExpr("?TableAlias.created_at ASC").OrderExpr("?TableAlias.id ASC")
	}
	for _, field := range fields {
		direction := "ASC"
		if field.Order < 0 {
			direction = "DESC"
		}
		if column, ok := s.column(field.Field); ok {
			q = q.OrderExpr("?TableAlias.? "+direction, bun.Ident(column))
			continue
		}
		q = q.OrderExpr(s.jsonValue()+" "+direction, s.jsonArg(field.Field))
	}
	return q
}

func (s *DocumentStore) jsonText() string {
	if s.dialect == dialect.PG {
		return "?TableAlias.body ->> ?"
	}
	return "CAST(json_extract(?TableAlias.body, ?) AS TEXT)"
}

func (s *DocumentStore) jsonValue() string {
	if s.dialect == dialect.PG {
		return "?TableAlias.body -> ?"
	}
	return "json_extract(?TableAlias.body, ?)"
}

func (s *DocumentStore) jsonArg(field string) string {
	if s.dialect == dialect.PG {
		return field
	}
	return jsonPath(field)
}

func (s *DocumentStore) columnValue(column string, value any) any {
	switch column {
	case "id", "handle":
		return s.filterText(value)
	case "version":
		if n, err := strconv.Atoi(s.filterText(value)); err == nil {
			return n
		}
	}
	return value
}

// filterText renders a criteria value the way the dialect prints a JSON scalar as text.
func (s *DocumentStore) filterText(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
		return ""
	case bool:
		if s.dialect == dialect.PG {
			return strconv.FormatBool(typed)
		}
		if typed {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	}
	return fmt.Sprint(value)
}
