package memory

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-resources/core"
)

// Matches reports whether every criteria entry equals the record's value.
// Empty criteria match everything.
func Matches(record core.Record, criteria core.Criteria) bool {
	for field, want := range criteria {
		got, ok := record[field]
		if !ok {
			return false
		}
		if !Equal(got, want) {
			return false
		}
	}
	return true
}

// Equal compares stored and requested values. Query strings compare against
// typed values through their printed form, so "30" matches 30 and a UUID
// string matches a uuid.UUID.
func Equal(stored, requested any) bool {
	if reflect.DeepEqual(stored, requested) {
		return true
	}
	if stored == nil || requested == nil {
		return false
	}
	if values, ok := requested.([]string); ok && len(values) == 1 {
		requested = values[0]
	}
	return fmt.Sprint(stored) == fmt.Sprint(requested)
}

// CompareValues orders two field values. Missing values sort first.
func CompareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	}
	return 0, false
}
