package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Reserved query keys. They never reach the store as filter conditions.
const (
	QuerySkip  = "skip"
	QueryLimit = "limit"
	QuerySort  = "sort"
)

// Pagination holds the effective paging for a getAll request.
type Pagination struct {
	Skip  int
	Limit int
	Sort  []SortField
}

// ParsePagination reads skip, limit and sort from query. A limit above maxLimit
// is rejected rather than clamped.
func ParsePagination(query map[string]any, defaultLimit, maxLimit int) (Pagination, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}
	page := Pagination{Skip: 0, Limit: defaultLimit}

	if raw, ok := query[QuerySkip]; ok && !isBlank(raw) {
		skip, err := toInt(raw)
		if err != nil {
			return Pagination{}, NewBadInputError(fmt.Sprintf("'skip' must be an integer: %v", err))
		}
		if skip < 0 {
			return Pagination{}, NewBadInputError("'skip' must be greater than or equal to 0")
		}
		page.Skip = skip
	}

	if raw, ok := query[QueryLimit]; ok && !isBlank(raw) {
		limit, err := toInt(raw)
		if err != nil {
			return Pagination{}, NewBadInputError(fmt.Sprintf("'limit' must be an integer: %v", err))
		}
		if limit > maxLimit {
			return Pagination{}, NewBadInputError(
				fmt.Sprintf("'limit' must be less than or equal to %d", maxLimit),
				ResourceErrorLimitExceeded,
			)
		}
		if limit <= 0 {
			return Pagination{}, NewBadInputError("'limit' must be greater than 0")
		}
		page.Limit = limit
	}

	if raw, ok := query[QuerySort]; ok && !isBlank(raw) {
		sortFields, err := ParseSort(raw)
		if err != nil {
			return Pagination{}, NewBadInputError(err.Error())
		}
		page.Sort = sortFields
	}

	return page, nil
}

// ParseSort accepts "-createdAt,name", a []string of the same tokens, or a map of
// field to direction (1, -1, "asc", "desc").
func ParseSort(raw any) ([]SortField, error) {
	switch typed := raw.(type) {
	case string:
		return parseSortTokens(strings.Split(typed, ","))
	case []string:
		return parseSortTokens(typed)
	case []any:
		tokens := make([]string, 0, len(typed))
		for _, item := range typed {
			tokens = append(tokens, fmt.Sprint(item))
		}
		return parseSortTokens(tokens)
	case map[string]any:
		fields := make([]string, 0, len(typed))
		for field := range typed {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		out := make([]SortField, 0, len(fields))
		for _, field := range fields {
			order, err := sortDirection(typed[field])
			if err != nil {
				return nil, fmt.Errorf("'sort' direction for %q: %w", field, err)
			}
			out = append(out, SortField{Field: strings.TrimSpace(field), Order: order})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("'sort' has unsupported type %T", raw)
	}
}

func parseSortTokens(tokens []string) ([]SortField, error) {
	out := make([]SortField, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		order := 1
		switch token[0] {
		case '-':
			order = -1
			token = token[1:]
		case '+':
			token = token[1:]
		}
		if token == "" {
			return nil, fmt.Errorf("'sort' contains an empty field")
		}
		out = append(out, SortField{Field: token, Order: order})
	}
	return out, nil
}

func sortDirection(value any) (int, error) {
	if text, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "asc", "ascending":
			return 1, nil
		case "desc", "descending":
			return -1, nil
		}
	}
	n, err := toInt(value)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		return 1, nil
	case n < 0:
		return -1, nil
	}
	return 0, fmt.Errorf("direction must be non-zero")
}

// QueryConditions returns every query entry except the reserved pagination keys.
func QueryConditions(query map[string]any) Criteria {
	out := make(Criteria, len(query))
	for key, value := range query {
		switch key {
		case QuerySkip, QueryLimit, QuerySort:
			continue
		}
		out[key] = value
	}
	return out
}

func toInt(value any) (int, error) {
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int32:
		return int(typed), nil
	case int64:
		return int(typed), nil
	case float64:
		if typed != math.Trunc(typed) {
			return 0, fmt.Errorf("%v is not a whole number", typed)
		}
		return int(typed), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(typed))
	case []string:
		if len(typed) == 0 {
			return 0, fmt.Errorf("empty value")
		}
		return strconv.Atoi(strings.TrimSpace(typed[0]))
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func isBlank(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	}
	return false
}
