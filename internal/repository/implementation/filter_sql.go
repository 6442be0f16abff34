package implementation

import (
	"fmt"
	"strings"

	"edu-rag-be/pkg/rag/filter"
)

// filterToSQL translates a metadata filter into a WHERE clause over the
// chunks table. The SQL translation is strict exact-match (case-insensitive
// on scalar columns, membership on the tags array); the in-memory fallback
// in SearchSimilar uses the same semantics through Filter.Matches.
func filterToSQL(f filter.Filter) (string, []any, error) {
	switch v := f.(type) {
	case filter.Equals:
		return scalarOrTagClause(v.Field, []string{v.Value})
	case filter.OneOf:
		if len(v.Values) == 0 {
			return "FALSE", nil, nil
		}
		return scalarOrTagClause(v.Field, v.Values)
	case filter.And:
		return combineClauses(v.Filters, " AND ", "TRUE")
	case filter.Or:
		return combineClauses(v.Filters, " OR ", "FALSE")
	default:
		return "", nil, fmt.Errorf("unsupported filter type %T", f)
	}
}

func combineClauses(filters []filter.Filter, op string, empty string) (string, []any, error) {
	if len(filters) == 0 {
		return empty, nil, nil
	}
	clauses := make([]string, 0, len(filters))
	var args []any
	for _, sub := range filters {
		clause, subArgs, err := filterToSQL(sub)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "("+clause+")")
		args = append(args, subArgs...)
	}
	return strings.Join(clauses, op), args, nil
}

func scalarOrTagClause(field string, values []string) (string, []any, error) {
	if field == filter.FieldTags {
		return tagClause(values)
	}

	column, err := filterColumn(field)
	if err != nil {
		return "", nil, err
	}

	if len(values) == 1 {
		return fmt.Sprintf("LOWER(%s) = LOWER(?)", column), []any{values[0]}, nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = strings.ToLower(v)
	}
	return fmt.Sprintf("LOWER(%s) IN ?", column), []any{args}, nil
}

// tagClause tests membership in the jsonb tags array, case-insensitively.
func tagClause(values []string) (string, []any, error) {
	lowered := make([]any, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	clause := "EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE LOWER(tag) IN ?)"
	return clause, []any{lowered}, nil
}

func filterColumn(field string) (string, error) {
	switch field {
	case filter.FieldSourceType, filter.FieldSourceName, filter.FieldSourceURL, filter.FieldTitle:
		return field, nil
	default:
		return "", fmt.Errorf("unknown filter field %q", field)
	}
}
