package query

import (
	"regexp"
	"strconv"
	"strings"

	"incdeps/internal/core/errors"
)

var (
	selectRE   = regexp.MustCompile(`(?i)^\s*SELECT\s+modules(?:\s+WHERE\s+(.+?))?(?:\s+LIMIT\s+([0-9]+))?\s*$`)
	andRE      = regexp.MustCompile(`(?i)\s+AND\s+`)
	numericRE  = regexp.MustCompile(`(?i)^\s*([a-z_]+)\s*(>=|<=|!=|=|>|<)\s*(-?[0-9]+)\s*$`)
	containsRE = regexp.MustCompile(`(?i)^\s*([a-z_]+)\s+CONTAINS\s+['"]([^'"]+)['"]\s*$`)
	stringRE   = regexp.MustCompile(`(?i)^\s*([a-z_]+)\s*(=|!=)\s*['"]([^'"]*)['"]\s*$`)
)

type fieldKind int

const (
	intField fieldKind = iota
	stringField
)

var fields = map[string]fieldKind{
	"name":            stringField,
	"component":       stringField,
	"depth":           intField,
	"fan_in":          intField,
	"fan_out":         intField,
	"dependents":      intField,
	"cycle_size":      intField,
	"component_index": intField,
}

// CQLQuery is a parsed "SELECT modules [WHERE cond AND ...] [LIMIT n]".
// Numeric fields compare with = != < <= > >=; string fields take =, != or
// CONTAINS.
type CQLQuery struct {
	Conditions []Condition
	Limit      int
}

type Condition struct {
	Field  string
	Op     string
	IntVal int
	StrVal string
}

func ParseCQL(raw string) (CQLQuery, error) {
	m := selectRE.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return CQLQuery{}, errors.New(errors.CodeValidationError, "invalid query: expected SELECT modules [WHERE ...] [LIMIT n]")
	}

	var q CQLQuery
	if m[2] != "" {
		limit, err := strconv.Atoi(m[2])
		if err != nil {
			return CQLQuery{}, errors.Wrap(err, errors.CodeValidationError, "invalid LIMIT")
		}
		q.Limit = limit
	}

	where := strings.TrimSpace(m[1])
	if where == "" {
		return q, nil
	}
	for _, part := range andRE.Split(where, -1) {
		c, err := parseCondition(part)
		if err != nil {
			return CQLQuery{}, err
		}
		q.Conditions = append(q.Conditions, c)
	}
	return q, nil
}

func parseCondition(raw string) (Condition, error) {
	var (
		c       Condition
		numeric bool
	)
	if m := numericRE.FindStringSubmatch(raw); m != nil {
		v, err := strconv.Atoi(m[3])
		if err != nil {
			return Condition{}, errors.Wrap(err, errors.CodeValidationError, "invalid numeric value "+strconv.Quote(m[3]))
		}
		c, numeric = Condition{Field: strings.ToLower(m[1]), Op: m[2], IntVal: v}, true
	} else if m := containsRE.FindStringSubmatch(raw); m != nil {
		c = Condition{Field: strings.ToLower(m[1]), Op: "contains", StrVal: m[2]}
	} else if m := stringRE.FindStringSubmatch(raw); m != nil {
		c = Condition{Field: strings.ToLower(m[1]), Op: m[2], StrVal: m[3]}
	} else {
		return Condition{}, errors.Newf(errors.CodeValidationError, "invalid condition %q", strings.TrimSpace(raw))
	}

	kind, ok := fields[c.Field]
	if !ok {
		return Condition{}, errors.Newf(errors.CodeValidationError, "unknown field %q", c.Field)
	}
	if numeric && kind != intField {
		return Condition{}, errors.Newf(errors.CodeValidationError, "field %q expects a quoted string", c.Field)
	}
	if !numeric && kind != stringField {
		return Condition{}, errors.Newf(errors.CodeValidationError, "field %q expects a number", c.Field)
	}
	return c, nil
}
