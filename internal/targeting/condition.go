package targeting

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/propertyops/tenant-sms-backend/internal/model"
)

// Condition is a declarative boolean rule over tenant fields. A node is
// either a branch (Op "and"/"or" with Rules) or a leaf (Field, Operator,
// Value); a node that mixes both forms, or has neither, is malformed.
type Condition struct {
	Op    string       `json:"op,omitempty"`
	Rules []*Condition `json:"rules,omitempty"`

	Field    string `json:"field,omitempty"`
	Operator string `json:"operator,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// ConditionError reports an unknown field or operator, or a malformed
// condition tree. Select fails as a whole rather than guessing.
type ConditionError struct {
	Field  string
	Reason string
}

func (e *ConditionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("condition error on field %q: %s", e.Field, e.Reason)
	}
	return "condition error: " + e.Reason
}

// Shortcut expands a named condition into its tree form.
func Shortcut(name string) (*Condition, error) {
	switch name {
	case "all":
		return &Condition{Op: "and"}, nil
	case "unpaid":
		return &Condition{Field: "is_current_month_rent_paid", Operator: "eq", Value: false}, nil
	case "paid":
		return &Condition{Field: "is_current_month_rent_paid", Operator: "eq", Value: true}, nil
	case "late_fee":
		return &Condition{Field: "late_fee_applicable", Operator: "eq", Value: true}, nil
	}
	return nil, &ConditionError{Reason: fmt.Sprintf("unknown shortcut %q", name)}
}

// Parse resolves a raw condition input: a shortcut name, or a JSON tree.
// Empty input selects all tenants.
func Parse(raw string) (*Condition, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Shortcut("all")
	}
	if !strings.HasPrefix(raw, "{") {
		return Shortcut(raw)
	}
	var c Condition
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, &ConditionError{Reason: "invalid condition JSON: " + err.Error()}
	}
	return &c, nil
}

// Evaluate runs the condition against a single tenant. It is pure: the
// tenant is never mutated and identical inputs always agree.
func (c *Condition) Evaluate(t *model.Tenant) (bool, error) {
	if c == nil {
		return false, &ConditionError{Reason: "nil condition"}
	}

	isBranch := c.Op != "" || len(c.Rules) > 0
	isLeaf := c.Field != "" || c.Operator != ""
	if isBranch && isLeaf {
		return false, &ConditionError{Field: c.Field, Reason: "node mixes branch and leaf forms"}
	}

	if isBranch {
		op := strings.ToLower(c.Op)
		if op != "and" && op != "or" {
			return false, &ConditionError{Reason: fmt.Sprintf("unknown logical operator %q", c.Op)}
		}
		for _, rule := range c.Rules {
			ok, err := rule.Evaluate(t)
			if err != nil {
				return false, err
			}
			if op == "and" && !ok {
				return false, nil
			}
			if op == "or" && ok {
				return true, nil
			}
		}
		// Empty "and" matches everything, empty "or" nothing.
		return op == "and", nil
	}

	if !isLeaf {
		return false, &ConditionError{Reason: "empty condition node"}
	}
	return evaluateLeaf(c, t)
}

func evaluateLeaf(c *Condition, t *model.Tenant) (bool, error) {
	if c.Field == "" {
		return false, &ConditionError{Reason: "leaf is missing field"}
	}
	got, ok := fieldValue(t, c.Field)
	if !ok {
		return false, &ConditionError{Field: c.Field, Reason: "unknown tenant field"}
	}

	switch c.Operator {
	case "eq":
		return compareEqual(got, c.Value), nil
	case "neq":
		return !compareEqual(got, c.Value), nil
	case "gt", "gte", "lt", "lte":
		return compareOrdered(c, got)
	case "contains":
		return strings.Contains(stringify(got), stringify(c.Value)), nil
	case "not_contains":
		return !strings.Contains(stringify(got), stringify(c.Value)), nil
	case "is_null":
		return got == nil, nil
	case "is_not_null":
		return got != nil, nil
	case "":
		return false, &ConditionError{Field: c.Field, Reason: "leaf is missing operator"}
	}
	return false, &ConditionError{Field: c.Field, Reason: fmt.Sprintf("unknown operator %q", c.Operator)}
}

func compareEqual(got, want any) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	gn, gok := toNumber(got)
	wn, wok := toNumber(want)
	if gok && wok {
		return gn == wn
	}
	gb, gok := got.(bool)
	wb, wok := want.(bool)
	if gok && wok {
		return gb == wb
	}
	return stringify(got) == stringify(want)
}

func compareOrdered(c *Condition, got any) (bool, error) {
	gn, gok := toNumber(got)
	wn, wok := toNumber(c.Value)
	if !gok || !wok {
		return false, &ConditionError{Field: c.Field, Reason: fmt.Sprintf("operator %q needs numeric operands", c.Operator)}
	}
	switch c.Operator {
	case "gt":
		return gn > wn, nil
	case "gte":
		return gn >= wn, nil
	case "lt":
		return gn < wn, nil
	default:
		return gn <= wn, nil
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
