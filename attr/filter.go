package attr

import "strings"

// Operator defines how a filter compares a document value.
type Operator uint8

const (
	// OpEqual matches values that compare equal.
	OpEqual Operator = iota
	// OpNotEqual matches values that do not compare equal.
	OpNotEqual
	// OpGreaterThan matches values strictly greater than the operand.
	OpGreaterThan
	// OpGreaterEqual matches values greater than or equal to the operand.
	OpGreaterEqual
	// OpLessThan matches values strictly less than the operand.
	OpLessThan
	// OpLessEqual matches values less than or equal to the operand.
	OpLessEqual
	// OpContains matches string values containing the operand substring.
	OpContains
)

// Filter is a single predicate over one extra field.
type Filter struct {
	Key      string
	Operator Operator
	Value    Value
}

// FilterSet is a conjunction of filters.
type FilterSet struct {
	Filters []Filter
}

// NewFilterSet creates a FilterSet from the given filters.
func NewFilterSet(filters ...Filter) *FilterSet {
	return &FilterSet{Filters: filters}
}

// Equal is shorthand for an equality filter.
func Equal(key string, value Value) Filter {
	return Filter{Key: key, Operator: OpEqual, Value: value}
}

// Matches checks if the provided document matches this filter.
func (f *Filter) Matches(doc Document) bool {
	value, exists := doc[f.Key]
	if !exists {
		return false
	}

	switch f.Operator {
	case OpEqual:
		return compareEqual(value, f.Value)
	case OpNotEqual:
		return !compareEqual(value, f.Value)
	case OpGreaterThan:
		return compareGreater(value, f.Value)
	case OpGreaterEqual:
		return compareGreater(value, f.Value) || compareEqual(value, f.Value)
	case OpLessThan:
		return compareLess(value, f.Value)
	case OpLessEqual:
		return compareLess(value, f.Value) || compareEqual(value, f.Value)
	case OpContains:
		return compareContains(value, f.Value)
	default:
		return false
	}
}

// Matches checks if the provided document matches all filters in the set.
func (fs *FilterSet) Matches(doc Document) bool {
	for _, filter := range fs.Filters {
		if !filter.Matches(doc) {
			return false
		}
	}
	return true
}

func compareEqual(a, b Value) bool {
	if a.Kind == KindNull && b.Kind == KindNull {
		return true
	}
	if a.Kind == KindNull || b.Kind == KindNull {
		return false
	}

	if isNumber(a) && isNumber(b) {
		// Prefer exact int compare when possible.
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I64 == b.I64
		}
		return asFloat64(a) == asFloat64(b)
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.S == b.S
	case KindBool:
		return a.B == b.B
	default:
		return false
	}
}

func compareGreater(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		return asFloat64(a) > asFloat64(b)
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.S > b.S
	}
	return false
}

func compareLess(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		return asFloat64(a) < asFloat64(b)
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.S < b.S
	}
	return false
}

func compareContains(a, b Value) bool {
	if a.Kind == KindString && b.Kind == KindString {
		return strings.Contains(a.S, b.S)
	}
	return false
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func asFloat64(v Value) float64 {
	if v.Kind == KindInt {
		return float64(v.I64)
	}
	return v.F64
}
