package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Email requires a syntactically valid email address
func (f *Field) Email() *Field {
	f.rules = append(f.rules, rule{
		name: RuleEmail,
		check: func(v any, _ map[string]any) bool {
			return validate.Var(v, "email") == nil
		},
	})
	return f
}

// MinLength requires at least n characters
func (f *Field) MinLength(n int) *Field {
	f.rules = append(f.rules, rule{
		name: RuleMinLength,
		meta: map[string]any{"min": n},
		check: func(v any, _ map[string]any) bool {
			s, _ := v.(string)
			return utf8.RuneCountInString(s) >= n
		},
	})
	return f
}

// MaxLength allows at most n characters
func (f *Field) MaxLength(n int) *Field {
	f.rules = append(f.rules, rule{
		name: RuleMaxLength,
		meta: map[string]any{"max": n},
		check: func(v any, _ map[string]any) bool {
			s, _ := v.(string)
			return utf8.RuneCountInString(s) <= n
		},
	})
	return f
}

// Confirmed requires input[other] to equal the field's value
func (f *Field) Confirmed(other string) *Field {
	f.rules = append(f.rules, rule{
		name: RuleConfirmed,
		meta: map[string]any{"otherField": other},
		check: func(v any, input map[string]any) bool {
			confirmation, ok := input[other].(string)
			return ok && confirmation == v
		},
	})
	return f
}

// ToInt64 accepts JSON numbers (float64 or json.Number), Go integers and
// decimal strings holding an integral value.
func ToInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return floatToInt64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
