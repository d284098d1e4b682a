package decode

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

// Rule is a tolerant decoding rule for one field class.
// Every rule turns any raw JSON value into a Value; none of them fail.
type Rule int

const (
	// RuleString accepts strings and numbers (rendered as written).
	RuleString Rule = iota
	// RuleInt accepts numbers and base-10 numeric strings; anything else is 0.
	RuleInt
	// RuleFloat accepts numbers and numeric strings; anything else is 0.
	RuleFloat
	// RuleID accepts strings and numbers; a missing or invalid id becomes a random UUID.
	RuleID
	// RuleFlag accepts booleans, 0/1 numbers and "1"/"0"/"true"/"false" strings.
	RuleFlag
	// RuleEnum reads an enum code: numbers and numeric strings give Int, other strings give Str.
	RuleEnum
	// RuleObject passes a nested object through for a nested decoder.
	RuleObject
	// RuleList passes a nested array through for a nested decoder.
	RuleList
	// RuleAny passes any non-null value through; the nested decoder decides its shape.
	RuleAny
)

var ruleNames = []string{"string", "int", "float", "id", "flag", "enum", "object", "list", "any"}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "rule(" + strconv.Itoa(int(r)) + ")"
}

// Value is the normalized result of applying a Rule.
// Present is false when the key is absent or null. Malformed is true when the key
// was present but its value had to be replaced by the rule's default.
type Value struct {
	Present   bool
	Malformed bool
	Str       string
	Int       int64
	Float     float64
	Bool      bool
	Raw       gjson.Result
}

// Read applies the rule to a raw JSON value.
func (r Rule) Read(raw gjson.Result) Value {
	if !raw.Exists() || raw.Type == gjson.Null {
		if r == RuleID {
			return Value{Str: uuid.NewString()}
		}
		return Value{}
	}

	v := Value{Present: true, Raw: raw}
	switch r {
	case RuleString:
		v.Str, v.Malformed = readString(raw)
	case RuleInt:
		v.Int, v.Malformed = readInt(raw)
	case RuleFloat:
		v.Float, v.Malformed = readFloat(raw)
	case RuleID:
		v.Str, v.Malformed = readString(raw)
		v.Str = strings.TrimSpace(v.Str)
		if v.Str == "" {
			v.Str = uuid.NewString()
			v.Malformed = true
		}
	case RuleFlag:
		v.Bool, v.Malformed = readFlag(raw)
	case RuleEnum:
		v.Int, v.Str, v.Malformed = readEnum(raw)
	case RuleObject:
		v.Malformed = !raw.IsObject()
	case RuleList:
		v.Malformed = !raw.IsArray()
	}
	return v
}

// Bounds of the float64 values that convert to int64 without overflow. The
// upper bound is 2^63 itself, which does not fit.
const (
	minInt64Float = float64(math.MinInt64)
	maxInt64Float = -float64(math.MinInt64)
)

func readString(raw gjson.Result) (string, bool) {
	switch raw.Type {
	case gjson.String:
		return raw.Str, false
	case gjson.Number:
		return raw.Raw, false
	}
	return "", true
}

// readInt implements the integer rule: numbers are used directly, strings are
// parsed base-10, everything else (and any parse failure) yields 0. Fractions
// truncate; a number outside the int64 range is malformed.
func readInt(raw gjson.Result) (int64, bool) {
	switch raw.Type {
	case gjson.Number:
		if n, err := strconv.ParseInt(raw.Raw, 10, 64); err == nil {
			return n, false
		}
		if !(raw.Num >= minInt64Float && raw.Num < maxInt64Float) {
			return 0, true
		}
		return int64(raw.Num), false
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(raw.Str), 10, 64)
		if err != nil {
			return 0, true
		}
		return n, false
	}
	return 0, true
}

func readFloat(raw gjson.Result) (float64, bool) {
	switch raw.Type {
	case gjson.Number:
		return raw.Num, false
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw.Str), 64)
		if err != nil {
			return 0, true
		}
		return f, false
	}
	return 0, true
}

func readFlag(raw gjson.Result) (bool, bool) {
	switch raw.Type {
	case gjson.True:
		return true, false
	case gjson.False:
		return false, false
	case gjson.Number:
		return raw.Num != 0, false
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(raw.Str)) {
		case "1", "true", "yes", "y":
			return true, false
		case "0", "false", "no", "n", "":
			return false, false
		}
	}
	return false, true
}

func readEnum(raw gjson.Result) (int64, string, bool) {
	switch raw.Type {
	case gjson.Number:
		n, _ := readInt(raw)
		return n, "", false
	case gjson.String:
		s := strings.TrimSpace(raw.Str)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, "", false
		}
		return 0, s, false
	}
	return 0, "", true
}

// field binds one wire key of an entity to a rule and a setter.
// Entities declare their fields as tables of these and decode through applyFields,
// so every field of a class gets the same coercion.
type field[T any] struct {
	key      string
	rule     Rule
	required bool
	set      func(dst *T, v Value)
}

// applyFields decodes obj into dst following the table.
// Malformed values are counted and defaulted; a required field that is absent or
// malformed aborts with a *entity.FieldError.
func applyFields[T any](entityName string, obj gjson.Result, fields []field[T], dst *T) error {
	for _, f := range fields {
		v := f.rule.Read(obj.Get(f.key))
		if v.Malformed {
			metrics.RecordCoercion(entityName, f.key)
			slog.Debug("field value coerced to default",
				slog.String("entity", entityName),
				slog.String("field", f.key),
				slog.String("rule", f.rule.String()),
				slog.String("raw", truncate(v.Raw.Raw, 64)))
		}
		if f.required && (!v.Present || v.Malformed) {
			reason := "missing"
			if v.Present {
				reason = "malformed " + f.rule.String()
			}
			return &entity.FieldError{Entity: entityName, Field: f.key, Reason: reason}
		}
		if f.set != nil {
			f.set(dst, v)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Setter helpers keep the tables declarative.

func setString[T any](get func(*T) *string) func(*T, Value) {
	return func(dst *T, v Value) { *get(dst) = v.Str }
}

func setInt[T any](get func(*T) *int64) func(*T, Value) {
	return func(dst *T, v Value) { *get(dst) = v.Int }
}

func setFloat[T any](get func(*T) *float64) func(*T, Value) {
	return func(dst *T, v Value) { *get(dst) = v.Float }
}

func setFlag[T any](get func(*T) *bool) func(*T, Value) {
	return func(dst *T, v Value) { *get(dst) = v.Bool }
}

// setOptionalInt leaves the pointer nil when the key is absent; a malformed
// present value becomes 0.
func setOptionalInt[T any](get func(*T) **int64) func(*T, Value) {
	return func(dst *T, v Value) {
		if !v.Present {
			return
		}
		n := v.Int
		*get(dst) = &n
	}
}
