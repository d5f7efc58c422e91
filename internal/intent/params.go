package intent

import (
	"strconv"
	"strings"
)

// Kind discriminates the loosely-typed parameter values the NLU platform
// sends: the same field arrives as a string, a number, a list of either, or
// not at all, depending on how the utterance was annotated.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindList
)

// Value is a tagged union over one decoded parameter field. All coercion of
// the platform's shapes happens here so the rest of the pipeline only sees
// typed accessors.
type Value struct {
	kind Kind
	str  string
	num  float64
	list []Value
}

// ValueOf wraps a decoded JSON value. Unknown types degrade to absent.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return Value{}
		}
		return Value{kind: KindString, str: s}
	case float64:
		return Value{kind: KindNumber, num: v}
	case int:
		return Value{kind: KindNumber, num: float64(v)}
	case int64:
		return Value{kind: KindNumber, num: float64(v)}
	case []any:
		out := make([]Value, 0, len(v))
		for _, el := range v {
			if ev := ValueOf(el); ev.kind != KindAbsent {
				out = append(out, ev)
			}
		}
		if len(out) == 0 {
			return Value{}
		}
		return Value{kind: KindList, list: out}
	default:
		return Value{}
	}
}

// Kind returns the discriminator.
func (v Value) Kind() Kind { return v.kind }

// Absent reports whether no usable value was supplied.
func (v Value) Absent() bool { return v.kind == KindAbsent }

// String returns the value as a trimmed string, or "" when absent.
// Numbers are formatted without a decimal tail when integral.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindList:
		if len(v.list) > 0 {
			return v.list[0].String()
		}
	}
	return ""
}

// Strings flattens the value into a list of non-empty strings: a scalar
// becomes a one-element list, a list keeps its order.
func (v Value) Strings() []string {
	switch v.kind {
	case KindString, KindNumber:
		return []string{v.String()}
	case KindList:
		out := make([]string, 0, len(v.list))
		for _, el := range v.list {
			if s := el.String(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// List returns the value as a slice of Values, one element for a scalar.
func (v Value) List() []Value {
	switch v.kind {
	case KindList:
		return v.list
	case KindAbsent:
		return nil
	default:
		return []Value{v}
	}
}

// Int returns the value as an integer. Decimal strings ("2.0") are accepted;
// anything unparseable reports ok=false rather than an error, per the
// degrade-to-default policy.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindNumber:
		return int(v.num), true
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	case KindList:
		if len(v.list) > 0 {
			return v.list[0].Int()
		}
	}
	return 0, false
}

// Params is the raw parameters object of one webhook request.
type Params map[string]any

// Field returns the named parameter as a Value, absent when missing.
func (p Params) Field(key string) Value {
	if p == nil {
		return Value{}
	}
	return ValueOf(p[key])
}
