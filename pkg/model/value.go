package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Value is the content of one field cell. Text covers text, textarea, date,
// select and radio input (and raw number input as typed); Number holds
// computed numeric results; List holds the ordered selection of a checkbox
// field. The zero Value is absent.
type Value struct {
	kind Kind
	text string
	num  float64
	list []string
}

// Absent returns the empty variant.
func Absent() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a float.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// List wraps an ordered selection. A nil selection is stored as an empty list
// so the value stays distinguishable from Absent.
func List(items ...string) Value {
	out := make([]string, len(items))
	copy(out, items)
	return Value{kind: KindList, list: out}
}

// Kind reports the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether no value was ever stored.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsEmpty reports presence-emptiness: absent, the empty string, or an empty
// selection list. Numbers are never empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindText:
		return v.text == ""
	case KindList:
		return len(v.list) == 0
	default:
		return false
	}
}

// String renders the value as text: numbers without trailing zeros, lists
// comma-joined, absent as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return FormatNumber(v.num)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return ""
	}
}

// Float coerces the value to a number. Text is parsed after trimming; lists
// and absent values do not convert.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		trimmed := strings.TrimSpace(v.text)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Items returns a copy of the selected options of a list value.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string(nil), v.list...)
}

// Contains reports whether a list value includes option.
func (v Value) Contains(option string) bool {
	for _, item := range v.list {
		if item == option {
			return true
		}
	}
	return false
}

// Len reports the length used by length rules: characters for text, items for
// lists. Numbers and absent values have no length.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindText:
		return utf8.RuneCountInString(v.text), true
	case KindList:
		return len(v.list), true
	default:
		return 0, false
	}
}

// Equal compares variant and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Clone returns a copy that shares no backing storage.
func (v Value) Clone() Value {
	if v.kind == KindList {
		return List(v.list...)
	}
	return v
}

// GoString keeps test diffs readable.
func (v Value) GoString() string {
	switch v.kind {
	case KindText:
		return fmt.Sprintf("model.Text(%q)", v.text)
	case KindNumber:
		return fmt.Sprintf("model.Number(%s)", FormatNumber(v.num))
	case KindList:
		return fmt.Sprintf("model.List(%q)", v.list)
	default:
		return "model.Absent()"
	}
}

// MarshalJSON encodes absent as null, text as a string, numbers as numbers and
// lists as string arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("model: cannot encode non-finite number %v", v.num)
		}
		return json.Marshal(v.num)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, strings, numbers, booleans (stored as text) and
// arrays of scalars.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: decode value: %w", err)
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// FromAny converts decoded JSON/YAML scalars into a Value.
func FromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Absent(), nil
	case Value:
		return typed.Clone(), nil
	case string:
		return Text(typed), nil
	case bool:
		return Text(strconv.FormatBool(typed)), nil
	case time.Time:
		return Text(dateText(typed)), nil
	case float64:
		return Number(typed), nil
	case float32:
		return Number(float64(typed)), nil
	case int:
		return Number(float64(typed)), nil
	case int64:
		return Number(float64(typed)), nil
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("model: decode number %q: %w", typed.String(), err)
		}
		return Number(f), nil
	case []string:
		return List(typed...), nil
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			switch elem := item.(type) {
			case string:
				items = append(items, elem)
			case nil:
				continue
			case float64:
				items = append(items, FormatNumber(elem))
			case time.Time:
				items = append(items, dateText(elem))
			default:
				items = append(items, fmt.Sprint(elem))
			}
		}
		return List(items...), nil
	default:
		return Value{}, fmt.Errorf("model: unsupported value type %T", raw)
	}
}

// dateText renders a decoded YAML timestamp the way a date input reports it.
func dateText(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// FormatNumber renders f the way a user would type it: integral values without
// a decimal point, others with the shortest exact representation.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Values maps field ids to their current cells.
type Values map[string]Value

// Get returns the value for id, absent when missing.
func (vs Values) Get(id string) Value {
	if vs == nil {
		return Value{}
	}
	return vs[id]
}

// Lookup returns the value for id and whether an entry exists.
func (vs Values) Lookup(id string) (Value, bool) {
	if vs == nil {
		return Value{}, false
	}
	v, ok := vs[id]
	return v, ok
}

// Clone returns a deep copy; a nil map clones to an empty one.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for id, v := range vs {
		out[id] = v.Clone()
	}
	return out
}

// Equal compares two value maps entry by entry.
func (vs Values) Equal(other Values) bool {
	if len(vs) != len(other) {
		return false
	}
	for id, v := range vs {
		o, ok := other[id]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}
