package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// Kind is the shape of a JSON value
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{"null", "boolean", "number", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// JSON is an untyped input value. Numbers keep their literal text so that
// size bounds and integer checks see exactly what the client sent.
type JSON struct {
	kind Kind
	b    bool
	num  string
	str  string
	arr  []JSON
	obj  map[string]JSON
}

func NullValue() JSON { return JSON{} }

func BoolValue(b bool) JSON { return JSON{kind: Bool, b: b} }

func StringValue(s string) JSON { return JSON{kind: String, str: s} }

func ArrayValue(items ...JSON) JSON { return JSON{kind: Array, arr: items} }

// NumberValue wraps a number literal such as "42" or "1.5e3"
func NumberValue(literal string) JSON {
	return JSON{kind: Number, num: literal}
}

// ObjectValue wraps a set of members
func ObjectValue(members map[string]JSON) JSON {
	if members == nil {
		members = map[string]JSON{}
	}
	return JSON{kind: Object, obj: members}
}

// Parse decodes a single JSON document
func Parse(data []byte) (JSON, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return JSON{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return JSON{}, fmt.Errorf("failed to parse JSON: trailing data after value")
	}
	return FromAny(v)
}

// FromAny converts values produced by encoding/json, or plain Go scalars,
// into a JSON value
func FromAny(v any) (JSON, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case JSON:
		return x, nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		return NumberValue(x.String()), nil
	case string:
		return StringValue(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return JSON{}, fmt.Errorf("non-finite number %v has no JSON form", x)
		}
		return NumberValue(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return JSON{}, fmt.Errorf("non-finite number %v has no JSON form", x)
		}
		return NumberValue(strconv.FormatFloat(float64(x), 'f', -1, 32)), nil
	case int:
		return NumberValue(strconv.Itoa(x)), nil
	case int64:
		return NumberValue(strconv.FormatInt(x, 10)), nil
	case int32:
		return NumberValue(strconv.FormatInt(int64(x), 10)), nil
	case uint64:
		return NumberValue(strconv.FormatUint(x, 10)), nil
	case []any:
		items := make([]JSON, len(x))
		for i, item := range x {
			j, err := FromAny(item)
			if err != nil {
				return JSON{}, err
			}
			items[i] = j
		}
		return ArrayValue(items...), nil
	case map[string]any:
		members := make(map[string]JSON, len(x))
		for k, item := range x {
			j, err := FromAny(item)
			if err != nil {
				return JSON{}, err
			}
			members[k] = j
		}
		return ObjectValue(members), nil
	default:
		return JSON{}, fmt.Errorf("unsupported JSON input type %T", v)
	}
}

// Kind returns the value's shape
func (j JSON) Kind() Kind {
	return j.kind
}

// Get returns an object member
func (j JSON) Get(key string) (JSON, bool) {
	if j.kind != Object {
		return JSON{}, false
	}
	v, ok := j.obj[key]
	return v, ok
}

// Keys returns the object's member names in sorted order
func (j JSON) Keys() []string {
	keys := make([]string, 0, len(j.obj))
	for k := range j.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON writes the value back out, keeping number literals
func (j JSON) MarshalJSON() ([]byte, error) {
	switch j.kind {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(j.b)
	case Number:
		return []byte(j.num), nil
	case String:
		return json.Marshal(j.str)
	case Array:
		if j.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(j.arr)
	default:
		return json.Marshal(j.obj)
	}
}

// literal is the serialized form used for size checks of scalars
func (j JSON) literal() string {
	switch j.kind {
	case Bool:
		return strconv.FormatBool(j.b)
	case Number:
		return j.num
	case String:
		return j.str
	default:
		return ""
	}
}
