package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

// Value is a scalar cell. Numbers keep their source text for display and a
// float64 for ordering.
type Value struct {
	kind Kind
	num  float64
	text string
}

var Null = Value{}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// ValueOf converts a decoded JSON value. Booleans and nested values become
// strings; json.Number keeps its exact text.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Value{kind: KindNumber, num: f, text: t.String()}
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case string:
		return String(t)
	case bool:
		return String(strconv.FormatBool(t))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return String(fmt.Sprint(t))
		}
		return String(string(b))
	}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) Float() float64 { return v.num }

// String returns the display text. Null displays as "".
func (v Value) String() string { return v.text }

// Any returns the value as json would decode it: nil, json.Number or string.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return json.Number(v.text)
	case KindString:
		return v.text
	default:
		return nil
	}
}
