package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// AttrKind discriminates the JSON representation of an attribute value.
type AttrKind string

// Attribute value kinds.
const (
	AttrString   AttrKind = "string"
	AttrInt      AttrKind = "int"
	AttrFloat    AttrKind = "float"
	AttrBool     AttrKind = "bool"
	AttrArray    AttrKind = "array"
	AttrElements AttrKind = "elements"
)

// AttrValue is a typed attribute value. Exactly one of the payload fields is
// meaningful, selected by Kind. Unknown kinds render through String() as-is,
// so decoding never fails on an unrecognized kind.
//
// Elements values model dense constant containers. Count is the logical
// element count and Rank the container's dimensionality; Repr holds the full
// textual form (e.g. "dense<[[1, 2], [3, 4]]>"). A splat container repeats a
// single element, so its Repr stays compact regardless of Count.
type AttrValue struct {
	Kind AttrKind `json:"kind"`

	Str   string      `json:"string,omitempty"`
	Int   int64       `json:"int,omitempty"`
	Float float64     `json:"float,omitempty"`
	Bool  bool        `json:"bool,omitempty"`
	Items []AttrValue `json:"items,omitempty"`

	// Elements payload.
	Type  string `json:"type,omitempty"`
	Rank  int    `json:"rank,omitempty"`
	Count int64  `json:"count,omitempty"`
	Splat bool   `json:"splat,omitempty"`
	Repr  string `json:"repr,omitempty"`
}

// StringValue returns a string attribute value.
func StringValue(s string) AttrValue { return AttrValue{Kind: AttrString, Str: s} }

// IntValue returns an integer attribute value.
func IntValue(i int64) AttrValue { return AttrValue{Kind: AttrInt, Int: i} }

// FloatValue returns a float attribute value.
func FloatValue(f float64) AttrValue { return AttrValue{Kind: AttrFloat, Float: f} }

// BoolValue returns a boolean attribute value.
func BoolValue(b bool) AttrValue { return AttrValue{Kind: AttrBool, Bool: b} }

// ArrayValue returns an array attribute value.
func ArrayValue(items ...AttrValue) AttrValue { return AttrValue{Kind: AttrArray, Items: items} }

// ElementsValue returns a dense container attribute value.
func ElementsValue(typ string, rank int, count int64, splat bool, repr string) AttrValue {
	return AttrValue{Kind: AttrElements, Type: typ, Rank: rank, Count: count, Splat: splat, Repr: repr}
}

// String returns the normal textual form of the value. This is the full,
// unbounded rendering; size-based elision is the label formatter's job.
func (v AttrValue) String() string {
	switch v.Kind {
	case AttrString:
		return strconv.Quote(v.Str)
	case AttrInt:
		return strconv.FormatInt(v.Int, 10)
	case AttrFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case AttrBool:
		return strconv.FormatBool(v.Bool)
	case AttrArray:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case AttrElements:
		if v.Type != "" {
			return v.Repr + " : " + v.Type
		}
		return v.Repr
	default:
		// Unrecognized kind: best-effort default rendering.
		return fmt.Sprintf("%v", v.Repr)
	}
}
