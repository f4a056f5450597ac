// Package tabular turns delimited files into loosely typed rows and writes
// fixed-header exports.
package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the origin of a cell value.
type Kind uint8

const (
	Missing Kind = iota
	Text
	Number
)

// Value is a single cell: absent, a string, or a number.
type Value struct {
	kind Kind
	text string
	num  float64
}

// TextValue wraps a string cell.
func TextValue(s string) Value { return Value{kind: Text, text: s} }

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

func (v Value) Kind() Kind { return v.kind }

// Present reports whether the cell carries a usable value. Empty strings,
// zero and NaN count as absent so alias chains fall through to the next
// header.
func (v Value) Present() bool {
	switch v.kind {
	case Text:
		return v.text != ""
	case Number:
		return v.num != 0 && !math.IsNaN(v.num)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.text
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Int reads the leading integer of the cell. Anything unparsable is zero.
func (v Value) Int() int {
	switch v.kind {
	case Number:
		// out of range numbers read as zero like any other unusable cell
		if math.IsNaN(v.num) || v.num >= math.MaxInt64 || v.num < math.MinInt64 {
			return 0
		}
		return int(v.num)
	case Text:
		m := intPrefix.FindString(strings.TrimSpace(v.text))
		if m == "" {
			return 0
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float reads the leading decimal number of the cell. Anything unparsable is zero.
func (v Value) Float() float64 {
	switch v.kind {
	case Number:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0
		}
		return v.num
	case Text:
		m := floatPrefix.FindString(strings.TrimSpace(v.text))
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Row maps header names to cell values.
type Row map[string]Value

// Get returns the cell for header, Missing when the column is absent.
func (r Row) Get(header string) Value {
	return r[header]
}

// RowFromMap converts a decoded JSON or YAML object into a Row.
func RowFromMap(m map[string]any) (Row, error) {
	row := make(Row, len(m))
	for key, raw := range m {
		switch val := raw.(type) {
		case nil:
		case string:
			row[key] = TextValue(strings.TrimSpace(val))
		case json.Number:
			if f, err := val.Float64(); err == nil {
				row[key] = NumberValue(f)
			} else {
				row[key] = TextValue(val.String())
			}
		case float64:
			row[key] = NumberValue(val)
		case float32:
			row[key] = NumberValue(float64(val))
		case int:
			row[key] = NumberValue(float64(val))
		case int64:
			row[key] = NumberValue(float64(val))
		case uint64:
			row[key] = NumberValue(float64(val))
		case bool:
			row[key] = TextValue(strconv.FormatBool(val))
		default:
			return nil, fmt.Errorf("tabular: column %q has unsupported type %T", key, raw)
		}
	}
	return row, nil
}
