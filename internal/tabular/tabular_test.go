package tabular

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paintstock/paintstock/internal/shared"
)

func TestValueLenientNumbers(t *testing.T) {
	cases := []struct {
		in    Value
		asInt int
		asF   float64
	}{
		{TextValue("12"), 12, 12},
		{TextValue(" 3.7 "), 3, 3.7},
		{TextValue("-3.7"), -3, -3.7},
		{TextValue("12 units"), 12, 12},
		{TextValue(".5"), 0, 0.5},
		{TextValue("abc"), 0, 0},
		{TextValue(""), 0, 0},
		{NumberValue(4.9), 4, 4.9},
		{Value{}, 0, 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.asInt, tc.in.Int(), tc.in.String())
		require.InDelta(t, tc.asF, tc.in.Float(), 1e-9, tc.in.String())
	}
}

func TestValueIntOutOfRange(t *testing.T) {
	for _, f := range []float64{1e20, -1e20, math.Inf(1), math.Inf(-1), math.NaN()} {
		require.Zero(t, NumberValue(f).Int(), NumberValue(f).String())
	}
	require.Zero(t, TextValue("99999999999999999999").Int())
	require.Equal(t, 1<<40, NumberValue(1<<40).Int())
}

func TestValuePresent(t *testing.T) {
	require.False(t, Value{}.Present())
	require.False(t, TextValue("").Present())
	require.False(t, NumberValue(0).Present())
	require.True(t, TextValue("0").Present())
	require.True(t, NumberValue(2).Present())
}

func TestReadCSV(t *testing.T) {
	doc := "\ufeffCode, Product Name ,Quantity (Units)\n" +
		"P1, Primer ,5\n" +
		"\n" +
		"\"P,2\",\"Say \"\"hi\"\"\",3\n"

	rows, err := ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "P1", rows[0].Get("Code").String())
	require.Equal(t, "Primer", rows[0].Get("Product Name").String())
	require.Equal(t, 5, rows[0].Get("Quantity (Units)").Int())
	require.Equal(t, "P,2", rows[1].Get("Code").String())
	require.Equal(t, `Say "hi"`, rows[1].Get("Product Name").String())
	require.Equal(t, Missing, rows[1].Get("Price").Kind())
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestReadCSVRejectsMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Code,Name\nP1,Primer,extra\n"))
	require.ErrorIs(t, err, ErrMalformed)
	require.ErrorIs(t, err, shared.ErrValidation)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 2, perr.Line)

	_, err = ReadCSV(strings.NewReader("Code,Name\n\"P1,Primer\n"))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestRowFromMap(t *testing.T) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"code":"P1","quantityUnits":4,"price":null,"quantityLiters":"1.5"}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	row, err := RowFromMap(raw)
	require.NoError(t, err)
	require.Equal(t, Number, row.Get("quantityUnits").Kind())
	require.Equal(t, 4, row.Get("quantityUnits").Int())
	require.Equal(t, Missing, row.Get("price").Kind())
	require.InDelta(t, 1.5, row.Get("quantityLiters").Float(), 1e-9)

	_, err = RowFromMap(map[string]any{"bad": []any{1}})
	require.Error(t, err)
}

func TestWriterQuotes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write([]string{"Product Name", "Code"}))
	require.NoError(t, w.Write([]string{`Say "hi"`, "a,b"}))
	require.NoError(t, w.Flush())
	require.Equal(t, "Product Name,Code\n\"Say \"\"hi\"\"\",\"a,b\"\n", buf.String())
	require.Equal(t, "2.5", FormatFloat(2.5))
	require.Equal(t, "3", FormatFloat(3))
}
