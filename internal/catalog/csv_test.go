package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{
			name: "quoted field with embedded comma",
			in:   "a,\"b,c\",d\n",
			want: [][]string{{"a", "b,c", "d"}},
		},
		{
			name: "escaped double quote",
			in:   "x,\"y\"\"z\"\n",
			want: [][]string{{"x", `y"z`}},
		},
		{
			name: "all-empty row is dropped",
			in:   ",,\n",
			want: [][]string{},
		},
		{
			name: "empty input",
			in:   "",
			want: [][]string{},
		},
		{
			name: "last row without trailing newline",
			in:   "a,b\nc,d",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "carriage returns are discarded",
			in:   "a,b\r\nc,d\r\n",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "cells are trimmed",
			in:   " a , b \n",
			want: [][]string{{"a", "b"}},
		},
		{
			name: "newline inside quotes is literal",
			in:   "a,\"b\nc\",d\n",
			want: [][]string{{"a", "b\nc", "d"}},
		},
		{
			name: "unterminated quote accumulates to end of input",
			in:   "a,\"bc,d\ne",
			want: [][]string{{"a", "bc,d\ne"}},
		},
		{
			name: "blank lines between rows are dropped",
			in:   "a,b\n\nc,d\n",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "single stray empty cell row is dropped",
			in:   "a,b\n \nc,d\n",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "multibyte content",
			in:   "name,category\nCafe バンカム,喫茶店\n",
			want: [][]string{{"name", "category"}, {"Cafe バンカム", "喫茶店"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseCSV(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseCSVRoundTrip re-serializes parsed rows and parses again; for
// already-trimmed content without quoting the rows must be stable.
func TestParseCSVRoundTrip(t *testing.T) {
	t.Parallel()

	in := "name,category,smoking\nCafe A,喫茶店,分煙\nBar B,バー,全席喫煙可\n"
	first := ParseCSV(in)

	var b strings.Builder
	for _, row := range first {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	second := ParseCSV(b.String())

	assert.Equal(t, first, second)
}
