package tabular

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_InfersColumnTypes(t *testing.T) {
	input := "position,cell_value,face1,label\nA1,10,0.1,x\nB2,20,0.3,y"

	df, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"position", "cell_value", "face1", "label"}, df.Names())
	assert.Equal(t, 2, df.NRows())

	assert.Equal(t, "A1", df.Series[0].Value(0))
	assert.Equal(t, int64(20), df.Series[1].Value(1))
	assert.Equal(t, 0.3, df.Series[2].Value(1))
	assert.Equal(t, "y", df.Series[3].Value(1))
}

func TestParse_IntAndFloatMixIsFloat(t *testing.T) {
	df, err := Parse(strings.NewReader("v\n1\n2.5\n"))
	require.NoError(t, err)

	assert.Equal(t, 1.0, df.Series[0].Value(0))
	assert.Equal(t, 2.5, df.Series[0].Value(1))
}

func TestParse_NullCells(t *testing.T) {
	df, err := Parse(strings.NewReader("a,b,c\n1,,x\nNA,2,\n"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), df.Series[0].Value(0))
	assert.Nil(t, df.Series[0].Value(1))
	assert.Nil(t, df.Series[1].Value(0))
	assert.Equal(t, int64(2), df.Series[1].Value(1))
	assert.Equal(t, "x", df.Series[2].Value(0))
	assert.Nil(t, df.Series[2].Value(1))
}

func TestParse_AllNullColumnIsFloat(t *testing.T) {
	df, err := Parse(strings.NewReader("a,b\n1,\n2,\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, df.NRows())
	assert.Nil(t, df.Series[1].Value(0))
	assert.Nil(t, df.Series[1].Value(1))
}

func TestParse_HeaderOnly(t *testing.T) {
	df, err := Parse(strings.NewReader("pos,val\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"pos", "val"}, df.Names())
	assert.Equal(t, 0, df.NRows())
}

func TestParse_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"zero bytes", ""},
		{"blank lines", "\n\n\n"},
		{"bom only", "\xef\xbb\xbf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, ErrEmptyData), "got %v", err)
		})
	}
}

func TestParse_StripsBOM(t *testing.T) {
	df, err := Parse(strings.NewReader("\xef\xbb\xbfpos,val\nP1,5\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"pos", "val"}, df.Names())
}

func TestParse_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"latin-1 value", "position,label\nA1,caf\xe9\n", "line 2, column 4"},
		{"stray byte", "a,b\nbad\xff,1\n", "line 2, column 1"},
		{"header", "pos,v\xe9l\nP1,5\n", "line 1, column 5"},
		{"after BOM", "\xef\xbb\xbfa,b\n1,\xc3\n", "line 2, column 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, df)
			assert.True(t, errors.Is(err, ErrInvalidUTF8), "got %v", err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestParse_KeepsValidMultibyteText(t *testing.T) {
	df, err := Parse(strings.NewReader("position,label\nA1,caf\u00e9\nA2,\ufffd\n"))
	require.NoError(t, err)

	assert.Equal(t, "caf\u00e9", df.Series[1].Value(0))
	assert.Equal(t, "\ufffd", df.Series[1].Value(1))
}

func TestParse_HexLiteralsStayStrings(t *testing.T) {
	df, err := Parse(strings.NewReader("a,b,c\n0x1p4,0X10,-0x2\n"))
	require.NoError(t, err)

	assert.Equal(t, "0x1p4", df.Series[0].Value(0))
	assert.Equal(t, "0X10", df.Series[1].Value(0))
	assert.Equal(t, "-0x2", df.Series[2].Value(0))

	var buf strings.Builder
	require.NoError(t, Write(&buf, df))
	assert.Equal(t, "a,b,c\n0x1p4,0X10,-0x2\n", buf.String())
}

func TestParse_SkipsBlankLines(t *testing.T) {
	df, err := Parse(strings.NewReader("pos,val\n\nP1,5\n\nP2,6\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, df.NRows())
}

func TestParse_ShortRowsArePadded(t *testing.T) {
	df, err := Parse(strings.NewReader("a,b,c\n1,2\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, df.NRows())
	assert.Nil(t, df.Series[2].Value(0))
}

func TestParse_LongRowIsError(t *testing.T) {
	_, err := Parse(strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyData))
	assert.Contains(t, err.Error(), "expected 2 fields, saw 3")
}

func TestParse_MalformedQuotes(t *testing.T) {
	_, err := Parse(strings.NewReader("a,b\n\"unterminated,2\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyData))
}

func TestParse_DuplicateAndBlankHeaders(t *testing.T) {
	df, err := Parse(strings.NewReader("a,a,,a\n1,2,3,4\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, df.Names())
}

func TestIsNA(t *testing.T) {
	for _, s := range []string{"", "NA", "NaN", "null", "None"} {
		assert.True(t, IsNA(s), s)
	}
	for _, s := range []string{"0", "na", "x", " "} {
		assert.False(t, IsNA(s), s)
	}
}
