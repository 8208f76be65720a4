package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/format"
)

func sample() []entry.Entry {
	t1 := time.Date(2026, 10, 19, 9, 41, 7, 250_000_000, time.UTC)
	t2 := time.Date(2026, 10, 19, 9, 41, 8, 0, time.UTC)
	return []entry.Entry{
		{
			Timestamp: t1,
			Origin:    "2026-10-19 09:41:07.250 main.run() [line 3]:\n",
			Level:     entry.Info,
			Message:   "hello",
		},
		{
			Timestamp: t2,
			Origin:    "2026-10-19 09:41:08.000 server.(*Server).handle() [line 7]:\n",
			Level:     entry.Error,
			Message:   "world\nsecond line",
		},
	}
}

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWrite_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Plain, format.DefaultStyle()))
	golden(t).Assert(t, "plain", buf.Bytes())
}

func TestWrite_PlainWithMarks(t *testing.T) {
	style := format.DefaultStyle()
	style.MarkMode = true

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Plain, style))
	golden(t).Assert(t, "plain_marks", buf.Bytes())
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), JSON, format.DefaultStyle()))
	golden(t).Assert(t, "json", buf.Bytes())
}

func TestWrite_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, JSON, format.DefaultStyle()))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), YAML, format.DefaultStyle()))

	var got []record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, record{
		Time:    "2026-10-19 09:41:07.250",
		Level:   "info",
		Origin:  "2026-10-19 09:41:07.250 main.run() [line 3]:",
		Message: "hello",
	}, got[0])
	assert.Equal(t, "world\nsecond line", got[1].Message)
	assert.Equal(t, "error", got[1].Level)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Text, format.DefaultStyle()))
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "second line")
	assert.Contains(t, out, "main.run() [line 3]:")
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), Table, format.DefaultStyle()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "╭"), "table = %q", out)
	for _, want := range []string{"CALL SITE", "main.run() [line 3]", "server.(*Server).handle() [line 7]", "2026-10-19 09:41:08.000", "error", "TOTAL"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "[line 3]:")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sample(), Format("xml"), format.DefaultStyle())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(" " + strings.ToUpper(string(f)) + " ")
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
