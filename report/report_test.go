package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movietally/movietally/scan"
)

func TestRender(t *testing.T) {
	totals := []scan.YearTotal{
		{Year: 1894, Total: 1, Pages: 1},
		{Year: 1905, Total: 16, Pages: 2},
		{Year: 1800, Total: 0, Pages: 0},
	}

	var buf bytes.Buffer
	Render(&buf, totals)

	assert.Equal(t, "Year 1894: 1 movie\nYear 1905: 16 movies\nYear 1800: 0 movies\n", buf.String())
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{name: "empty matches all", expression: ""},
		{name: "whitespace only", expression: "   "},
		{name: "valid", expression: "total > 10 && year >= 1900"},
		{name: "pages variable", expression: "pages == 2"},
		{name: "not boolean", expression: "total + 1", wantErr: true},
		{name: "syntax error", expression: "total >", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expression)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	totals := []scan.YearTotal{
		{Year: 1894, Total: 1, Pages: 1},
		{Year: 1905, Total: 16, Pages: 2},
		{Year: 2020, Total: 14808, Pages: 1},
	}

	t.Run("empty filter keeps everything", func(t *testing.T) {
		f, err := Compile("")
		require.NoError(t, err)

		selected, err := Apply(totals, f)
		require.NoError(t, err)
		assert.Equal(t, totals, selected)
	})

	t.Run("filter preserves order", func(t *testing.T) {
		f, err := Compile("total > 10")
		require.NoError(t, err)

		selected, err := Apply(totals, f)
		require.NoError(t, err)
		require.Len(t, selected, 2)
		assert.Equal(t, 1905, selected[0].Year)
		assert.Equal(t, 2020, selected[1].Year)
	})

	t.Run("nothing matches", func(t *testing.T) {
		f, err := Compile("total > 1000000")
		require.NoError(t, err)

		selected, err := Apply(totals, f)
		require.NoError(t, err)
		assert.Empty(t, selected)
	})
}
