package normalizer

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVCases(t *testing.T) {
	f, err := os.Open("testdata/url_test_cases.csv")
	if errors.Is(err, os.ErrNotExist) {
		t.Skip("testdata/url_test_cases.csv not found")
	}
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	require.NoError(t, err)
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	n := New(DefaultConfig())
	cases := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		source, expected := field(rec, "source_url"), field(rec, "expected_url")
		if source == "" || expected == "" {
			continue
		}
		desc := field(rec, "description")
		if desc == "" {
			desc = source + " -> " + expected
		}
		cases++
		t.Run(desc, func(t *testing.T) {
			got, ok := n.Normalize(source)
			require.True(t, ok)
			assert.Equal(t, expected, got)
		})
	}
	assert.NotZero(t, cases)
}
