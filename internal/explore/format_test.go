package explore

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// unescapeCSVCell reverses EscapeCSVCell for values without a formula marker.
func unescapeCSVCell(cell string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(cell, `"`), `"`)
	return strings.ReplaceAll(inner, `""`, `"`)
}

func TestEscapeCSVCell(t *testing.T) {
	tests := []struct {
		raw    string
		expect string
	}{
		{raw: "", expect: `""`},
		{raw: "iFood", expect: `"iFood"`},
		{raw: `say "hi"`, expect: `"say ""hi"""`},
		{raw: "a,b\nc", expect: "\"a,b\nc\""},
		{raw: "=SUM(A1:A9)", expect: `"'=SUM(A1:A9)"`},
		{raw: "+1", expect: `"'+1"`},
		{raw: "-5.5", expect: `"'-5.5"`},
		{raw: `@cmd "x"`, expect: `"'@cmd ""x"""`},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.expect, EscapeCSVCell(tc.raw))
		})
	}
}

func TestEscapeCSVCell_RoundTrip(t *testing.T) {
	for _, raw := range []string{"", "plain", `"quoted"`, `""`, "comma,separated", "line\nbreak", "trailing \"", "1.5"} {
		require.Equal(t, raw, unescapeCSVCell(EscapeCSVCell(raw)))
	}
}

func TestEscapeCSVCell_FormulaPrefixIsNeutralised(t *testing.T) {
	for _, lead := range []string{"=", "+", "-", "@"} {
		cell := EscapeCSVCell(lead + "1+1")
		require.True(t, strings.HasPrefix(cell, `"'`), cell)
		require.Equal(t, "'"+lead+"1+1", unescapeCSVCell(cell))
	}
}

func TestEscapeCSVCell_NotIdempotent(t *testing.T) {
	once := EscapeCSVCell(`a"b`)
	require.NotEqual(t, once, EscapeCSVCell(once))
}

func TestWriteCSV(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	spec := mustSpec(t, Params{
		"dimension": "channel",
		"measures":  []interface{}{"revenue", "orders"},
	}, FormatCSV)

	res := &Result{
		Spec: spec,
		Rows: []map[string]interface{}{
			{"ts": ts, "dim": "iFood", "revenue": 100.5, "orders": int64(3)},
			{"ts": ts, "dim": nil, "revenue": nil, "orders": int64(0)},
			{"ts": ts, "dim": `=cmd|"x"`, "revenue": "9007199254740993", "orders": int64(1)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))

	want := strings.Join([]string{
		"ts,dim,revenue,orders",
		`"2024-01-02T00:00:00.000Z","iFood","100.5","3"`,
		`"2024-01-02T00:00:00.000Z","","0","0"`,
		`"2024-01-02T00:00:00.000Z","'=cmd|""x""","9007199254740993","1"`,
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestWriteCSV_NoDimension(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	res := &Result{
		Spec: mustSpec(t, Params{"measures": "avg_ticket"}, FormatCSV),
		Rows: []map[string]interface{}{{"ts": ts, "avg_ticket": 42.0}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	require.Equal(t, "ts,avg_ticket\n\"2024-03-01T18:00:00.000Z\",\"42\"", buf.String())
}

func TestCSVFilename(t *testing.T) {
	require.Equal(t, "explore-1704067200000.csv", CSVFilename(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int64
	}{
		{name: "empty result still has one page", total: 0, pageSize: 50, wantPages: 1},
		{name: "exact fit", total: 100, pageSize: 50, wantPages: 2},
		{name: "partial last page", total: 101, pageSize: 50, wantPages: 3},
		{name: "large total", total: 9007199254740992, pageSize: 200, wantPages: 45035996273705},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := mustSpec(t, Params{"pageSize": float64(tc.pageSize)}, FormatJSON)
			page := NewPage(&Result{Spec: spec, Total: tc.total, Rows: []map[string]interface{}{}})

			require.Equal(t, tc.wantPages, page.TotalPages)
			require.Equal(t, tc.total, page.Total)
			require.Equal(t, 1, page.Page)
			require.Equal(t, tc.pageSize, page.PageSize)
		})
	}
}
