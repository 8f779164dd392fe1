package explore

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func idRange(n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestNormalizeRequest_Defaults(t *testing.T) {
	spec, err := NormalizeRequest(Params{}, FormatJSON)
	require.NoError(t, err)

	require.Equal(t, "day", spec.TimeGrain.Key)
	require.Equal(t, []string{"revenue"}, spec.Aliases())
	require.Nil(t, spec.Dimension)
	require.Nil(t, spec.Start)
	require.Nil(t, spec.End)
	require.Zero(t, spec.Top)
	require.Equal(t, 1, spec.Page)
	require.Equal(t, 50, spec.PageSize)
	require.Equal(t, int64(0), spec.Offset())
}

func TestNormalizeRequest_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		format  Format
		wantErr string
	}{
		{name: "unknown time grain", params: Params{"time_grain": "year"}, wantErr: "invalid time_grain"},
		{name: "empty time grain", params: Params{"time_grain": ""}, wantErr: "invalid time_grain"},
		{name: "non-string time grain", params: Params{"time_grain": float64(1)}, wantErr: "invalid time_grain"},
		{name: "unknown dimension", params: Params{"dimension": "region"}, wantErr: "invalid dimension"},
		{
			name: "seven measures with a duplicate",
			params: Params{"measures": []interface{}{
				"revenue", "orders", "avg_ticket", "cancels", "avg_delivery_minutes", "net_revenue", "revenue",
			}},
			wantErr: "too many measures",
		},
		{name: "unknown measure", params: Params{"measures": []interface{}{"revenue", "profit"}}, wantErr: "invalid measure: profit"},
		{name: "unknown single measure", params: Params{"measures": "margin"}, wantErr: "invalid measure: margin"},
		{name: "bad start date", params: Params{"startDate": "not-a-date"}, wantErr: "invalid startDate"},
		{name: "bad end date", params: Params{"endDate": "2024-13-45"}, wantErr: "invalid endDate"},
		{name: "too many store ids", params: Params{"storeIds": idRange(101)}, wantErr: "too many ids for storeIds"},
		{name: "too many channel ids", params: Params{"channelIds": idRange(150)}, wantErr: "too many ids for channelIds"},
		{name: "top zero", params: Params{"dimension": "channel", "top": float64(0)}, wantErr: "invalid top"},
		{name: "top negative", params: Params{"dimension": "channel", "top": "-3"}, wantErr: "invalid top"},
		{name: "top fraction", params: Params{"dimension": "channel", "top": 2.5}, wantErr: "invalid top"},
		{name: "top not numeric", params: Params{"dimension": "channel", "top": "ten"}, wantErr: "invalid top"},
		{name: "top over max", params: Params{"dimension": "channel", "top": float64(101)}, wantErr: "top exceeds max"},
		{name: "top huge", params: Params{"dimension": "channel", "top": "1e30"}, wantErr: "top exceeds max"},
		{name: "page zero", params: Params{"page": float64(0)}, wantErr: "invalid page"},
		{name: "page text", params: Params{"page": "first"}, wantErr: "invalid page"},
		{name: "page beyond range", params: Params{"page": "1e12"}, wantErr: "invalid page"},
		{name: "page size over max", params: Params{"pageSize": float64(500)}, wantErr: "invalid pageSize"},
		{name: "page size zero", params: Params{"pageSize": "0"}, wantErr: "invalid pageSize"},
		{name: "null time grain", params: Params{"time_grain": nil}, wantErr: "invalid time_grain"},
		{name: "null measures", params: Params{"measures": nil}, wantErr: "invalid measure: null"},
		{name: "null top", params: Params{"dimension": "channel", "top": nil}, wantErr: "invalid top"},
		{name: "null page", params: Params{"page": nil}, wantErr: "invalid page"},
		{name: "null page size", params: Params{"pageSize": nil}, wantErr: "invalid pageSize"},
		{
			name:    "first failing rule wins",
			params:  Params{"time_grain": "year", "dimension": "region", "page": float64(0)},
			wantErr: "invalid time_grain",
		},
		{
			name:    "ids checked before top",
			params:  Params{"dimension": "store", "top": float64(0), "categoryIds": idRange(101)},
			wantErr: "too many ids for categoryIds",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeRequest(tc.params, tc.format)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidQuery))
			require.Equal(t, tc.wantErr, err.Error())

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.wantErr, verr.Message)
		})
	}
}

func TestNormalizeRequest_Measures(t *testing.T) {
	tests := []struct {
		name   string
		raw    interface{}
		expect []string
	}{
		{name: "single string", raw: "orders", expect: []string{"orders"}},
		{name: "list", raw: []interface{}{"orders", "revenue"}, expect: []string{"orders", "revenue"}},
		{name: "duplicates collapse in order", raw: []interface{}{"orders", "revenue", "orders"}, expect: []string{"orders", "revenue"}},
		{name: "empty list falls back", raw: []interface{}{}, expect: []string{"revenue"}},
		{
			name:   "all six",
			raw:    []interface{}{"revenue", "orders", "avg_ticket", "cancels", "avg_delivery_minutes", "net_revenue"},
			expect: []string{"revenue", "orders", "avg_ticket", "cancels", "avg_delivery_minutes", "net_revenue"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := NormalizeRequest(Params{"measures": tc.raw}, FormatJSON)
			require.NoError(t, err)
			require.Equal(t, tc.expect, spec.Aliases())
		})
	}
}

func TestNormalizeRequest_IDFilters(t *testing.T) {
	tests := []struct {
		name   string
		raw    interface{}
		expect []int64
	}{
		{name: "comma separated", raw: "3,1,2", expect: []int64{3, 1, 2}},
		{name: "native list", raw: []interface{}{float64(7), float64(8)}, expect: []int64{7, 8}},
		{name: "json numbers", raw: []interface{}{json.Number("9")}, expect: []int64{9}},
		{name: "non numeric tokens dropped", raw: "1,abc,,2", expect: []int64{1, 2}},
		{name: "negatives and fractions dropped", raw: []interface{}{float64(-1), 1.5, float64(4)}, expect: []int64{4}},
		{name: "duplicates collapse", raw: "5,5,6", expect: []int64{5, 6}},
		{name: "nothing usable means no filter", raw: "x,y", expect: nil},
		{name: "empty string means no filter", raw: "", expect: nil},
		{name: "repeated query keys", raw: []string{"1,2", "3"}, expect: []int64{1, 2, 3}},
		{name: "exactly one hundred", raw: idRange(100), expect: func() []int64 {
			out := make([]int64, 100)
			for i := range out {
				out[i] = int64(i + 1)
			}
			return out
		}()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := NormalizeRequest(Params{"storeIds": tc.raw}, FormatJSON)
			require.NoError(t, err)
			require.Equal(t, tc.expect, spec.StoreIDs)
		})
	}
}

func TestNormalizeRequest_DuplicateIDsCountOnce(t *testing.T) {
	ids := make([]interface{}, 0, 150)
	for i := 0; i < 150; i++ {
		ids = append(ids, strconv.Itoa(i%10+1))
	}

	spec, err := NormalizeRequest(Params{"channelIds": ids}, FormatJSON)
	require.NoError(t, err)
	require.Len(t, spec.ChannelIDs, 10)
}

func TestNormalizeRequest_Dates(t *testing.T) {
	spec, err := NormalizeRequest(Params{
		"startDate": "2024-01-01",
		"endDate":   "2024-01-31T18:30:00Z",
	}, FormatJSON)
	require.NoError(t, err)

	require.True(t, spec.Start.DateOnly)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), spec.Start.Time)
	require.False(t, spec.End.DateOnly)
	require.Equal(t, time.Date(2024, 1, 31, 18, 30, 0, 0, time.UTC), spec.End.Time)

	spec, err = NormalizeRequest(Params{"startDate": "", "endDate": nil}, FormatJSON)
	require.NoError(t, err)
	require.Nil(t, spec.Start)
	require.Nil(t, spec.End)

	spec, err = NormalizeRequest(Params{"startDate": "2024-02-01T10:00:00-03:00"}, FormatJSON)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 1, 13, 0, 0, 0, time.UTC), spec.Start.Time)
}

func TestNormalizeRequest_TopRequiresDimension(t *testing.T) {
	spec, err := NormalizeRequest(Params{"top": float64(0)}, FormatJSON)
	require.NoError(t, err)
	require.Zero(t, spec.Top)

	spec, err = NormalizeRequest(Params{"dimension": "channel", "top": "5"}, FormatJSON)
	require.NoError(t, err)
	require.Equal(t, 5, spec.Top)
	require.Equal(t, "channel", spec.Dimension.Key)
}

func TestNormalizeRequest_NullFiltersAreAbsent(t *testing.T) {
	spec, err := NormalizeRequest(Params{
		"dimension":   nil,
		"startDate":   nil,
		"storeIds":    nil,
		"categoryIds": nil,
		"top":         nil,
	}, FormatJSON)
	require.NoError(t, err)
	require.False(t, spec.HasDimension())
	require.Nil(t, spec.Start)
	require.Nil(t, spec.StoreIDs)
	require.Zero(t, spec.Top)
}

func TestNormalizeRequest_CSVIgnoresPaging(t *testing.T) {
	spec, err := NormalizeRequest(Params{"page": float64(0), "pageSize": float64(500)}, FormatCSV)
	require.NoError(t, err)
	require.Equal(t, FormatCSV, spec.Format)
}

func TestNormalizeRequest_QueryStringPaging(t *testing.T) {
	spec, err := NormalizeRequest(Params{"page": "3", "pageSize": "200"}, FormatJSON)
	require.NoError(t, err)
	require.Equal(t, 3, spec.Page)
	require.Equal(t, 200, spec.PageSize)
	require.Equal(t, int64(400), spec.Offset())
}

func TestParseFormat(t *testing.T) {
	require.Equal(t, FormatCSV, ParseFormat("csv"))
	require.Equal(t, FormatCSV, ParseFormat("CSV"))
	require.Equal(t, FormatJSON, ParseFormat(""))
	require.Equal(t, FormatJSON, ParseFormat("xlsx"))
}
