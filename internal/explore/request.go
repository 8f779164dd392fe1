package explore

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	MaxTop          = 100
	MaxIDList       = 100
	MaxMeasures     = 6
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200

	defaultTimeGrain = "day"
	defaultMeasure   = "revenue"

	// Keeps (page-1)*pageSize well inside int64 for the OFFSET argument.
	maxPage = math.MaxInt32
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid explore query")

// ValidationError carries the single client-facing message for a rejected request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidQuery }

func invalidQueryf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Format selects the response rendering.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
)

// ParseFormat reads the format query flag. Anything other than csv is JSON.
func ParseFormat(raw string) Format {
	if strings.EqualFold(strings.TrimSpace(raw), "csv") {
		return FormatCSV
	}
	return FormatJSON
}

// Params holds untyped request fields, from the query string (GET) or a JSON body (POST).
type Params map[string]interface{}

// Bound is one side of the date range.
type Bound struct {
	Time time.Time
	// DateOnly is set when the input carried no time of day.
	DateOnly bool
}

// QuerySpec is a validated, bounded explore request.
type QuerySpec struct {
	Measures    []Measure
	TimeGrain   TimeGrain
	Dimension   *Dimension
	Start       *Bound
	End         *Bound
	StoreIDs    []int64
	ChannelIDs  []int64
	CategoryIDs []int64
	// Top is zero when no top-N cap applies.
	Top      int
	Page     int
	PageSize int
	Format   Format
}

// Aliases returns the measure column aliases in request order.
func (q QuerySpec) Aliases() []string {
	out := make([]string, len(q.Measures))
	for i, m := range q.Measures {
		out[i] = m.Key
	}
	return out
}

// HasDimension reports whether a categorical dimension was requested.
func (q QuerySpec) HasDimension() bool { return q.Dimension != nil }

// Offset is the row offset of the requested page.
func (q QuerySpec) Offset() int64 {
	return int64(q.Page-1) * int64(q.PageSize)
}

// NormalizeRequest validates raw params into a QuerySpec. The first violated rule wins.
func NormalizeRequest(p Params, format Format) (QuerySpec, error) {
	spec := QuerySpec{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Format:   format,
	}

	grainKey := defaultTimeGrain
	if raw, ok := p.present("time_grain"); ok {
		s, isStr := raw.(string)
		if !isStr {
			return QuerySpec{}, invalidQueryf("invalid time_grain")
		}
		grainKey = s
	}
	grain, ok := LookupTimeGrain(grainKey)
	if !ok {
		return QuerySpec{}, invalidQueryf("invalid time_grain")
	}
	spec.TimeGrain = grain

	if raw, ok := p.get("dimension"); ok {
		s, isStr := raw.(string)
		if !isStr {
			return QuerySpec{}, invalidQueryf("invalid dimension")
		}
		if s != "" {
			dim, found := LookupDimension(s)
			if !found {
				return QuerySpec{}, invalidQueryf("invalid dimension")
			}
			spec.Dimension = &dim
		}
	}

	measures, err := normalizeMeasures(p)
	if err != nil {
		return QuerySpec{}, err
	}
	spec.Measures = measures

	if spec.Start, err = parseBound(p, "startDate"); err != nil {
		return QuerySpec{}, err
	}
	if spec.End, err = parseBound(p, "endDate"); err != nil {
		return QuerySpec{}, err
	}

	if spec.StoreIDs, err = parseIDList(p, "storeIds"); err != nil {
		return QuerySpec{}, err
	}
	if spec.ChannelIDs, err = parseIDList(p, "channelIds"); err != nil {
		return QuerySpec{}, err
	}
	if spec.CategoryIDs, err = parseIDList(p, "categoryIds"); err != nil {
		return QuerySpec{}, err
	}

	if raw, ok := p.present("top"); ok && spec.HasDimension() {
		n, ok := positiveWhole(raw)
		if !ok {
			return QuerySpec{}, invalidQueryf("invalid top")
		}
		if n > MaxTop {
			return QuerySpec{}, invalidQueryf("top exceeds max")
		}
		spec.Top = int(n)
	}

	if format == FormatCSV {
		return spec, nil
	}

	if raw, ok := p.present("page"); ok {
		n, ok := positiveWhole(raw)
		if !ok || n > maxPage {
			return QuerySpec{}, invalidQueryf("invalid page")
		}
		spec.Page = int(n)
	}
	if raw, ok := p.present("pageSize"); ok {
		n, ok := positiveWhole(raw)
		if !ok || n > MaxPageSize {
			return QuerySpec{}, invalidQueryf("invalid pageSize")
		}
		spec.PageSize = int(n)
	}

	return spec, nil
}

// present reports whether key was sent at all. An explicit null counts as
// sent and fails the field's own validation.
func (p Params) present(key string) (interface{}, bool) {
	v, ok := p[key]
	return v, ok
}

// get treats a missing key and an explicit null the same way. Used by the
// optional filters, where null means no filter.
func (p Params) get(key string) (interface{}, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func normalizeMeasures(p Params) ([]Measure, error) {
	raw, ok := p.present("measures")
	if !ok {
		m, _ := LookupMeasure(defaultMeasure)
		return []Measure{m}, nil
	}

	var names []string
	switch v := raw.(type) {
	case []interface{}:
		names = make([]string, len(v))
		for i, item := range v {
			names[i] = stringify(item)
		}
	case []string:
		names = v
	default:
		names = []string{stringify(v)}
	}

	if len(names) > MaxMeasures {
		return nil, invalidQueryf("too many measures")
	}
	if len(names) == 0 {
		m, _ := LookupMeasure(defaultMeasure)
		return []Measure{m}, nil
	}

	seen := make(map[string]bool, len(names))
	out := make([]Measure, 0, len(names))
	for _, name := range names {
		m, found := LookupMeasure(name)
		if !found {
			return nil, invalidQueryf("invalid measure: %s", name)
		}
		if seen[m.Key] {
			continue
		}
		seen[m.Key] = true
		out = append(out, m)
	}
	return out, nil
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

func parseBound(p Params, field string) (*Bound, error) {
	raw, ok := p.get(field)
	if !ok {
		return nil, nil
	}
	s, isStr := raw.(string)
	if !isStr {
		return nil, invalidQueryf("invalid %s", field)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &Bound{Time: t, DateOnly: true}, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &Bound{Time: t.UTC()}, nil
		}
	}
	return nil, invalidQueryf("invalid %s", field)
}

// parseIDList accepts a list or a comma-separated string. Tokens that are not
// positive integers are dropped, duplicates collapse, and an empty result means no filter.
func parseIDList(p Params, field string) ([]int64, error) {
	raw, ok := p.get(field)
	if !ok {
		return nil, nil
	}

	var tokens []interface{}
	switch v := raw.(type) {
	case []interface{}:
		tokens = v
	case []string:
		for _, s := range v {
			for _, part := range strings.Split(s, ",") {
				tokens = append(tokens, part)
			}
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			tokens = append(tokens, part)
		}
	default:
		tokens = []interface{}{v}
	}

	seen := make(map[int64]bool, len(tokens))
	ids := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := positiveInteger(tok)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) > MaxIDList {
		return nil, invalidQueryf("too many ids for %s", field)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// maxExactInteger is the largest id that survives a float64 round trip.
const maxExactInteger = 1<<53 - 1

func positiveInteger(raw interface{}) (int64, bool) {
	f, ok := positiveWhole(raw)
	if !ok || f > maxExactInteger {
		return 0, false
	}
	return int64(f), true
}

// positiveWhole coerces JSON numbers, numeric strings and Go integers to a
// positive whole number. Fractions and non-finite values are rejected; the
// caller applies its own upper bound.
func positiveWhole(raw interface{}) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 {
		return 0, false
	}
	return f, true
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
