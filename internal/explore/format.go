package explore

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvTimeLayout matches an ISO-8601 instant with millisecond precision.
const csvTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Page is the JSON response envelope.
type Page struct {
	Rows       []map[string]interface{} `json:"rows"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"pageSize"`
	TotalPages int64                    `json:"totalPages"`
}

// NewPage wraps a result in the pagination envelope.
func NewPage(res *Result) Page {
	size := int64(res.Spec.PageSize)
	pages := (res.Total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return Page{
		Rows:       res.Rows,
		Total:      res.Total,
		Page:       res.Spec.Page,
		PageSize:   res.Spec.PageSize,
		TotalPages: pages,
	}
}

// CSVHeader returns ts, then dim when a dimension is set, then the measure aliases.
func CSVHeader(spec QuerySpec) []string {
	header := []string{"ts"}
	if spec.HasDimension() {
		header = append(header, "dim")
	}
	return append(header, spec.Aliases()...)
}

// CSVFilename names the attachment after the export time in epoch milliseconds.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("explore-%d.csv", now.UnixMilli())
}

// WriteCSV renders res as CSV. The header row is plain; every data cell goes through EscapeCSVCell.
func WriteCSV(w io.Writer, res *Result) error {
	if _, err := io.WriteString(w, strings.Join(CSVHeader(res.Spec), ",")); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	aliases := res.Spec.Aliases()
	cells := make([]string, 0, len(aliases)+2)
	for i, row := range res.Rows {
		cells = cells[:0]
		cells = append(cells, EscapeCSVCell(timestampCell(row["ts"])))
		if res.Spec.HasDimension() {
			cells = append(cells, EscapeCSVCell(textCell(row["dim"])))
		}
		for _, alias := range aliases {
			cells = append(cells, EscapeCSVCell(numberCell(row[alias])))
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(cells, ",")); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	return nil
}

// EscapeCSVCell quotes raw and doubles embedded quotes. Values a spreadsheet
// would read as a formula (leading = + - @) get a leading apostrophe inside the quotes.
func EscapeCSVCell(raw string) string {
	escaped := strings.ReplaceAll(raw, `"`, `""`)
	if raw != "" && strings.IndexByte("=+-@", raw[0]) >= 0 {
		return `"'` + escaped + `"`
	}
	return `"` + escaped + `"`
}

func timestampCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.UTC().Format(csvTimeLayout)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func textCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func numberCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "0"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
