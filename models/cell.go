package models

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the cell format for every date column.
const DateLayout = "2006-01-02"

// cellStr indexes a possibly short row; cells past the end are absent,
// never a panic.
func cellStr(row []string, offset int) string {
	if offset < 0 || offset >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[offset])
}

// cellFloat applies the single lenient numeric rule: trim spaces and
// thousands separators, then ParseFloat; anything unparsable is 0.
// Spreadsheet input is forgiving and the decoder has to match it.
func cellFloat(row []string, offset int) float64 {
	raw := strings.ReplaceAll(cellStr(row, offset), ",", "")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func cellInt(row []string, offset int) int {
	return int(cellFloat(row, offset))
}

func cellDate(row []string, offset int) (time.Time, bool) {
	raw := cellStr(row, offset)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseSplit decodes the delimited investment-split form "0.30,0.40,0.30"
// as it appears in cells and in multipart form fields.
func ParseSplit(s string) []float64 {
	return splitFloats(s)
}

// splitFloats decodes a delimited cell like "0.30,0.40,0.30". Blank
// cells decode to an empty slice, unparsable parts to 0.
func splitFloats(cell string) []float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			f = 0
		}
		out = append(out, f)
	}
	return out
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ",")
}

// splitList decodes a comma-separated URL list cell.
func splitList(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}

// carry preserves the previous raw cell value for derived offsets when
// re-encoding a row. Encoding never synthesizes a computed value; the
// store either keeps the old one or recomputes it.
func carry(prev []string, offset int) string {
	if offset < 0 || offset >= len(prev) {
		return ""
	}
	return prev[offset]
}
