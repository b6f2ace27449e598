package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cell codecs shared by the table repositories. Decoders never fail: a
// damaged cell is substituted with a documented default and the substitution
// is recorded on the record's DecodeWarnings so callers can tell "absent"
// from "undecodable".

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// parseTimeCell substitutes the current time for unreadable timestamps.
func parseTimeCell(value, field string, clock clockwork.Clock, warnings *[]string) time.Time {
	v := strings.TrimSpace(value)
	if v != "" {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts
			}
		}
	}
	*warnings = append(*warnings, fmt.Sprintf("%s: unreadable timestamp %q, substituted current time", field, value))
	return clock.Now()
}

// parseDateCell reports ok=false for unreadable dates so date-indexed
// tables can drop the row instead of inventing an instant.
func parseDateCell(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(dateLayout, v); err == nil {
		return ts, true
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloatCell(value, field string, warnings *[]string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s: unreadable number %q, substituted 0", field, value))
		return 0
	}
	return f
}

func parseIntCell(value, field string, warnings *[]string) int {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s: unreadable number %q, substituted 0", field, value))
			return 0
		}
		return int(f)
	}
	return n
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseOptFloatCell(value, field string, warnings *[]string) *float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s: unreadable number %q, substituted null", field, value))
		return nil
	}
	return &f
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func parseBoolCell(value, field string, warnings *[]string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s: unreadable boolean %q, substituted false", field, value))
		return false
	}
	return b
}

// encodeJSONList stores nested structures as a JSON array cell.
func encodeJSONList[T any](items []T) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeJSONList yields an empty list for anything undecodable.
func decodeJSONList[T any](value, field string, warnings *[]string) []T {
	v := strings.TrimSpace(value)
	if v == "" || v == "[]" || v == "null" {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(v), &items); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s: undecodable list %q, substituted empty list", field, value))
		return nil
	}
	return items
}
