package storage

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// planner decides which day files are candidates for a query, by
// dimension-path containment and a date-range predicate on the file's
// trailing year/month/day path components. It is built once per query
// from the fixed dimension values and the query's time range, and
// reused for every candidate path the walk produces.
type planner struct {
	dimensionPath    string
	dimensionsInPath bool
	startTime        time.Time
	endTime          *time.Time
}

// newPlanner builds a planner for one query. dimensionsInPath must
// reflect whether the backend's path format actually encodes
// {dimensions}; when it does not, every dimension value lives inside
// the file instead of its path, so the dimension-path prune is skipped
// and matchesDimensions alone decides, per record, during decode.
func newPlanner(dimensionNames []string, dimensions map[string]any, startTime time.Time, endTime *time.Time, dimensionsInPath bool) *planner {
	parts := make([]string, 0, len(dimensionNames)*2)
	for _, name := range dimensionNames {
		parts = append(parts, name, toPathValue(dimensions[name]))
	}
	return &planner{
		dimensionPath:    strings.Join(parts, "/"),
		dimensionsInPath: dimensionsInPath,
		startTime:        startTime,
		endTime:          endTime,
	}
}

// shouldVisit applies two filters: when the path format encodes
// dimensions, the dimension-path substring must occur in the candidate
// path; and the date encoded in the path's last three components must
// fall in [startTime, endTime+1day) (or [startTime, +inf) with no
// endTime). Paths whose last three components are not all integers are
// rejected, not fatal — logged at debug and skipped.
func (p *planner) shouldVisit(path string) bool {
	if p.dimensionsInPath && p.dimensionPath != "" && !strings.Contains(path, p.dimensionPath) {
		return false
	}

	fileDate, ok := parseTrailingDate(path)
	if !ok {
		slog.Debug("chronostore: skipping unparseable candidate path", "path", path)
		return false
	}

	if fileDate.Before(p.startTime) {
		return false
	}
	if p.endTime != nil && !fileDate.Before(p.endTime.Add(24*time.Hour)) {
		return false
	}
	return true
}

// parseTrailingDate parses a path's last three slash-separated
// components as zero-padded (or not) integer year/month/day and returns
// the corresponding UTC midnight instant.
func parseTrailingDate(path string) (time.Time, bool) {
	clean := filepath.ToSlash(path)
	comps := strings.Split(clean, "/")
	if len(comps) < 3 {
		return time.Time{}, false
	}
	tail := comps[len(comps)-3:]

	year, err := strconv.Atoi(tail[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(tail[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(tail[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func toPathValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return toStringFallback(v)
	}
}
