package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numericTSRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	durationRe  = regexp.MustCompile(`^(\d+)([smhdw])$`)
)

var durationUnits = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
}

// timeNow is swapped in tests.
var timeNow = time.Now

// parseTimeBound turns a --since/--until value into a Slack timestamp.
// Numeric values pass through untouched so sub-second precision is
// preserved; relative values like 30m or 2d count back from now.
func parseTimeBound(flag, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if numericTSRe.MatchString(value) {
		return value, nil
	}
	if m := durationRe.FindStringSubmatch(value); m != nil {
		amount, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			ts := timeNow().Unix() - amount*durationUnits[m[2]]
			return strconv.FormatFloat(float64(ts), 'f', -1, 64), nil
		}
	}
	return "", fmt.Errorf("invalid value for %s: %q (use unix ts like 1739051292.0042 or duration like 30m, 2h, 1d)", flag, value)
}

// parseHistoryBounds resolves both bounds and rejects inverted ranges.
func parseHistoryBounds(since, until string) (oldest, latest string, err error) {
	oldest, err = parseTimeBound("--since", since)
	if err != nil {
		return "", "", err
	}
	latest, err = parseTimeBound("--until", until)
	if err != nil {
		return "", "", err
	}
	if oldest != "" && latest != "" {
		lo, loErr := strconv.ParseFloat(oldest, 64)
		hi, hiErr := strconv.ParseFloat(latest, 64)
		if loErr == nil && hiErr == nil && lo > hi {
			return "", "", fmt.Errorf("--since cannot be later than --until")
		}
	}
	return oldest, latest, nil
}
