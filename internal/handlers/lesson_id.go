package handlers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const whitespace = " \t\n\r\v\f"

// coerceLessonID converts a loosely typed JSON value into an integer.
//
// Numbers are truncated toward zero, numeric strings are parsed (a leading integer
// prefix is enough, e.g. "12abc" is 12), true is 1, everything else is 0.
func coerceLessonID(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0
	}

	switch v := value.(type) {
	case float64:
		return truncate(v)
	case string:
		return intFromString(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// truncate converts f to int, mapping values outside the int range to 0
func truncate(f float64) int {
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

func intFromString(s string) int {
	s = strings.Trim(s, whitespace)
	if s == "" {
		return 0
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return truncate(f)
	}

	end := 0
	if s[0] == '+' || s[0] == '-' {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
