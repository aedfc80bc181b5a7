// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses path and query values where a malformed value should
simply be treated as absent.

Handlers that must tell "0" apart from "abc" parse with strconv directly. The
chapter and plan-day routes do not, because 0 is never a valid chapter or day and
fails validation further down anyway.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt returns 0 for an empty or malformed value.
func ToInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// ToBool accepts strconv.ParseBool spellings plus "yes" and "on". Anything else is false.
func ToBool(raw string) bool {
	switch value := strings.ToLower(strings.TrimSpace(raw)); value {
	case "yes", "on":
		return true
	default:
		parsed, _ := strconv.ParseBool(value)
		return parsed
	}
}
