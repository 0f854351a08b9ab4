// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

// Package query parses loosely-typed URL query parameter values.
package query

import (
	"strconv"
	"strings"
)

// Float64Slice parses a comma-separated query string into a slice of
// float64 values. Invalid entries are ignored safely.
func Float64Slice(val string) []float64 {
	var res []float64
	for _, v := range strings.Split(val, ",") {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			res = append(res, f)
		}
	}
	return res
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Bool parses a query flag ("true", "1", "yes" are truthy).
func Bool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
