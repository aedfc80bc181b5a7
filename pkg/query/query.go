// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query reads list-valued query parameters such as ?testament=OT,NT.
package query

import "strings"

// StringSlice splits a comma separated value, dropping blank items.
func StringSlice(raw string) []string {
	items := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' })

	values := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
