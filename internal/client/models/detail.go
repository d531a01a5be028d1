// Package models defines client-side data models used by the lost-and-found
// CLI and API client.
package models

import (
	"errors"
	"sort"
	"strings"
)

var ErrIncorrectDetail = errors.New("detail item must be name=value")

// Detail is a single identifying key/value pair (color=black, brand=Sony).
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseDetails converts raw "name=value" lines into details. The line is split
// at the first '=', so values may contain '='. Keys and values are trimmed; a
// line without '=' or with an empty name is rejected.
func ParseDetails(s []string) ([]Detail, error) {
	data := make([]Detail, len(s))
	for n, item := range s {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, ErrIncorrectDetail
		}
		data[n] = Detail{Key: key, Value: strings.TrimSpace(value)}
	}
	return data, nil
}

// DetailsToMap builds the wire representation. Pairs with an empty key or
// value are dropped; later duplicates win.
func DetailsToMap(details []Detail) map[string]string {
	m := make(map[string]string, len(details))
	for _, d := range details {
		k := strings.TrimSpace(d.Key)
		v := strings.TrimSpace(d.Value)
		if k == "" || v == "" {
			continue
		}
		m[k] = v
	}
	return m
}

// DetailsFromMap is the inverse of DetailsToMap, sorted by key.
func DetailsFromMap(m map[string]string) []Detail {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Detail, 0, len(keys))
	for _, k := range keys {
		out = append(out, Detail{Key: k, Value: m[k]})
	}
	return out
}
