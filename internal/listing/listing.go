// Package listing holds the in-memory list operations the screens apply to fetched records.
package listing

import "strings"

// Predicate reports whether an item should stay in a filtered list.
type Predicate[T any] func(T) bool

// Filter returns the items matching every predicate, preserving order.
// Nil predicates are skipped.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, pred := range preds {
			if pred != nil && !pred(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// MatchEqual matches items whose key equals want. An empty want matches everything.
func MatchEqual[T any](want string, key func(T) string) Predicate[T] {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, "all") {
		return nil
	}
	return func(item T) bool {
		return strings.EqualFold(key(item), want)
	}
}

// MatchQuery matches items where any of the text fields contains query, case-insensitively.
func MatchQuery[T any](query string, fields func(T) []string) Predicate[T] {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	return func(item T) bool {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	}
}

// AppendUnique concatenates values onto base, trimming blanks and skipping
// case-insensitive duplicates. First-seen order wins.
func AppendUnique(base []string, more ...string) []string {
	seen := make(map[string]struct{}, len(base)+len(more))
	out := make([]string, 0, len(base)+len(more))
	for _, list := range [][]string{base, more} {
		for _, v := range list {
			v = strings.TrimSpace(v)
			key := strings.ToLower(v)
			if v == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// SplitList splits a comma or newline separated form value into unique entries.
func SplitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	return AppendUnique(nil, parts...)
}
