package core

import "strings"

// CleanString trims leading and trailing whitespace in `s` and optionally
// lowers it. Emails and ids are stored lowered, display names as typed.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanStrings trims every element and drops the ones left empty. Classroom
// and tag lists arrive from clients with stray blanks; only meaningful
// entries are kept.
func CleanStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
