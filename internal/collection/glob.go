package collection

import (
	"path"
	"strings"
)

// ExpandBraces expands one level of {a,b} alternation per group, e.g.
// "**/*.{md,mdx}" -> ["**/*.md", "**/*.mdx"]. Nested braces are not supported.
func ExpandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}
	end := strings.IndexByte(pattern[open:], '}')
	if end < 0 {
		return []string{pattern}
	}
	end += open
	prefix, alts, suffix := pattern[:open], pattern[open+1:end], pattern[end+1:]
	var out []string
	for _, alt := range strings.Split(alts, ",") {
		out = append(out, ExpandBraces(prefix+alt+suffix)...)
	}
	return out
}

// MatchGlob matches a slash-separated name against pattern. Segments use
// path.Match syntax; a "**" segment matches zero or more whole segments.
func MatchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(pat[0], segs[0])
		if err != nil || !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}
