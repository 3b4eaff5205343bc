package resolve

import "strings"

// ComposePath derives an endpoint's absolute route path from the chain of
// ancestor mount names and its relative pattern. The root contributes no
// segment and empty mount names contribute no separator. No trailing-slash
// normalization is applied: "/users/" and "/users" are distinct paths, the
// same way list/create patterns differ from ad-hoc custom endpoints that
// omit the trailing slash.
func ComposePath(mounts []string, pattern string) string {
	var b strings.Builder
	for _, m := range mounts {
		if m == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(m)
	}
	b.WriteString(pattern)
	return b.String()
}
