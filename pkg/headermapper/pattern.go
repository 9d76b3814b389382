package headermapper

import "strings"

// Reserved pattern tokens standing in for a protocol's discovered standard
// header names rather than a literal glob.
const (
	TokenStandardRequestHeaders = "STANDARD_REQUEST_HEADERS"
	TokenStandardReplyHeaders   = "STANDARD_REPLY_HEADERS"
)

// matchesGlob reports whether name matches pattern, case-insensitively.
// pattern may be an exact name, a prefix glob ("foo*"), a suffix glob
// ("*foo"), or a contains glob ("*foo*"). The reserved tokens never match
// here; callers check those separately against discovered standard names.
func matchesGlob(pattern, name string) bool {
	if pattern == TokenStandardRequestHeaders || pattern == TokenStandardReplyHeaders {
		return false
	}
	p := strings.ToLower(pattern)
	n := strings.ToLower(name)

	switch {
	case p == "*":
		return true
	case strings.HasPrefix(p, "*") && strings.HasSuffix(p, "*") && len(p) > 1:
		return strings.Contains(n, p[1:len(p)-1])
	case strings.HasPrefix(p, "*"):
		return strings.HasSuffix(n, p[1:])
	case strings.HasSuffix(p, "*"):
		return strings.HasPrefix(n, p[:len(p)-1])
	default:
		return p == n
	}
}

// containsCI reports whether names contains target, case-insensitively.
func containsCI(names []string, target string) bool {
	t := strings.ToLower(target)
	for _, n := range names {
		if strings.ToLower(n) == t {
			return true
		}
	}
	return false
}
