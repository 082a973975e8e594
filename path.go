package recjson

import (
	"fmt"
	"strconv"
	"strings"
)

// pathRef is a parent-linked JSON Pointer segment. Segments are cheap to
// create while encoding; the pointer string is only rendered for issues.
type pathRef struct {
	parent *pathRef
	seg    string
}

func (p *pathRef) field(name string) *pathRef { return &pathRef{parent: p, seg: escapeSegment(name)} }

func (p *pathRef) index(i int) *pathRef { return &pathRef{parent: p, seg: strconv.Itoa(i)} }

// Pointer renders the RFC 6901 pointer; the root renders as "/".
func (p *pathRef) Pointer() string {
	var parts []string
	for q := p; q != nil && q.parent != nil; q = q.parent {
		parts = append(parts, q.seg)
	}
	if len(parts) == 0 {
		return "/"
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

func (p *pathRef) issue(code string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: issueMessage(code, m), Params: m}
}

func rootPath() *pathRef { return &pathRef{} }

// escape '~' -> '~0', '/' -> '~1' per RFC6901
func escapeSegment(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
