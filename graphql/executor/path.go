package executor

import "strconv"

// path is a singly-linked response path, growing one component at a time as execution descends
// into nested fields and list indices. Building it this way avoids re-slicing on every step.
type path struct {
	Prev            *path
	StringComponent string
	IntComponent    int
	isInt           bool
}

// WithIntComponent returns a path one list index deeper than p.
func (p *path) WithIntComponent(n int) *path {
	return &path{
		Prev:         p,
		IntComponent: n,
		isInt:        true,
	}
}

// WithStringComponent returns a path one response key deeper than p.
func (p *path) WithStringComponent(s string) *path {
	return &path{
		Prev:            p,
		StringComponent: s,
	}
}

// Depth returns the number of components in p.
func (p *path) Depth() int {
	n := 0
	for cur := p; cur != nil; cur = cur.Prev {
		n++
	}
	return n
}

// Slice renders p as the ordered list of components expected in a GraphQL error's "path" entry.
func (p *path) Slice() []interface{} {
	if p == nil {
		return nil
	}
	if p.isInt {
		return append(p.Prev.Slice(), p.IntComponent)
	}
	return append(p.Prev.Slice(), p.StringComponent)
}

// String renders p as a dotted, human-readable component list for logging, e.g. "a.b.0.c".
func (p *path) String() string {
	components := p.Slice()
	s := ""
	for i, c := range components {
		if i > 0 {
			s += "."
		}
		switch v := c.(type) {
		case int:
			s += strconv.Itoa(v)
		default:
			s += v.(string)
		}
	}
	return s
}
