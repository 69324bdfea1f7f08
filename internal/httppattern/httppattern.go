// Package httppattern parses standard library ServeMux routing patterns and builds
// concrete URLs from them by substituting wildcard values in order.
package httppattern

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Pattern is a parsed routing pattern like "GET /blog/{id}/{$}".
type Pattern struct {
	method string
	host   string
	segs   []segment

	// exact marks patterns terminated with {$}; subtree marks patterns ending in "/".
	exact   bool
	subtree bool
}

type segment struct {
	literal string
	wild    string
	multi   bool
}

// ParsePattern parses a ServeMux pattern: an optional method, an optional host and a
// path of literal and wildcard segments.
func ParsePattern(str string) (*Pattern, error) {
	if str == "" {
		return nil, errors.New("empty pattern")
	}

	pat := new(Pattern)

	rest := str
	if idx := strings.IndexByte(rest, ' '); idx >= 0 {
		pat.method, rest = rest[:idx], strings.TrimLeft(rest[idx+1:], " ")
	}

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return nil, errors.Newf("pattern %q has no path", str)
	}

	pat.host, rest = rest[:slash], rest[slash:]

	if rest == "/" {
		pat.subtree = true
		return pat, nil
	}

	parts := strings.Split(rest[1:], "/")
	for i, part := range parts {
		last := i == len(parts)-1

		switch {
		case part == "" && last:
			pat.subtree = true
		case part == "{$}":
			if !last {
				return nil, errors.New("{$} must be the last segment")
			}
			pat.exact = true
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			multi := strings.HasSuffix(name, "...")
			if multi {
				name = strings.TrimSuffix(name, "...")
				if !last {
					return nil, errors.New("{name...} must be the last segment")
				}
			}
			if name == "" {
				return nil, errors.Newf("empty wildcard in pattern %q", str)
			}
			pat.segs = append(pat.segs, segment{wild: name, multi: multi})
		case strings.Contains(part, "{") || strings.Contains(part, "}"):
			return nil, errors.Newf("malformed wildcard segment %q", part)
		default:
			pat.segs = append(pat.segs, segment{literal: part})
		}
	}

	return pat, nil
}

// Build substitutes vals for the pattern's wildcards in order and returns the resulting
// path. It fails when too few or too many values are given.
func Build(pat *Pattern, vals ...string) (string, error) {
	var b strings.Builder

	used := 0
	for _, seg := range pat.segs {
		b.WriteByte('/')

		if seg.wild == "" {
			b.WriteString(seg.literal)
			continue
		}

		if used >= len(vals) {
			return "", errors.Newf("not enough values: no value for wildcard %q", seg.wild)
		}

		b.WriteString(vals[used])
		used++
	}

	if used < len(vals) {
		return "", errors.Newf("too many values: %d given, %d wildcards", len(vals), used)
	}

	if pat.subtree && b.Len() > 0 {
		b.WriteByte('/')
	}

	if b.Len() == 0 {
		return "/", nil
	}

	return b.String(), nil
}

// Method returns the pattern's method part, or the empty string.
func (p *Pattern) Method() string { return p.method }
