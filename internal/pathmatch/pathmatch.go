// Package pathmatch implements a multi-match path table on top of httprouter lookup trees.
//
// Unlike a regular router, a Table reports EVERY registered route that matches a path, in registration
// order. Patterns use the httprouter syntax: static segments, ":name" parameters and a trailing
// "*name" catch-all.
package pathmatch

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/julienschmidt/httprouter"
)

// lookupMethod is the method every pattern is stored under in its lookup tree. Method filtering
// happens in the table itself.
const lookupMethod = http.MethodGet

// Hit is one matching route.
type Hit[T any] struct {
	Value  T
	Params httprouter.Params
}

type route[T any] struct {
	method string
	prefix bool
	tree   *httprouter.Router
	value  T
}

// Table holds routes in registration order. It is not safe for concurrent Add, but concurrent Find
// calls are fine once all routes have been added.
type Table[T any] struct {
	routes []route[T]
}

// New inits an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{}
}

// Len returns the number of routes that were added.
func (t *Table[T]) Len() int { return len(t.routes) }

// Add registers an exact route. An empty method matches every request method.
func (t *Table[T]) Add(method, pattern string, v T) error {
	return t.add(method, pattern, false, v)
}

// AddPrefix registers a route that matches the pattern itself and any path below it.
func (t *Table[T]) AddPrefix(pattern string, v T) error {
	return t.add("", pattern, true, v)
}

func (t *Table[T]) add(method, pattern string, prefix bool, v T) error {
	tree, err := compile(pattern)
	if err != nil {
		return err
	}

	t.routes = append(t.routes, route[T]{
		method: strings.ToUpper(method),
		prefix: prefix,
		tree:   tree,
		value:  v,
	})

	return nil
}

// Find returns all routes matching method and path, in the order they were added.
func (t *Table[T]) Find(method, path string) []Hit[T] {
	if path == "" {
		path = "/"
	}

	var (
		hits    []Hit[T]
		parents []string
	)

	for _, rt := range t.routes {
		if !methodMatches(rt.method, method) {
			continue
		}

		if !rt.prefix {
			if ps, ok := lookup(rt.tree, path); ok {
				hits = append(hits, Hit[T]{Value: rt.value, Params: ps})
			}

			continue
		}

		if parents == nil {
			parents = Parents(path)
		}

		for _, p := range parents {
			if ps, ok := lookup(rt.tree, p); ok {
				hits = append(hits, Hit[T]{Value: rt.value, Params: ps})
				break
			}
		}
	}

	return hits
}

// Parents returns path followed by each of its ancestors, ending with "/".
func Parents(path string) []string {
	out := []string{path}
	for p := strings.TrimSuffix(path, "/"); p != ""; {
		idx := strings.LastIndex(p, "/")
		if idx <= 0 {
			break
		}

		p = p[:idx]
		out = append(out, p)
	}

	if out[len(out)-1] != "/" {
		out = append(out, "/")
	}

	return out
}

// methodMatches reports whether a route registered for method 'want' serves a request with method
// 'got'. HEAD requests are served by GET routes.
func methodMatches(want, got string) bool {
	switch {
	case want == "":
		return true
	case want == got:
		return true
	case got == http.MethodHead && want == http.MethodGet:
		return true
	default:
		return false
	}
}

// lookup matches path against the single pattern in tree. A path that only differs by a trailing
// slash is considered a match.
func lookup(tree *httprouter.Router, path string) (httprouter.Params, bool) {
	h, ps, tsr := tree.Lookup(lookupMethod, path)
	if h != nil {
		return ps, true
	}

	if !tsr {
		return nil, false
	}

	alt := path + "/"
	if strings.HasSuffix(path, "/") {
		alt = strings.TrimSuffix(path, "/")
	}

	if h, ps, _ = tree.Lookup(lookupMethod, alt); h != nil {
		return ps, true
	}

	return nil, false
}

func noop(http.ResponseWriter, *http.Request, httprouter.Params) {}

// compile builds a lookup tree holding just the pattern. httprouter reports malformed patterns by
// panicking, those panics are turned into errors.
func compile(pattern string) (tree *httprouter.Router, err error) {
	if _, err := Parse(pattern); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			tree, err = nil, errors.Newf("invalid pattern %q: %v", pattern, rec)
		}
	}()

	tree = httprouter.New()
	tree.Handle(lookupMethod, pattern, noop)

	return tree, nil
}

// Segment is one part of a parsed pattern.
type Segment struct {
	Literal  string
	Name     string
	CatchAll bool
}

// Pattern is a parsed path pattern.
type Pattern struct {
	raw      string
	segments []Segment
}

func (p *Pattern) String() string { return p.raw }

// Segments returns the parsed segments in order.
func (p *Pattern) Segments() []Segment { return p.segments }

// Parse parses the httprouter style pattern 's'.
func Parse(s string) (*Pattern, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, errors.Newf("invalid pattern %q: must begin with '/'", s)
	}

	pat := &Pattern{raw: s}
	rest := s
	for rest != "" {
		idx := strings.IndexAny(rest, ":*")
		if idx < 0 {
			pat.segments = append(pat.segments, Segment{Literal: rest})
			break
		}

		if idx > 0 {
			pat.segments = append(pat.segments, Segment{Literal: rest[:idx]})
		}

		end := strings.IndexByte(rest[idx:], '/')
		if end < 0 {
			end = len(rest)
		} else {
			end += idx
		}

		name := rest[idx+1 : end]
		if name == "" {
			return nil, errors.Newf("invalid pattern %q: wildcard without a name", s)
		}

		catchAll := rest[idx] == '*'
		if catchAll && end != len(rest) {
			return nil, errors.Newf("invalid pattern %q: catch-all must be the last segment", s)
		}

		pat.segments = append(pat.segments, Segment{Name: name, CatchAll: catchAll})
		rest = rest[end:]
	}

	return pat, nil
}

// Build substitutes the wildcards of 'pat' with 'vals', in order.
func Build(pat *Pattern, vals ...string) (string, error) {
	var (
		sb strings.Builder
		n  int
	)

	for _, seg := range pat.segments {
		if seg.Name == "" {
			sb.WriteString(seg.Literal)
			continue
		}

		if n >= len(vals) {
			return "", errors.Newf("not enough values for pattern %q: want more than %d", pat.raw, len(vals))
		}

		v := vals[n]
		n++

		if !seg.CatchAll && strings.Contains(v, "/") {
			return "", errors.Newf("value %q for parameter %q contains a slash", v, seg.Name)
		}

		sb.WriteString(strings.TrimPrefix(v, "/"))
	}

	if n != len(vals) {
		return "", errors.Newf("too many values for pattern %q: got %d, want %d", pat.raw, len(vals), n)
	}

	return sb.String(), nil
}
