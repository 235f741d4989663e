package bdispatch

import (
	"github.com/advdv/bdispatch/internal/pathmatch"
	"github.com/cockroachdb/errors"
)

// MethodAll registers a route for every request method.
const MethodAll = ""

// CandidateID identifies a single registered stage. IDs increase monotonically in registration order.
type CandidateID uint64

// Candidate is one stage bound to a (method, pattern) pair.
type Candidate struct {
	ID    CandidateID
	Stage Stage
}

// Params holds the path parameters of a request.
type Params map[string]string

// Match is the result of matching one request: all applicable candidates in registration order and the
// path parameters they captured.
type Match struct {
	Candidates []Candidate
	Params     Params
}

// Matcher turns a method and path into the candidates that apply to it. The dispatcher never looks at how
// patterns are stored. Register and RegisterPrefix are only called during configuration, Find is called
// concurrently while serving.
type Matcher interface {
	Register(method, pattern string, c Candidate) error
	RegisterPrefix(pattern string, c Candidate) error
	Find(method, path string) Match
}

type matcher struct {
	tbl *pathmatch.Table[Candidate]
}

// NewMatcher returns the default matcher. Patterns use ":name" for parameters and a trailing "*name" to
// capture the rest of the path. Exact patterns also match with a trailing slash and GET routes also serve
// HEAD requests. When multiple candidates capture the same parameter the last one registered wins.
func NewMatcher() Matcher {
	return &matcher{tbl: pathmatch.New[Candidate]()}
}

func (m *matcher) Register(method, pattern string, c Candidate) error {
	if err := m.tbl.Add(method, pattern, c); err != nil {
		return errors.Wrap(err, "register")
	}

	return nil
}

func (m *matcher) RegisterPrefix(pattern string, c Candidate) error {
	if err := m.tbl.AddPrefix(pattern, c); err != nil {
		return errors.Wrap(err, "register prefix")
	}

	return nil
}

func (m *matcher) Find(method, path string) Match {
	hits := m.tbl.Find(method, path)

	res := Match{Candidates: make([]Candidate, 0, len(hits))}
	for _, hit := range hits {
		res.Candidates = append(res.Candidates, hit.Value)
		for _, p := range hit.Params {
			if res.Params == nil {
				res.Params = Params{}
			}

			res.Params[p.Key] = p.Value
		}
	}

	return res
}
