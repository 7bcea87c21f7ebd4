package engine

import "regexp"

// NameGo is the registry name of the standard library backend.
const NameGo = "go"

// Stdlib is the standard library regexp backend.
type Stdlib struct{}

// NewStdlib creates the standard library backend.
func NewStdlib() *Stdlib { return &Stdlib{} }

func (*Stdlib) Name() string     { return NameGo }
func (*Stdlib) LinearTime() bool { return true }

// Compile compiles pattern with regexp.Compile (leftmost-first semantics).
func (*Stdlib) Compile(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &stdlibMatcher{re: re}, nil
}

type stdlibMatcher struct{ re *regexp.Regexp }

func (m *stdlibMatcher) NumGroups() int { return m.re.NumSubexp() }

func (m *stdlibMatcher) Find(input string) (*Match, error) {
	return spansFromIndex(m.re.FindStringSubmatchIndex(input)), nil
}
