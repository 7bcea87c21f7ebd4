package engine

import (
	"github.com/wasilibs/go-re2"
)

// NameRE2 is the registry name of the RE2 backend.
const NameRE2 = "re2"

// RE2 runs patterns on the C++ RE2 library through go-re2.
type RE2 struct{}

// NewRE2 creates the RE2 backend.
func NewRE2() *RE2 { return &RE2{} }

func (*RE2) Name() string     { return NameRE2 }
func (*RE2) LinearTime() bool { return true }

func (*RE2) Compile(pattern string) (Matcher, error) {
	re, err := re2.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &re2Matcher{re: re}, nil
}

type re2Matcher struct{ re *re2.Regexp }

func (m *re2Matcher) NumGroups() int { return m.re.NumSubexp() }

func (m *re2Matcher) Find(input string) (*Match, error) {
	return spansFromIndex(m.re.FindStringSubmatchIndex(input)), nil
}
