package engine

import (
	"time"

	"github.com/dlclark/regexp2"
)

// NameRegexp2 is the registry name of the backtracking backend.
const NameRegexp2 = "regexp2"

// DefaultMatchTimeout bounds a single Find on a backtracking engine.
const DefaultMatchTimeout = 5 * time.Second

// Regexp2Options tunes the regexp2 backend.
type Regexp2Options struct {
	// MatchTimeout bounds each Find. Zero means DefaultMatchTimeout.
	MatchTimeout time.Duration
	// ECMAScript switches to JavaScript-compatible syntax and semantics.
	ECMAScript bool
	// RE2 restricts syntax to what RE2 accepts.
	RE2 bool
}

// Regexp2 is a .NET-style backtracking backend. Its worst case is
// exponential; every Find runs under MatchTimeout.
type Regexp2 struct {
	opts Regexp2Options
}

// NewRegexp2 creates the regexp2 backend.
func NewRegexp2(opts Regexp2Options) *Regexp2 {
	if opts.MatchTimeout <= 0 {
		opts.MatchTimeout = DefaultMatchTimeout
	}
	return &Regexp2{opts: opts}
}

func (*Regexp2) Name() string     { return NameRegexp2 }
func (*Regexp2) LinearTime() bool { return false }

// MatchTimeout returns the per-input deadline.
func (e *Regexp2) MatchTimeout() time.Duration { return e.opts.MatchTimeout }

func (e *Regexp2) Compile(pattern string) (Matcher, error) {
	flags := regexp2.None
	if e.opts.ECMAScript {
		flags |= regexp2.ECMAScript
	}
	if e.opts.RE2 {
		flags |= regexp2.RE2
	}
	re, err := regexp2.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = e.opts.MatchTimeout
	return &regexp2Matcher{re: re, groups: len(re.GetGroupNumbers()) - 1}, nil
}

type regexp2Matcher struct {
	re     *regexp2.Regexp
	groups int
}

func (m *regexp2Matcher) NumGroups() int { return m.groups }

// Find reports the last capture of each group, the same text regexp2's
// Group.String returns for a group inside a repetition.
func (m *regexp2Matcher) Find(input string) (*Match, error) {
	found, err := m.re.FindStringMatch(input)
	if err != nil || found == nil {
		return nil, err
	}

	offsets := runeOffsets(input)
	groups := found.Groups()
	res := &Match{
		Full:   runeSpan(offsets, found.Index, found.Length),
		Groups: make([]Span, 0, m.groups),
	}
	for _, g := range groups[1:] {
		if len(g.Captures) == 0 {
			res.Groups = append(res.Groups, NoSpan)
			continue
		}
		last := g.Captures[len(g.Captures)-1]
		res.Groups = append(res.Groups, runeSpan(offsets, last.Index, last.Length))
	}
	return res, nil
}

// runeOffsets maps rune indexes to byte offsets. regexp2 works on []rune(s),
// where each invalid byte becomes one rune, matching how range walks a string.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func runeSpan(offsets []int, index, length int) Span {
	return Span{Start: offsets[index], End: offsets[index+length]}
}
