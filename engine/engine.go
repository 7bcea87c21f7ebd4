package engine

// Span is a half-open byte range [Start, End) of an input.
// Start < 0 means the group did not participate in the match.
type Span struct {
	Start int
	End   int
}

// NoSpan marks a capture group that did not participate.
var NoSpan = Span{Start: -1, End: -1}

// Participated reports whether the span refers to text in the input.
func (s Span) Participated() bool {
	return s.Start >= 0
}

// Text returns the input slice covered by the span, or "" if it did not participate.
func (s Span) Text(input string) string {
	if !s.Participated() {
		return ""
	}
	return input[s.Start:s.End]
}

// Match is one successful match.
type Match struct {
	// Full covers the whole match (group 0).
	Full Span
	// Groups holds groups 1..N; len(Groups) == Matcher.NumGroups().
	Groups []Span
}

// Matcher is a compiled pattern. Implementations are safe for concurrent use.
type Matcher interface {
	// NumGroups returns the number of capturing groups declared in the pattern.
	NumGroups() int
	// Find searches for the leftmost match anywhere in input. It returns
	// (nil, nil) when nothing matches. A non-nil error is an engine runtime
	// failure, such as a backtracking engine running past its deadline.
	Find(input string) (*Match, error)
}

// Engine compiles patterns for one regex facility.
type Engine interface {
	// Name is the registry name of the backend.
	Name() string
	// LinearTime reports whether matching is guaranteed linear in input length.
	LinearTime() bool
	// Compile builds a Matcher. Any failure means the pattern is not valid
	// for this engine; the reason is not classified.
	Compile(pattern string) (Matcher, error)
}

// spansFromIndex converts a FindStringSubmatchIndex result into a Match.
func spansFromIndex(loc []int) *Match {
	if loc == nil {
		return nil
	}
	m := &Match{
		Full:   Span{Start: loc[0], End: loc[1]},
		Groups: make([]Span, 0, len(loc)/2-1),
	}
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			m.Groups = append(m.Groups, NoSpan)
			continue
		}
		m.Groups = append(m.Groups, Span{Start: loc[i], End: loc[i+1]})
	}
	return m
}
