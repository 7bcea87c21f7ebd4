package query

// Query is one probe request: a pattern and the ordered inputs to try it on.
type Query struct {
	Pattern string   `json:"pattern"`
	Inputs  []string `json:"inputs"`
}

// MatchContents holds the text of a successful match.
type MatchContents struct {
	// MatchedString is the text of the whole match (group 0).
	MatchedString string `json:"matchedString"`
	// CaptureGroups holds groups 1..N in index order. Group 0 is never included.
	CaptureGroups []string `json:"captureGroups"`
}

// MatchResult is the outcome of one input.
type MatchResult struct {
	Input         string        `json:"input"`
	Matched       bool          `json:"matched"`
	MatchContents MatchContents `json:"matchContents"`
}

// QueryResult is the complete report for one query on one engine.
type QueryResult struct {
	Pattern      string        `json:"pattern"`
	Inputs       []string      `json:"inputs"`
	ValidPattern bool          `json:"validPattern"`
	Results      []MatchResult `json:"results"`
}

// NoMatch returns the placeholder result for an input with no match anywhere.
func NoMatch(input string) MatchResult {
	return MatchResult{
		Input:   input,
		Matched: false,
		MatchContents: MatchContents{
			MatchedString: "",
			CaptureGroups: []string{},
		},
	}
}

// Matched returns a result for an input whose match produced full and groups.
func Matched(input, full string, groups []string) MatchResult {
	if groups == nil {
		groups = []string{}
	}
	return MatchResult{
		Input:   input,
		Matched: true,
		MatchContents: MatchContents{
			MatchedString: full,
			CaptureGroups: groups,
		},
	}
}
