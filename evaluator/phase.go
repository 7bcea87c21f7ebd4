package evaluator

// Phase is a step of one evaluation run.
type Phase int

const (
	PhaseCompiling Phase = iota
	PhaseCompiled
	PhaseCompileFailed
	PhaseMatching
	PhaseDone
)

var phaseNames = [...]string{
	PhaseCompiling:     "compiling",
	PhaseCompiled:      "compiled",
	PhaseCompileFailed: "compile_failed",
	PhaseMatching:      "matching",
	PhaseDone:          "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}
