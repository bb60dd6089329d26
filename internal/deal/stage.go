package deal

import "fmt"

// Stage is a named step in a deal's sales progression.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageWon         Stage = "won"
	StageLost        Stage = "lost"
)

// stageOrder is the pipeline progression. Terminal stages come last.
var stageOrder = []Stage{
	StageLead,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

// stageProbabilities is the default stage -> win-probability table.
var stageProbabilities = map[Stage]float64{
	StageLead:        0.1,
	StageQualified:   0.25,
	StageProposal:    0.4,
	StageNegotiation: 0.6,
	StageWon:         1.0,
	StageLost:        0.0,
}

// Stages returns the ordered pipeline progression.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)

	return out
}

// KnownStage reports whether s is part of the pipeline.
func KnownStage(s Stage) bool {
	_, ok := stageProbabilities[s]
	return ok
}

// DefaultProbability returns the default win-probability for a stage.
func DefaultProbability(s Stage) (float64, error) {
	p, ok := stageProbabilities[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}

	return p, nil
}

// IsTerminal reports whether s is a closed outcome.
func IsTerminal(s Stage) bool {
	return s == StageWon || s == StageLost
}

// IsValidTransition reports whether a deal may move from one stage to
// another: forward along the progression, or to won/lost from any
// non-terminal stage. Nothing leaves a terminal stage. Unknown stages
// never transition.
func IsValidTransition(from, to Stage) bool {
	if !KnownStage(from) || !KnownStage(to) {
		return false
	}

	if IsTerminal(from) {
		return false
	}

	if IsTerminal(to) {
		return true
	}

	return stageIndex(to) > stageIndex(from)
}

func stageIndex(s Stage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}

	return -1
}
