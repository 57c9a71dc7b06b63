package model

// Stage is the phase of information gathering or generation a session is
// in. Stages are totally ordered by the conversational flow.
type Stage string

const (
	StageInitial            Stage = "initial"
	StageResearchBackground Stage = "research_background"
	StageLiteratureReview   Stage = "literature_review"
	StageMethodology        Stage = "methodology"
	StageResults            Stage = "results"
	StageDiscussion         Stage = "discussion"
	StageGenerating         Stage = "generating"
	StageCompleted          Stage = "completed"
)

// stageFlow is the full forward ordering. There are no back edges.
var stageFlow = []Stage{
	StageInitial,
	StageResearchBackground,
	StageLiteratureReview,
	StageMethodology,
	StageResults,
	StageDiscussion,
	StageGenerating,
	StageCompleted,
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s.index() >= 0
}

func (s Stage) index() int {
	for i, stage := range stageFlow {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage immediately after s in the flow. ok is false when
// s is terminal (completed) or unknown.
func (s Stage) Next() (next Stage, ok bool) {
	i := s.index()
	if i < 0 || i == len(stageFlow)-1 {
		return s, false
	}
	return stageFlow[i+1], true
}

// Before reports whether s strictly precedes other in the flow. Unknown
// stages precede nothing.
func (s Stage) Before(other Stage) bool {
	i, j := s.index(), other.index()
	return i >= 0 && j >= 0 && i < j
}

// Conversational reports whether the stage accepts further conversational
// turns. Conversation is closed once generation starts.
func (s Stage) Conversational() bool {
	return s.Valid() && s.Before(StageGenerating)
}

// LastConversational is the final information-collection stage before
// generation.
const LastConversational = StageDiscussion
