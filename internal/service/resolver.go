package service

import "scenario-server/internal/models"

// resolveProcessor maps a step context to exactly one processor. Total and
// pure: first matching rule wins.
//
// Bad branch/ending pre-empts everything else — once the user is on the bad
// path the scenario is steering them toward the ending regardless of further
// structure. CHOICE is checked before quiz gating because a CHOICE step's own
// selection is its gate; an attached quiz reference on a CHOICE step is
// ignored.
func (e *scenarioEngine) resolveProcessor(sc StepContext) stepProcessor {
	switch {
	case sc.BadBranch || sc.BadEnding:
		return e.badBranch
	case sc.Current.Type == models.StepTypeChoice:
		return e.choice
	case sc.Current.QuizID.Valid:
		return e.quizGate
	default:
		return e.normal
	}
}
